// Package schema describes a contact submission as an OpenAPI 3 component so
// other tools can validate or generate clients for the same payload the form
// produces.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// ComponentName is the key the submission schema is published under.
const ComponentName = "ContactSubmission"

const (
	emailPattern    = `^\s*[^@\s]+@[^@\s]+\.[^@\s]+\s*$`
	nonBlankPattern = `\S`
)

// Submission returns the schema of a submitted record.
func Submission() *openapi3.Schema {
	firstName := openapi3.NewStringSchema().WithMinLength(validation.MinFirstNameLength)
	firstName.Pattern = nonBlankPattern
	firstName.Description = "Given name, at least five characters."

	lastName := openapi3.NewStringSchema().WithMinLength(1)
	lastName.Pattern = nonBlankPattern
	lastName.Description = "Family name."

	email := openapi3.NewStringSchema().WithFormat("email")
	email.Pattern = emailPattern
	email.Description = "Reply address; the domain must include a top-level domain."

	message := openapi3.NewStringSchema()
	message.Description = "Optional free text."

	s := openapi3.NewObjectSchema().
		WithProperty(model.FieldFirstName.String(), firstName).
		WithProperty(model.FieldLastName.String(), lastName).
		WithProperty(model.FieldEmail.String(), email).
		WithProperty(model.FieldMessage.String(), message)

	required := make([]string, 0, 3)
	for _, field := range validation.DefaultRules().RequiredFields() {
		required = append(required, field.String())
	}
	s.Required = required
	s.Title = "Contact submission"
	return s
}

// Document builds and validates an OpenAPI document exposing Submission under
// components.schemas.
func Document(ctx context.Context, version string) (*openapi3.T, error) {
	if version == "" {
		version = "dev"
	}
	component, err := json.Marshal(Submission())
	if err != nil {
		return nil, fmt.Errorf("schema: encode component: %w", err)
	}

	raw, err := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Contact form",
			"version": version,
		},
		"paths": map[string]any{},
		"components": map[string]any{
			"schemas": map[string]json.RawMessage{
				ComponentName: component,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("schema: encode document: %w", err)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("schema: validate document: %w", err)
	}
	return doc, nil
}

// Check validates a decoded JSON payload against Submission.
func Check(payload map[string]any) error {
	if err := Submission().VisitJSON(payload); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Issues validates payload collecting every failure, keyed by the JSON
// pointer of the offending property ("/firstName"). Failures that are not
// tied to a property are keyed by "".
func Issues(payload map[string]any) map[string][]string {
	err := Submission().VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	out := make(map[string][]string)
	collectIssues(err, out)
	return out
}

func collectIssues(err error, out map[string][]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectIssues(inner, out)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := ""
		if path := schemaErr.JSONPointer(); len(path) > 0 {
			pointer = "/" + strings.Join(path, "/")
		}
		out[pointer] = append(out[pointer], schemaErr.Reason)
		return
	}
	out[""] = append(out[""], err.Error())
}

// CheckRecord validates a submitted record against Submission.
func CheckRecord(record model.SubmittedRecord) error {
	payload := map[string]any{
		model.FieldFirstName.String(): record.FirstName,
		model.FieldLastName.String():  record.LastName,
		model.FieldEmail.String():     record.Email,
	}
	if record.HasMessage() {
		payload[model.FieldMessage.String()] = record.Message
	}
	return Check(payload)
}

// Encode renders doc as JSON or YAML.
func Encode(doc *openapi3.T, format string) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: encode json: %w", err)
	}
	switch format {
	case "", "json":
		return raw, nil
	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("schema: decode json: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("schema: encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("schema: unsupported format %q", format)
	}
}
