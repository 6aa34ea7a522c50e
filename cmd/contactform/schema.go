package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/schema"
)

// version is stamped into the published schema; overridden at build time
// with -ldflags "-X main.version=...".
var version = "dev"

func newSchemaCmd(a *app) *cobra.Command {
	var (
		format string
		check  string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the submission schema or check a payload against it",
		Long: `Print an OpenAPI 3 document whose components.schemas.ContactSubmission
describes an accepted submission, or with --check validate a YAML/JSON
payload against that schema. Only the first problem per field is reported,
as the form would show it, unless --all is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if check != "" {
				return checkPayload(cmd.OutOrStdout(), check, all)
			}

			doc, err := schema.Document(cmd.Context(), version)
			if err != nil {
				return err
			}
			out, err := schema.Encode(doc, format)
			if err != nil {
				return err
			}
			a.logger.Debug("schema encoded", zap.String("format", format))
			return writeOutput(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	cmd.Flags().StringVar(&check, "check", "", "validate this payload file instead of printing the schema")
	cmd.Flags().BoolVar(&all, "all", false, "with --check, report every problem per field")
	return cmd
}

// ErrPayloadInvalid is returned by schema --check when the payload fails.
var ErrPayloadInvalid = errors.New("payload does not match schema")

func checkPayload(w io.Writer, path string, all bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("schema: read %s: %w", path, err)
	}
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("schema: parse %s: %w", path, err)
	}

	mapped := render.MapErrorPayload(schema.Issues(payload))
	if len(mapped.Fields) == 0 && len(mapped.Form) == 0 {
		fmt.Fprintf(w, "%s: ok\n", path)
		return nil
	}

	if all {
		for _, field := range model.Fields {
			for _, message := range mapped.Fields[field] {
				fmt.Fprintf(w, "%s: %s: %s\n", path, field, message)
			}
		}
	} else {
		errs := mapped.Errors()
		for _, field := range model.Fields {
			if message, ok := errs[field]; ok {
				fmt.Fprintf(w, "%s: %s: %s\n", path, field, message)
			}
		}
	}
	for _, message := range mapped.Form {
		fmt.Fprintf(w, "%s: %s\n", path, message)
	}
	return fmt.Errorf("%s: %w", path, ErrPayloadInvalid)
}
