package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

type documentFile struct {
	Title       string                       `json:"title" yaml:"title"`
	Intro       string                       `json:"intro" yaml:"intro"`
	SubmitLabel string                       `json:"submit_label" yaml:"submit_label"`
	Labels      map[string]string            `json:"labels" yaml:"labels"`
	Messages    map[string]map[string]string `json:"messages" yaml:"messages"`
	Theme       Theme                        `json:"theme" yaml:"theme"`
}

// LoadFile reads copy from a file on disk. An empty path yields Default().
func LoadFile(path string) (Content, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads copy from name within fsys.
func LoadFS(fsys fs.FS, name string) (Content, error) {
	if fsys == nil {
		return Default(), nil
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Content{}, fmt.Errorf("content: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes JSON or YAML copy and merges it over the defaults.
func Parse(data []byte, source string) (Content, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Default(), nil
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Content{}, fmt.Errorf("content: parse %s: %w", source, err)
		}
	}
	return normalise(doc, source)
}

const tokenBreakers = ";{}"

func normalise(doc documentFile, source string) (Content, error) {
	out := Default()
	if title := strings.TrimSpace(doc.Title); title != "" {
		out.Title = title
	}
	if label := strings.TrimSpace(doc.SubmitLabel); label != "" {
		out.SubmitLabel = label
	}
	out.Intro = sanitizeIntro(doc.Intro)

	for name, label := range doc.Labels {
		field, ok := model.ParseField(name)
		if !ok {
			return Content{}, fmt.Errorf("content: %s: unknown field %q in labels", source, name)
		}
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			out.Labels[field] = trimmed
		}
	}

	if len(doc.Messages) > 0 {
		out.Messages = make(map[model.Field]map[validation.Kind]string, len(doc.Messages))
	}
	for name, byKind := range doc.Messages {
		field, ok := model.ParseField(name)
		if !ok {
			return Content{}, fmt.Errorf("content: %s: unknown field %q in messages", source, name)
		}
		for rawKind, msg := range byKind {
			kind, ok := parseKind(rawKind)
			if !ok {
				return Content{}, fmt.Errorf("content: %s: unknown rule %q for %s", source, rawKind, field)
			}
			trimmed := strings.TrimSpace(msg)
			if trimmed == "" {
				continue
			}
			if out.Messages[field] == nil {
				out.Messages[field] = make(map[validation.Kind]string)
			}
			out.Messages[field][kind] = trimmed
		}
	}

	out.Theme = Theme{
		Name:        strings.TrimSpace(doc.Theme.Name),
		Variant:     strings.TrimSpace(doc.Theme.Variant),
		AssetPrefix: strings.TrimSpace(doc.Theme.AssetPrefix),
	}
	for key, value := range doc.Theme.Tokens {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		// tokens end up inside a style attribute as custom properties
		if strings.ContainsAny(key, tokenBreakers) || strings.ContainsAny(value, tokenBreakers) {
			return Content{}, fmt.Errorf("content: %s: theme token %q must not contain any of %q", source, key, tokenBreakers)
		}
		if out.Theme.Tokens == nil {
			out.Theme.Tokens = make(map[string]string)
		}
		out.Theme.Tokens[key] = strings.TrimSpace(value)
	}

	return out, nil
}

func parseKind(raw string) (validation.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "missing", "required":
		return validation.KindMissing, true
	case "tooshort", "min", "minlength":
		return validation.KindTooShort, true
	case "invalidformat", "format", "email":
		return validation.KindInvalidFormat, true
	default:
		return "", false
	}
}
