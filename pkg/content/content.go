// Package content holds the user-facing copy and theme of the contact form:
// header, intro markup, labels, submit label, validation message overrides,
// and theme tokens. Content loads from YAML (or JSON) and is normalised so
// renderers can consume it without further checks.
package content

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

const (
	DefaultTitle       = "Contact Form"
	DefaultSubmitLabel = "Submit"
)

// Content is the normalised copy handed to renderers.
type Content struct {
	Title       string
	Intro       string
	SubmitLabel string
	Labels      map[model.Field]string
	Messages    map[model.Field]map[validation.Kind]string
	Theme       Theme
}

// Theme mirrors the subset of a go-theme manifest the form uses.
type Theme struct {
	Name        string            `json:"name" yaml:"name"`
	Variant     string            `json:"variant" yaml:"variant"`
	Tokens      map[string]string `json:"tokens" yaml:"tokens"`
	AssetPrefix string            `json:"asset_prefix" yaml:"asset_prefix"`
}

// Default returns the built-in copy.
func Default() Content {
	return Content{
		Title:       DefaultTitle,
		SubmitLabel: DefaultSubmitLabel,
		Labels:      defaultLabels(),
	}
}

func defaultLabels() map[model.Field]string {
	out := make(map[model.Field]string, len(model.Fields))
	for _, field := range model.Fields {
		out[field] = field.Label()
	}
	return out
}

// Label returns the configured label for field, falling back to the default.
func (c Content) Label(field model.Field) string {
	if label := strings.TrimSpace(c.Labels[field]); label != "" {
		return label
	}
	return field.Label()
}

// ValidatorOptions returns the validation options implied by the copy.
func (c Content) ValidatorOptions() []validation.Option {
	if len(c.Messages) == 0 {
		return nil
	}
	return []validation.Option{validation.WithMessageOverrides(c.Messages)}
}

// RendererConfig converts the theme into the go-theme renderer contract.
// Tokens become CSS custom properties prefixed with "--". A nil config is
// returned when no theme is configured.
func (c Content) RendererConfig() *theme.RendererConfig {
	if c.Theme.Name == "" && len(c.Theme.Tokens) == 0 {
		return nil
	}

	tokens := make(map[string]string, len(c.Theme.Tokens))
	vars := make(map[string]string, len(c.Theme.Tokens))
	for key, value := range c.Theme.Tokens {
		tokens[key] = value
		vars["--"+key] = value
	}

	prefix := strings.TrimRight(c.Theme.AssetPrefix, "/")
	return &theme.RendererConfig{
		Theme:   c.Theme.Name,
		Variant: c.Theme.Variant,
		Tokens:  tokens,
		CSSVars: vars,
		AssetURL: func(key string) string {
			if key == "" || prefix == "" {
				return ""
			}
			return prefix + "/" + strings.TrimLeft(key, "/")
		},
	}
}

// CSSVarsStyle renders CSS variables as a deterministic inline style value.
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for idx, key := range keys {
		if idx > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s: %s;", key, cfg.CSSVars[key])
	}
	return b.String()
}
