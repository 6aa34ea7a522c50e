// Package validation evaluates the contact form rule table. Rules run against
// the trimmed value, so whitespace-only input counts as empty.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Issue describes one failing field.
type Issue struct {
	Field   model.Field `json:"field"`
	Kind    Kind        `json:"kind"`
	Message string      `json:"message"`
}

// Option configures a Validator.
type Option func(*Validator)

// WithRules replaces the rule table.
func WithRules(rules Table) Option {
	return func(v *Validator) {
		if rules != nil {
			v.rules = rules
		}
	}
}

// WithMessageOverrides swaps rule messages without touching the rule tags.
func WithMessageOverrides(overrides map[model.Field]map[Kind]string) Option {
	return func(v *Validator) {
		if len(overrides) > 0 {
			v.rules = v.rules.WithMessages(overrides)
		}
	}
}

// Validator is safe for concurrent use once constructed.
type Validator struct {
	validate *validator.Validate
	rules    Table
}

// New builds a Validator using the default rules unless overridden.
func New(options ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		rules:    DefaultRules(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Rules exposes the active table.
func (v *Validator) Rules() Table {
	return v.rules
}

// Field evaluates a single field and returns the first failing rule.
func (v *Validator) Field(field model.Field, value string) (Issue, bool) {
	trimmed := strings.TrimSpace(value)
	for _, rule := range v.rules[field] {
		if err := v.check(trimmed, rule); err != nil {
			return Issue{Field: field, Kind: rule.Kind, Message: rule.Message}, true
		}
	}
	return Issue{}, false
}

// Validate evaluates every field with rules and returns the failures keyed by
// field. A valid state yields an empty, non-nil map.
func (v *Validator) Validate(state model.FormState) model.Errors {
	errs := make(model.Errors)
	for _, issue := range v.Issues(state) {
		errs[issue.Field] = issue.Message
	}
	return errs
}

// Issues returns the failures in field display order.
func (v *Validator) Issues(state model.FormState) []Issue {
	var out []Issue
	for _, field := range model.Fields {
		if issue, failed := v.Field(field, state.Get(field)); failed {
			out = append(out, issue)
		}
	}
	return out
}

func (v *Validator) check(value string, rule Rule) error {
	if err := v.validate.Var(value, rule.Tag); err != nil {
		return fmt.Errorf("validation: %s: %w", rule.Kind, err)
	}
	return nil
}
