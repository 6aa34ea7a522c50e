package validation

import (
	"github.com/goliatone/go-contactform/pkg/model"
)

// Kind classifies a validation failure.
type Kind string

const (
	// KindMissing reports an empty (or whitespace-only) required field.
	KindMissing Kind = "missing"
	// KindTooShort reports a value below the field's minimum length.
	KindTooShort Kind = "tooShort"
	// KindInvalidFormat reports a value that does not match the field format.
	KindInvalidFormat Kind = "invalidFormat"
)

// Rule is a single constraint evaluated against a trimmed field value. Tag is
// a go-playground/validator tag expression.
type Rule struct {
	Kind    Kind
	Tag     string
	Message string
}

// Table maps each field to its ordered rules. Evaluation stops at the first
// failing rule so a field never carries more than one message.
type Table map[model.Field][]Rule

// MinFirstNameLength is the minimum rune count accepted for firstName.
const MinFirstNameLength = 5

// DefaultRules returns a fresh copy of the built-in rule table. Message has no
// rules and never blocks submission.
func DefaultRules() Table {
	return Table{
		model.FieldFirstName: {
			{Kind: KindMissing, Tag: "required", Message: "firstName is a required field"},
			{Kind: KindTooShort, Tag: "min=5", Message: "firstName must be at least 5 characters"},
		},
		model.FieldLastName: {
			{Kind: KindMissing, Tag: "required", Message: "lastName is a required field"},
		},
		model.FieldEmail: {
			{Kind: KindMissing, Tag: "required", Message: "email is a required field"},
			{Kind: KindInvalidFormat, Tag: "email", Message: "email must be a valid email address"},
		},
	}
}

// Required reports whether field has at least one rule.
func (t Table) Required(field model.Field) bool {
	return len(t[field]) > 0
}

// RequiredFields returns the fields carrying rules in display order.
func (t Table) RequiredFields() []model.Field {
	out := make([]model.Field, 0, len(t))
	for _, field := range model.Fields {
		if t.Required(field) {
			out = append(out, field)
		}
	}
	return out
}

// WithMessages returns a copy of t where messages are replaced by overrides
// keyed by field then kind. Empty overrides are ignored.
func (t Table) WithMessages(overrides map[model.Field]map[Kind]string) Table {
	out := make(Table, len(t))
	for field, rules := range t {
		copied := make([]Rule, len(rules))
		copy(copied, rules)
		for idx := range copied {
			if msg := overrides[field][copied[idx].Kind]; msg != "" {
				copied[idx].Message = msg
			}
		}
		out[field] = copied
	}
	return out
}
