package model

import (
	"fmt"
	"strings"
)

// Field identifies one of the contact form inputs.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldEmail
	FieldMessage
)

// Fields lists every input in display order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldMessage}

var fieldNames = map[Field]string{
	FieldFirstName: "firstName",
	FieldLastName:  "lastName",
	FieldEmail:     "email",
	FieldMessage:   "message",
}

var fieldLabels = map[Field]string{
	FieldFirstName: "First Name",
	FieldLastName:  "Last Name",
	FieldEmail:     "Email",
	FieldMessage:   "Message",
}

// String returns the wire name used in templates, events, and posted values.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Label returns the default display label.
func (f Field) Label() string {
	return fieldLabels[f]
}

// Valid reports whether f is one of the known inputs.
func (f Field) Valid() bool {
	_, ok := fieldNames[f]
	return ok
}

// MarshalText encodes the field by wire name so maps keyed by Field serialise
// as `{"firstName": ...}`.
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("model: unknown field %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes a wire name.
func (f *Field) UnmarshalText(text []byte) error {
	parsed, ok := ParseField(string(text))
	if !ok {
		return fmt.Errorf("model: unknown field %q", string(text))
	}
	*f = parsed
	return nil
}

// ParseField resolves a wire name (case-insensitive) into a Field.
func ParseField(name string) (Field, bool) {
	trimmed := strings.TrimSpace(name)
	for field, wire := range fieldNames {
		if strings.EqualFold(wire, trimmed) {
			return field, true
		}
	}
	return 0, false
}

// FormState is the mutable input owned by a single form instance.
type FormState struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// Get returns the current value of field.
func (s FormState) Get(field Field) string {
	switch field {
	case FieldFirstName:
		return s.FirstName
	case FieldLastName:
		return s.LastName
	case FieldEmail:
		return s.Email
	case FieldMessage:
		return s.Message
	default:
		return ""
	}
}

// Set writes value into field. Unknown fields are ignored and reported false.
func (s *FormState) Set(field Field, value string) bool {
	switch field {
	case FieldFirstName:
		s.FirstName = value
	case FieldLastName:
		s.LastName = value
	case FieldEmail:
		s.Email = value
	case FieldMessage:
		s.Message = value
	default:
		return false
	}
	return true
}

// Errors maps a failing field to its single current message. Valid fields have
// no entry.
type Errors map[Field]string

// Has reports whether field currently has an error.
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Clone returns an independent copy; nil stays nil.
func (e Errors) Clone() Errors {
	if e == nil {
		return nil
	}
	out := make(Errors, len(e))
	for field, msg := range e {
		out[field] = msg
	}
	return out
}

// Messages returns the error messages in field display order.
func (e Errors) Messages() []string {
	if len(e) == 0 {
		return nil
	}
	out := make([]string, 0, len(e))
	for _, field := range Fields {
		if msg, ok := e[field]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// SubmittedRecord is the snapshot taken when a submission passes validation.
type SubmittedRecord struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message,omitempty"`
}

// RecordFromState snapshots state, trimming surrounding whitespace from every
// value.
func RecordFromState(state FormState) SubmittedRecord {
	return SubmittedRecord{
		FirstName: strings.TrimSpace(state.FirstName),
		LastName:  strings.TrimSpace(state.LastName),
		Email:     strings.TrimSpace(state.Email),
		Message:   strings.TrimSpace(state.Message),
	}
}

// HasMessage reports whether the optional message was provided.
func (r SubmittedRecord) HasMessage() bool {
	return r.Message != ""
}

// Phase tracks where a form instance is in its submit cycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseEditing   Phase = "editing"
	PhaseInvalid   Phase = "invalid"
	PhaseSubmitted Phase = "submitted"
)

// View is the read-only snapshot renderers consume.
type View struct {
	ID     string           `json:"id"`
	Phase  Phase            `json:"phase"`
	State  FormState        `json:"state"`
	Errors Errors           `json:"errors,omitempty"`
	Record *SubmittedRecord `json:"record,omitempty"`
}
