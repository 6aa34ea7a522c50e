// Package form implements the contact form component: an instance-scoped
// state machine that accepts field changes and submit attempts, keeps the
// current validation errors in sync, and snapshots valid submissions.
//
// A Form never shares state with another Form. Hosts (the HTML preview
// server, the terminal prompt session) create one per rendered form and feed
// it events serially; the internal mutex only guards against hosts that
// deliver those events from different goroutines.
package form

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// ErrUnknownField is returned when a change targets a field the form does not
// own.
var ErrUnknownField = errors.New("form: unknown field")

// Option configures a Form.
type Option func(*Form)

// WithValidator overrides the rule evaluator.
func WithValidator(v *validation.Validator) Option {
	return func(f *Form) {
		if v != nil {
			f.validator = v
		}
	}
}

// WithID pins the instance identifier, mostly useful for deterministic
// rendering in tests.
func WithID(id string) Option {
	return func(f *Form) {
		if id != "" {
			f.id = id
		}
	}
}

// Form is a single contact form instance.
type Form struct {
	mu        sync.Mutex
	id        string
	validator *validation.Validator
	state     model.FormState
	errors    model.Errors
	record    *model.SubmittedRecord
	phase     model.Phase
}

// New returns an idle form with empty fields.
func New(options ...Option) *Form {
	f := &Form{
		id:     uuid.NewString(),
		errors: make(model.Errors),
		phase:  model.PhaseIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.validator == nil {
		f.validator = validation.New()
	}
	return f
}

// ID returns the instance identifier.
func (f *Form) ID() string {
	return f.id
}

// Change stores value for field and re-validates that field only.
func (f *Form) Change(field model.Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(field))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Set(field, value)
	if issue, failed := f.validator.Field(field, value); failed {
		f.errors[field] = issue.Message
	} else {
		delete(f.errors, field)
	}
	f.phase = model.PhaseEditing
	return nil
}

// ChangeByName resolves a wire name then applies Change.
func (f *Form) ChangeByName(name, value string) error {
	field, ok := model.ParseField(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f.Change(field, value)
}

// Submit validates every required field. On failure the errors are recorded
// and the returned bool is false; no record is produced. On success the
// values are snapshotted into a new record that replaces any previous one,
// the fields are cleared, and the record is returned.
func (f *Form) Submit() (model.SubmittedRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := f.validator.Validate(f.state)
	if len(errs) > 0 {
		f.errors = errs
		f.phase = model.PhaseInvalid
		return model.SubmittedRecord{}, false
	}

	record := model.RecordFromState(f.state)
	f.record = &record
	f.state = model.FormState{}
	f.errors = make(model.Errors)
	f.phase = model.PhaseSubmitted
	return record, true
}

// Reset returns the form to idle, dropping any record.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = model.FormState{}
	f.errors = make(model.Errors)
	f.record = nil
	f.phase = model.PhaseIdle
}

// View returns a snapshot that is safe to hand to renderers.
func (f *Form) View() model.View {
	f.mu.Lock()
	defer f.mu.Unlock()

	view := model.View{
		ID:     f.id,
		Phase:  f.phase,
		State:  f.state,
		Errors: f.errors.Clone(),
	}
	if f.record != nil {
		record := *f.record
		view.Record = &record
	}
	return view
}

// Record returns the latest submitted record, if any.
func (f *Form) Record() (model.SubmittedRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.record == nil {
		return model.SubmittedRecord{}, false
	}
	return *f.record, true
}

// Replay applies values as a sequence of changes in field order then submits.
// Hosts without a live event channel (plain form posts, scripted renders) use
// it to rebuild the component from the final input values.
func (f *Form) Replay(values map[model.Field]string, submit bool) (model.SubmittedRecord, bool) {
	for _, field := range model.Fields {
		value, ok := values[field]
		if !ok {
			continue
		}
		_ = f.Change(field, value)
	}
	if !submit {
		return model.SubmittedRecord{}, false
	}
	return f.Submit()
}
