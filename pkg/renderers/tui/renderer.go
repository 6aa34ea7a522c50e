// Package tui hosts the contact form in a terminal. Each answer is fed to the
// form as a field change, so rule messages appear while the user is still on
// the prompt; the submit step then runs the full validation and re-asks only
// the failing fields.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-contactform/pkg/content"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/text"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Renderer drives a form through terminal prompts.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	content      content.Content
	maxAttempts  int
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
		content:      content.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render seeds a fresh form from view, runs the interactive session, and
// serialises the submitted record.
func (r *Renderer) Render(ctx context.Context, view model.View, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	session := *r
	if options.Content != nil {
		session.content = *options.Content
	}

	f := form.New(form.WithID(view.ID), form.WithValidator(validation.New(session.content.ValidatorOptions()...)))
	seed := make(map[model.Field]string, len(model.Fields))
	for _, field := range model.Fields {
		if value := view.State.Get(field); value != "" {
			seed[field] = value
		}
	}
	f.Replay(seed, false)

	record, err := session.Run(ctx, f)
	if err != nil {
		return nil, err
	}
	return session.serialize(ctx, f.View(), record, options)
}

// Run prompts for every field, then loops on submit until it succeeds, the
// user aborts, or the attempt limit is reached.
func (r *Renderer) Run(ctx context.Context, f *form.Form) (model.SubmittedRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.SubmittedRecord{}, err
	}
	if r.driver == nil {
		return model.SubmittedRecord{}, errors.New("tui: prompt driver is nil")
	}
	if f == nil {
		return model.SubmittedRecord{}, errors.New("tui: form is nil")
	}

	if err := r.driver.Info(ctx, r.theme.Header.Render(r.content.Title)); err != nil {
		return model.SubmittedRecord{}, err
	}

	pending := model.Fields
	attempts := 0
	for {
		for _, field := range pending {
			if err := r.promptField(ctx, f, field); err != nil {
				return model.SubmittedRecord{}, err
			}
		}

		confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.content.SubmitLabel + "?",
			Default: true,
		})
		if err != nil {
			return model.SubmittedRecord{}, err
		}
		if !confirmed {
			pending = model.Fields
			continue
		}

		record, ok := f.Submit()
		if ok {
			if err := r.driver.Info(ctx, r.formatRecord(record)); err != nil {
				return model.SubmittedRecord{}, err
			}
			return record, nil
		}

		attempts++
		view := f.View()
		if err := r.driver.Info(ctx, r.formatErrors(view.Errors)); err != nil {
			return model.SubmittedRecord{}, err
		}
		if r.maxAttempts > 0 && attempts >= r.maxAttempts {
			return model.SubmittedRecord{}, fmt.Errorf("%w (%d)", ErrTooManyAttempts, attempts)
		}
		pending = failingFields(view.Errors)
	}
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field model.Field) error {
	label := r.content.Label(field)
	rules := validation.DefaultRules()
	if rules.Required(field) {
		label += "*"
	}
	current := f.View().State.Get(field)

	check := func(answer string) error {
		if err := f.Change(field, answer); err != nil {
			return err
		}
		if msg, failed := f.View().Errors[field]; failed {
			return errors.New(msg)
		}
		return nil
	}

	var (
		answer string
		err    error
	)
	if field == model.FieldMessage {
		answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Validator: check})
	} else {
		answer, err = r.driver.Input(ctx, InputConfig{Message: label, Default: current, Validator: check})
	}
	if err != nil {
		return fmt.Errorf("tui: prompt %s: %w", field, err)
	}
	return f.Change(field, answer)
}

func (r *Renderer) formatErrors(errs model.Errors) string {
	lines := make([]string, 0, len(errs))
	for _, msg := range errs.Messages() {
		lines = append(lines, r.theme.Error.Render("✗ "+msg))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) formatRecord(record model.SubmittedRecord) string {
	lines := []string{
		r.theme.Header.Render("You Submitted:"),
		r.theme.Label.Render(r.content.Label(model.FieldFirstName)+": ") + record.FirstName,
		r.theme.Label.Render(r.content.Label(model.FieldLastName)+": ") + record.LastName,
		r.theme.Label.Render(r.content.Label(model.FieldEmail)+": ") + record.Email,
	}
	if record.HasMessage() {
		lines = append(lines, r.theme.Label.Render(r.content.Label(model.FieldMessage)+": ")+record.Message)
	}
	return r.theme.Record.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) serialize(ctx context.Context, view model.View, record model.SubmittedRecord, options render.RenderOptions) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatPrettyText:
		if options.Content == nil {
			options.Content = &r.content
		}
		return text.New().Render(ctx, view, options)
	default:
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode record: %w", err)
		}
		return out, nil
	}
}

func failingFields(errs model.Errors) []model.Field {
	out := make([]model.Field, 0, len(errs))
	for _, field := range model.Fields {
		if errs.Has(field) {
			out = append(out, field)
		}
	}
	return out
}
