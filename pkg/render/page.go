package render

import (
	"github.com/goliatone/go-contactform/pkg/content"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Page is the template-facing projection of a form view. Keys are snake_case
// so pongo2 templates can address them after JSON conversion.
type Page struct {
	ID          string        `json:"id"`
	Phase       model.Phase   `json:"phase"`
	Title       string        `json:"title"`
	Intro       string        `json:"intro,omitempty"`
	SubmitLabel string        `json:"submit_label"`
	Action      string        `json:"action,omitempty"`
	LiveURL     string        `json:"live_url,omitempty"`
	Theme       string        `json:"theme,omitempty"`
	Variant     string        `json:"variant,omitempty"`
	ThemeStyle  string        `json:"theme_style,omitempty"`
	Hidden      []HiddenField `json:"hidden,omitempty"`
	Fields      []FieldView   `json:"fields"`
	ErrorCount  int           `json:"error_count"`
	Record      *RecordView   `json:"record,omitempty"`
}

// FieldView describes one rendered input.
type FieldView struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Error     string `json:"error,omitempty"`
	Required  bool   `json:"required"`
	Multiline bool   `json:"multiline"`
}

// RecordView lists the submitted values in display order.
type RecordView struct {
	Entries []RecordEntry `json:"entries"`
	Message string        `json:"message,omitempty"`
}

// RecordEntry is one labelled submitted value.
type RecordEntry struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// BuildPage projects view and options into a Page. Input ids are prefixed by
// the instance id so several forms can share a document.
func BuildPage(view model.View, options RenderOptions) Page {
	text := options.content()
	page := Page{
		ID:          view.ID,
		Phase:       view.Phase,
		Title:       text.Title,
		Intro:       text.Intro,
		SubmitLabel: text.SubmitLabel,
		Action:      options.Action,
		LiveURL:     options.LiveURL,
		Hidden:      SortedHiddenFields(options.Hidden),
		Fields:      make([]FieldView, 0, len(model.Fields)),
		ErrorCount:  len(view.Errors),
	}
	if page.Phase == "" {
		page.Phase = model.PhaseIdle
	}

	if cfg := options.theme(); cfg != nil {
		page.Theme = cfg.Theme
		page.Variant = cfg.Variant
		page.ThemeStyle = content.CSSVarsStyle(cfg)
	}

	rules := validation.DefaultRules()
	for _, field := range model.Fields {
		page.Fields = append(page.Fields, FieldView{
			Name:      field.String(),
			ID:        InputID(view.ID, field),
			Label:     text.Label(field),
			Type:      inputType(field),
			Value:     view.State.Get(field),
			Error:     view.Errors[field],
			Required:  rules.Required(field),
			Multiline: field == model.FieldMessage,
		})
	}

	if view.Record != nil {
		record := view.Record
		page.Record = &RecordView{
			Entries: []RecordEntry{
				{Name: model.FieldFirstName.String(), Label: text.Label(model.FieldFirstName), Value: record.FirstName},
				{Name: model.FieldLastName.String(), Label: text.Label(model.FieldLastName), Value: record.LastName},
				{Name: model.FieldEmail.String(), Label: text.Label(model.FieldEmail), Value: record.Email},
			},
		}
		if record.HasMessage() {
			page.Record.Message = record.Message
		}
	}

	return page
}

// InputID returns the DOM id of field within form instance id.
func InputID(id string, field model.Field) string {
	if id == "" {
		return field.String()
	}
	return id + "-" + field.String()
}

func inputType(field model.Field) string {
	switch field {
	case model.FieldEmail:
		return "email"
	case model.FieldMessage:
		return "textarea"
	default:
		return "text"
	}
}
