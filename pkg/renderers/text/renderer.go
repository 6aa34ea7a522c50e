// Package text renders a plain-text summary of a form view. The terminal
// session and the CLI use it for non-HTML output.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

type Renderer struct{}

// New returns a text renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view model.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page := render.BuildPage(view, options)

	var b strings.Builder
	b.WriteString(page.Title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(page.Title))) + "\n")

	for _, field := range page.Fields {
		label := field.Label
		if field.Required {
			label += "*"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, field.Value)
		if field.Error != "" {
			fmt.Fprintf(&b, "  ! %s\n", field.Error)
		}
	}

	if page.Record != nil {
		b.WriteString("\nYou Submitted:\n")
		for _, entry := range page.Record.Entries {
			fmt.Fprintf(&b, "  %s: %s\n", entry.Label, entry.Value)
		}
		if page.Record.Message != "" {
			fmt.Fprintf(&b, "  %s: %s\n", model.FieldMessage.Label(), page.Record.Message)
		}
	}

	return []byte(b.String()), nil
}
