package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/content"
)

// RenderOptions carry per-render data that is not part of the form state.
type RenderOptions struct {
	// Content supplies header, labels, and theme tokens. The zero value falls
	// back to content.Default().
	Content *content.Content
	// Theme overrides the theme derived from Content.
	Theme *theme.RendererConfig
	// Action is the form post target. Empty keeps the browser default.
	Action string
	// LiveURL enables per-keystroke validation over a websocket when set.
	LiveURL string
	// Hidden fields emitted inside the form, e.g. the instance id.
	Hidden map[string]string
}

func (o RenderOptions) content() content.Content {
	if o.Content == nil {
		return content.Default()
	}
	return *o.Content
}

func (o RenderOptions) theme() *theme.RendererConfig {
	if o.Theme != nil {
		return o.Theme
	}
	return o.content().RendererConfig()
}
