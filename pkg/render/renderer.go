// Package render defines the renderer contract shared by the HTML and text
// renderers, a name-keyed registry, and the page model templates consume.
package render

import (
	"context"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Renderer converts a form view into a byte representation (HTML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view model.View, options RenderOptions) ([]byte, error)
}
