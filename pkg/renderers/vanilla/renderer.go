// Package vanilla renders the contact form as server-side HTML using pongo2
// templates. The output works without JavaScript (plain form post); when a
// live URL is supplied the bundled script streams keystrokes over a websocket
// and patches error messages in place.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	rendertemplate "github.com/goliatone/go-contactform/pkg/render/template"
	gotemplate "github.com/goliatone/go-contactform/pkg/render/template/gotemplate"
)

const (
	templateFragment = "templates/form.tmpl"
	templateDocument = "templates/page.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	document         bool
	stylesheet       string
	inlineStyles     bool
	assetsPrefix     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDocument wraps the form in a full HTML document.
func WithDocument() Option {
	return func(cfg *config) {
		cfg.document = true
	}
}

// WithStylesheet links an external stylesheet from the document head.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// WithDefaultStyles inlines the bundled stylesheet into the document head.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithAssetsPrefix sets the URL prefix the bundled assets are served from
// (for example "/assets/"). The live script is only referenced when set.
func WithAssetsPrefix(prefix string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" && !strings.HasSuffix(trimmed, "/") {
			trimmed += "/"
		}
		cfg.assetsPrefix = trimmed
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	document     bool
	stylesheet   string
	inlineStyles string
	assetsPrefix string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:    renderer,
		document:     cfg.document,
		stylesheet:   cfg.stylesheet,
		assetsPrefix: cfg.assetsPrefix,
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form fragment, or a full document when configured.
func (r *Renderer) Render(ctx context.Context, view model.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	name := templateFragment
	if r.document {
		name = templateDocument
	}

	data := map[string]any{
		"page": render.BuildPage(view, options),
	}
	if r.document {
		data["stylesheet"] = r.stylesheet
		data["inline_styles"] = r.inlineStyles
		if r.assetsPrefix != "" {
			data["live_script"] = r.assetsPrefix + LiveScriptName
		}
	}

	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// Fragment renders just the form section regardless of document mode. The
// websocket host uses it to swap the section after a submit.
func (r *Renderer) Fragment(ctx context.Context, view model.View, options render.RenderOptions) ([]byte, error) {
	if !r.document {
		return r.Render(ctx, view, options)
	}
	clone := *r
	clone.document = false
	return clone.Render(ctx, view, options)
}
