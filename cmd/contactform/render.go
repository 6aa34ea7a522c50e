package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/text"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
	"github.com/goliatone/go-contactform/pkg/validation"
)

type renderFlags struct {
	renderer string
	values   string
	submit   bool
	document bool
	output   string
}

func newRenderCmd(a *app) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a snapshot of the form",
		Long: `Render the form once, optionally after typing the values from a YAML or
JSON file (keys firstName, lastName, email, message) and pressing submit.

Examples:
  contactform render --document > form.html
  contactform render --renderer text --values values.yaml --submit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.render(cmd, flags)
			if err != nil {
				return err
			}
			if flags.output != "" {
				if err := os.WriteFile(flags.output, out, 0o644); err != nil {
					return fmt.Errorf("render: write output: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", flags.output)
				return nil
			}
			return writeOutput(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&flags.renderer, "renderer", "r", "vanilla", "renderer to use (vanilla, text)")
	cmd.Flags().StringVar(&flags.values, "values", "", "file with field values to type before rendering")
	cmd.Flags().BoolVar(&flags.submit, "submit", false, "submit after typing the values")
	cmd.Flags().BoolVar(&flags.document, "document", false, "wrap HTML output in a full document with inline styles")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (a *app) render(cmd *cobra.Command, flags renderFlags) ([]byte, error) {
	formCopy, err := a.loadContent()
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(flags.document)
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(flags.renderer)
	if err != nil {
		return nil, fmt.Errorf("render: %w (available: %v)", err, registry.List())
	}

	values, err := readValues(flags.values)
	if err != nil {
		return nil, err
	}

	f := form.New(form.WithValidator(validation.New(formCopy.ValidatorOptions()...)))
	_, accepted := f.Replay(values, flags.submit)
	view := f.View()
	a.logger.Debug("render",
		zap.String("renderer", renderer.Name()),
		zap.Bool("accepted", accepted),
	)

	out, err := renderer.Render(cmd.Context(), view, render.RenderOptions{Content: &formCopy})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out, nil
}

func newRegistry(document bool) (*render.Registry, error) {
	var options []vanilla.Option
	if document {
		options = append(options, vanilla.WithDocument(), vanilla.WithDefaultStyles())
	}
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(text.New())
	return registry, nil
}

// readValues decodes a flat field → value map. YAML is a superset of JSON so
// one decoder covers both.
func readValues(path string) (map[model.Field]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read values: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("render: parse values %s: %w", path, err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[model.Field]string, len(raw))
	for _, name := range names {
		field, ok := model.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("render: values %s: unknown field %q", path, name)
		}
		values[field] = raw[name]
	}
	return values, nil
}
