package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
)

func newPromptCmd(a *app) *cobra.Command {
	var (
		format      string
		maxAttempts int
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the form in the terminal",
		Long: `Ask for each field in turn, showing rule messages as answers are given.
On submit only failing fields are asked again. The accepted submission is
printed as JSON, or as a text summary with --format pretty.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch tui.OutputFormat(format) {
			case tui.OutputFormatJSON, tui.OutputFormatPrettyText:
			default:
				return fmt.Errorf("prompt: unsupported format %q", format)
			}
			text, err := a.loadContent()
			if err != nil {
				return err
			}

			options := []tui.Option{
				tui.WithContent(text),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithMaxAttempts(maxAttempts),
			}
			if a.promptDriver != nil {
				options = append(options, tui.WithPromptDriver(a.promptDriver))
			}
			renderer := tui.New(options...)

			f := form.New()
			a.logger.Debug("prompt session started", logging.FormID(f.ID()))
			out, err := renderer.Render(cmd.Context(), f.View(), render.RenderOptions{Content: &text})
			if err != nil {
				return fmt.Errorf("prompt: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format (json, pretty)")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "give up after this many failed submits (0 means no limit)")
	return cmd
}
