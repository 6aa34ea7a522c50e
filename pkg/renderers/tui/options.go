package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-contactform/pkg/content"
)

// OutputFormat controls how Render serialises the submitted record.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits the text renderer's summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme styles the messages the session prints between prompts.
type Theme struct {
	Header lipgloss.Style
	Error  lipgloss.Style
	Record lipgloss.Style
	Label  lipgloss.Style
}

// DefaultTheme returns the built-in styles.
func DefaultTheme() Theme {
	return Theme{
		Header: lipgloss.NewStyle().Bold(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Record: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Label:  lipgloss.NewStyle().Faint(true),
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme overrides the lipgloss styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithContent supplies labels and the header.
func WithContent(c content.Content) Option {
	return func(r *Renderer) {
		r.content = c
	}
}

// WithMaxAttempts bounds the number of failed submits before giving up.
// Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
