package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when submit keeps failing past the
	// configured attempt limit.
	ErrTooManyAttempts = errors.New("tui: too many failed submit attempts")
)
