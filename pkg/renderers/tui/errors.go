package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrLoadFailed is returned by Run when the form could not be shown. The
	// wrapped message is the one displayed to the user.
	ErrLoadFailed = errors.New("tui: form unavailable")
)
