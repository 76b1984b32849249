// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options tune the installed handler.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// Configure installs a text logger on stderr at level.
//
// Supported levels: debug, info, warn, error.
func Configure(level string) error {
	_, err := Install(Options{Level: level})
	return err
}

// Install builds a logger from opts, makes it the slog default and returns
// it.
func Install(opts Options) (*slog.Logger, error) {
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// New builds a logger without touching the slog default.
func New(opts Options) (*slog.Logger, error) {
	parsed, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: parsed}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatText:
		h = slog.NewTextHandler(out, handlerOpts)
	case FormatJSON:
		h = slog.NewJSONHandler(out, handlerOpts)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}
	return slog.New(h), nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", LevelInfo:
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}
