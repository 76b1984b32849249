package tui

import (
	"io"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/view"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by Run.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithBuilder sets the view builder, and with it the field registry and
// translator used for copy.
func WithBuilder(b *view.Builder) Option {
	return func(r *Renderer) {
		if b != nil {
			r.builder = b
		}
	}
}

// WithOutput sets where pages are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithTheme takes colours from resolved theme tokens.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// WithPlain disables colour output.
func WithPlain(plain bool) Option {
	return func(r *Renderer) {
		r.plain = plain
	}
}
