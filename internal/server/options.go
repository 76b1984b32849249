package server

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formwizard/pkg/appearance"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Option configures a Server.
type Option func(*Server)

// WithRegistrar registers identities at login. Without one, login only
// stores the session.
func WithRegistrar(r session.Registrar) Option {
	return func(s *Server) {
		s.registrar = r
	}
}

// WithSink receives completed submissions.
func WithSink(sink wizard.Sink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithRenderers replaces the renderer registry. The registry default is used
// for browsers; a renderer named "json" serves Accept: application/json.
func WithRenderers(reg *render.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.renderers = reg
		}
	}
}

// WithThemes sets the manifests and the theme name used for every page.
func WithThemes(themes *appearance.Themes, name string) Option {
	return func(s *Server) {
		s.themes = themes
		s.themeName = name
	}
}

// WithDefaultMode sets the appearance used before a client chooses one.
func WithDefaultMode(m appearance.Mode) Option {
	return func(s *Server) {
		s.defaultMode = m
	}
}

// WithFields sets the field renderer registry shared by all controllers.
func WithFields(r *fields.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.fields = r
		}
	}
}

// WithTranslator localises page copy and validation messages.
func WithTranslator(t validation.Translator) Option {
	return func(s *Server) {
		s.translator = t
	}
}

// WithLocale is reported to renderers as the document language.
func WithLocale(locale string) Option {
	return func(s *Server) {
		s.locale = locale
	}
}

// WithCookie names the client id cookie and marks it Secure.
func WithCookie(name string, secure bool) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
		s.secureCookie = secure
	}
}

// WithReturnDelay sets how long the success page is shown.
func WithReturnDelay(d time.Duration) Option {
	return func(s *Server) {
		s.returnDelay = d
	}
}

// WithLoadWait bounds how long a request waits for the first schema fetch
// before answering with the loading page.
func WithLoadWait(d time.Duration) Option {
	return func(s *Server) {
		s.loadWait = d
	}
}

// WithScheduler overrides the timer used for the post-submit return.
func WithScheduler(sched wizard.Scheduler) Option {
	return func(s *Server) {
		s.scheduler = sched
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
