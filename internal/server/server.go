// Package server hosts the wizard over HTTP. Each browser is identified by a
// random client id cookie; identity, appearance and the live wizard instance
// are kept per client id.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formwizard/pkg/appearance"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/jsonpage"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/view"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	DefaultCookieName = "formwizard_client"
	defaultLoadWait   = 2 * time.Second
	shutdownGrace     = 5 * time.Second
)

// ErrNoFetcher is returned by New without a schema fetcher.
var ErrNoFetcher = errors.New("server: schema fetcher is required")

// Server is an http.Handler serving the login, form, logout and theme
// endpoints.
type Server struct {
	router chi.Router

	sessions  *session.Manager
	prefs     *appearance.Preferences
	fetcher   wizard.Fetcher
	registrar session.Registrar
	sink      wizard.Sink
	renderers *render.Registry
	builder   *view.Builder
	fields    *fields.Registry
	engine    *validation.Engine
	scheduler wizard.Scheduler
	assets    fs.FS

	translator  validation.Translator
	themes      *appearance.Themes
	themeName   string
	defaultMode appearance.Mode
	locale      string

	cookieName   string
	secureCookie bool
	returnDelay  time.Duration
	loadWait     time.Duration
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	wizards map[string]*wizard.Controller
}

var _ http.Handler = (*Server)(nil)

// New builds a server storing sessions and preferences in store and loading
// schemas through fetcher.
func New(store session.Store, fetcher wizard.Fetcher, opts ...Option) (*Server, error) {
	if fetcher == nil {
		return nil, ErrNoFetcher
	}
	s := &Server{
		sessions:    session.NewManager(store),
		fetcher:     fetcher,
		assets:      vanilla.AssetsFS(),
		cookieName:  DefaultCookieName,
		returnDelay: wizard.DefaultReturnDelay,
		loadWait:    defaultLoadWait,
		defaultMode: appearance.ModeLight,
		logger:      slog.Default(),
		wizards:     make(map[string]*wizard.Controller),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With("component", "server")
	s.prefs = appearance.NewPreferences(store, appearance.WithDefault(s.defaultMode))

	if s.fields == nil {
		s.fields = fields.NewRegistry(fields.WithTranslator(s.translator))
	}
	s.engine = validation.New(validation.WithTranslator(s.translator))
	s.builder = view.NewBuilder(view.WithFields(s.fields), view.WithTranslator(s.translator))

	if s.themes == nil {
		themes, err := appearance.NewThemes()
		if err != nil {
			return nil, err
		}
		s.themes = themes
	}
	if s.renderers == nil {
		reg, err := defaultRenderers(s.returnDelay)
		if err != nil {
			return nil, err
		}
		s.renderers = reg
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.router = s.routes()
	return s, nil
}

func defaultRenderers(returnDelay time.Duration) (*render.Registry, error) {
	html, err := vanilla.New(vanilla.WithSuccessRefresh(returnDelay))
	if err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}
	reg := render.NewRegistry()
	if err := reg.Register(html); err != nil {
		return nil, err
	}
	if err := reg.Register(jsonpage.New()); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.clientID)

	r.Get("/", s.handleHome)
	r.Post("/login", s.handleLogin)
	r.Get("/form", s.handleForm)
	r.Post("/form", s.handleFormPost)
	r.Post("/logout", s.handleLogout)
	r.Post("/theme", s.handleTheme)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes every wizard.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errChan:
		s.Close()
		if err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Close discards every wizard and cancels pending schema fetches.
func (s *Server) Close() {
	s.cancel()
	s.mu.Lock()
	wizards := s.wizards
	s.wizards = make(map[string]*wizard.Controller)
	s.mu.Unlock()
	for _, c := range wizards {
		c.Close()
	}
}

// controller returns the live wizard for client, creating one for sess when
// none exists, the previous one has closed, or the identity changed. The
// returned channel is closed when a newly started load completes; it is nil
// for an existing wizard.
func (s *Server) controller(client string, sess session.Session) (*wizard.Controller, <-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.wizards[client]; ok {
		if !c.Closed() && c.Session() == sess {
			return c, nil, nil
		}
		c.Close()
		delete(s.wizards, client)
	}

	var c *wizard.Controller
	opts := []wizard.Option{
		wizard.WithFetcher(s.fetcher),
		wizard.WithFields(s.fields),
		wizard.WithEngine(s.engine),
		wizard.WithReturnDelay(s.returnDelay),
		wizard.WithLogger(s.logger),
		wizard.OnReturn(func() { s.returned(client, c) }),
	}
	if s.sink != nil {
		opts = append(opts, wizard.WithSink(s.sink))
	}
	if s.scheduler != nil {
		opts = append(opts, wizard.WithScheduler(s.scheduler))
	}
	c, err := wizard.New(sess, opts...)
	if err != nil {
		return nil, nil, err
	}
	s.wizards[client] = c
	return c, c.Load(s.ctx), nil
}

// lookup returns the live wizard for client, if any.
func (s *Server) lookup(client string) (*wizard.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.wizards[client]
	if !ok || c.Closed() {
		return nil, false
	}
	return c, true
}

// discard closes and forgets the wizard of client.
func (s *Server) discard(client string) {
	s.mu.Lock()
	c, ok := s.wizards[client]
	delete(s.wizards, client)
	s.mu.Unlock()
	if ok {
		c.Close()
	}
}

// returned runs after the post-submit delay: the identity is cleared so the
// next visit starts at the login page.
func (s *Server) returned(client string, c *wizard.Controller) {
	s.mu.Lock()
	if s.wizards[client] == c {
		delete(s.wizards, client)
	}
	s.mu.Unlock()
	if err := s.sessions.Clear(context.Background(), client); err != nil {
		s.logger.Error("clear session after submit", "error", err)
	}
}
