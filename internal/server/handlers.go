package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/appearance"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/view"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type clientKey struct{}

// clientID assigns every browser a random id cookie and stores it in the
// request context.
func (s *Server) clientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(s.cookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     s.cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey{}, id)))
	})
}

func client(r *http.Request) string {
	id, _ := r.Context().Value(clientKey{}).(string)
	return id
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	_, err := s.sessions.Load(r.Context(), client(r))
	switch {
	case err == nil:
		http.Redirect(w, r, "/form", http.StatusSeeOther)
	case errors.Is(err, session.ErrIdentityMissing):
		s.render(w, r, s.builder.Login("", "", ""), http.StatusOK)
	default:
		s.fail(w, r, "load session", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	identity := r.PostForm.Get("rollNumber")
	displayName := r.PostForm.Get("name")
	id := client(r)

	_, err := s.sessions.Login(r.Context(), id, identity, displayName, s.registrar)
	if err != nil {
		var rejected *session.RegistrationError
		var msg string
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, session.ErrIncompleteLogin):
			msg = s.text("error.login_required", "Both roll number and name are required")
		case errors.As(err, &rejected) && rejected.Message != "":
			msg = rejected.Message
		default:
			s.logger.Error("login failed", "error", err)
			msg = s.text("error.register_failed", "Failed to create user")
			status = http.StatusBadGateway
		}
		s.render(w, r, s.builder.Login(identity, displayName, msg), status)
		return
	}

	s.discard(id)
	s.logger.Info("login", "client", id)
	http.Redirect(w, r, "/form", http.StatusSeeOther)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	id := client(r)
	sess, err := s.sessions.Load(r.Context(), id)
	if errors.Is(err, session.ErrIdentityMissing) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.fail(w, r, "load session", err)
		return
	}

	c, loaded, err := s.controller(id, sess)
	if err != nil {
		s.fail(w, r, "start wizard", err)
		return
	}
	if loaded != nil {
		timer := time.NewTimer(s.loadWait)
		select {
		case <-loaded:
		case <-timer.C:
		case <-r.Context().Done():
		}
		timer.Stop()
	}
	s.renderController(w, r, c)
}

func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	if view.Action(r.PostFormValue("action")) == view.ActionBackToLogin {
		s.handleLogout(w, r)
		return
	}
	c, ok := s.lookup(client(r))
	if !ok {
		http.Redirect(w, r, "/form", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.applyEdits(c, r.PostForm)

	if action := view.Action(r.PostForm.Get("action")); action != "" {
		_, err := view.Forward(r.Context(), c, action)
		switch {
		case err == nil:
		case errors.Is(err, view.ErrUnknownAction):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, wizard.ErrClosed):
			s.logger.Debug("ignored action", "action", action, "error", err)
		default:
			s.logger.Error("action failed", "action", action, "error", err)
		}
	}

	if wantsJSON(r) {
		s.renderController(w, r, c)
		return
	}
	http.Redirect(w, r, "/form", http.StatusSeeOther)
}

// applyEdits writes the posted values of the current section. Posts for any
// other section are stale and ignored.
func (s *Server) applyEdits(c *wizard.Controller, form url.Values) {
	state := c.Snapshot()
	schema, ok := c.Schema()
	if state.Phase != wizard.PhaseReady || !ok || state.Index >= len(schema.Sections) {
		return
	}
	section := schema.Sections[state.Index]
	if posted := form.Get("section"); posted != "" && posted != string(section.ID) {
		s.logger.Debug("stale section post", "posted", posted, "current", section.ID)
		return
	}
	for fieldID, in := range render.FieldInputs(section, form) {
		if _, err := c.Edit(fieldID, in); err != nil {
			s.logger.Warn("edit rejected", "field", fieldID, "error", err)
		}
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := client(r)
	s.discard(id)
	if err := s.sessions.Clear(r.Context(), id); err != nil {
		s.fail(w, r, "clear session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	mode, err := s.prefs.Toggle(r.Context(), client(r), schemeHint(r))
	if err != nil {
		s.fail(w, r, "toggle theme", err)
		return
	}
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"theme": string(mode)})
		return
	}
	http.Redirect(w, r, backPath(r), http.StatusSeeOther)
}

func (s *Server) renderController(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	page, err := s.builder.Page(c)
	if err != nil {
		s.fail(w, r, "build page", err)
		return
	}
	status := http.StatusOK
	if page.Kind == view.PageError {
		status = http.StatusBadGateway
	}
	s.render(w, r, page, status)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page view.Page, status int) {
	renderer, err := s.renderers.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		s.fail(w, r, "select renderer", err)
		return
	}

	mode, err := s.prefs.Load(r.Context(), client(r), schemeHint(r))
	if err != nil {
		s.logger.Warn("load appearance", "error", err)
	}
	opts := render.RenderOptions{
		Mode:             mode,
		Locale:           s.locale,
		ThemeToggleLabel: s.text("theme.toggle", "Toggle theme"),
	}
	if s.themes != nil {
		cfg, err := s.themes.Config(s.themeName, mode)
		if err != nil {
			s.logger.Warn("resolve theme", "theme", s.themeName, "error", err)
		} else {
			opts.Theme = cfg
		}
	}

	out, err := renderer.Render(r.Context(), page, opts)
	if err != nil {
		s.fail(w, r, "render", err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op, "error", err, "path", r.URL.Path)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) text(id, fallback string) string {
	if s.translator == nil {
		return fallback
	}
	msg, err := s.translator.Translate(id, -1, nil)
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// schemeHint reads the client colour scheme hint, if sent.
func schemeHint(r *http.Request) appearance.Mode {
	m, err := appearance.ParseMode(r.Header.Get("Sec-CH-Prefers-Color-Scheme"))
	if err != nil {
		return ""
	}
	return m
}

// backPath returns the local path of the referring page.
func backPath(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	return ref.Path
}
