// Package vanilla renders wizard pages as server-side HTML using pongo2
// templates. The output works without JavaScript: every action is a form
// post.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/goliatone/go-formwizard/pkg/appearance"
	"github.com/goliatone/go-formwizard/pkg/render"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwizard/pkg/view"
)

// Default endpoints posted to by the rendered forms.
const (
	PathHome   = "/"
	PathLogin  = "/login"
	PathForm   = "/form"
	PathLogout = "/logout"
	PathTheme  = "/theme"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	refresh          time.Duration
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk first, falling
// back to the template bundle for names the directory does not provide.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSuccessRefresh makes the success page reload the home path after d so
// the browser follows the post-submit return. Loading pages always poll the
// form path once a second.
func WithSuccessRefresh(d time.Duration) Option {
	return func(cfg *config) {
		cfg.refresh = d
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	refresh    time.Duration
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.templateDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, stylesheet: defaultStylesheet(), refresh: cfg.refresh}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, page view.Page, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	if page.Section != nil {
		section := *page.Section
		section.Description = sanitizeDescription(section.Description)
		page.Section = &section
	}

	result, err := r.templates.RenderTemplate("page", r.context(page, opts))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) context(page view.Page, opts render.RenderOptions) map[string]any {
	mode := opts.Mode
	if mode == "" {
		mode = appearance.ModeLight
	}
	themeData := map[string]any{
		"mode":         string(mode),
		"toggle_label": opts.ThemeToggleLabel,
	}
	if themeData["toggle_label"] == "" {
		themeData["toggle_label"] = "Toggle theme"
	}
	if cfg := opts.Theme; cfg != nil {
		themeData["name"] = cfg.Theme
		themeData["css_vars"] = appearance.CSSVarsStyle(cfg)
		if cfg.AssetURL != nil {
			themeData["stylesheet_url"] = cfg.AssetURL("stylesheet")
		}
	}

	refresh, refreshURL := 0, ""
	switch {
	case page.Kind == view.PageSuccess && r.refresh > 0:
		refresh = max(1, int(r.refresh.Round(time.Second)/time.Second))
		refreshURL = opts.Path("home", PathHome)
	case page.Kind == view.PageLoading:
		refresh = 1
		refreshURL = opts.Path("form", PathForm)
	}

	return map[string]any{
		"page":       page,
		"locale":     opts.Locale,
		"theme":      themeData,
		"stylesheet": r.stylesheet,
		"hidden":     render.SortedHiddenFields(opts.Hidden...),
		"refresh":    refresh,
		"refreshURL": refreshURL,
		"paths": map[string]string{
			"home":   opts.Path("home", PathHome),
			"login":  opts.Path("login", PathLogin),
			"form":   opts.Path("form", PathForm),
			"logout": opts.Path("logout", PathLogout),
			"theme":  opts.Path("theme", PathTheme),
		},
	}
}
