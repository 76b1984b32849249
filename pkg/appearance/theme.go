package appearance

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultTheme names the built-in manifest.
const DefaultTheme = "formwizard"

// ErrThemeNotFound is returned when a theme name is not registered.
var ErrThemeNotFound = errors.New("appearance: theme not found")

// DefaultManifest returns the built-in manifest: an orange palette with a
// dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"background":     "#fff7ed",
			"surface":        "#ffffff",
			"text":           "#1f2937",
			"muted":          "#4b5563",
			"border":         "#e5e7eb",
			"accent":         "#f97316",
			"accent-strong":  "#ea580c",
			"done":           "#f59e0b",
			"error":          "#dc2626",
			"error-surface":  "#fef2f2",
			"success":        "#16a34a",
			"track":          "#e5e7eb",
			"focus-ring":     "#ffedd5",
			"radius":         "0.75rem",
			"font-family":    "system-ui, sans-serif",
			"header-surface": "linear-gradient(90deg, #f97316, #f59e0b)",
		},
		Templates: map[string]string{
			"page": "page.html",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "formwizard.css",
			},
		},
		Variants: map[string]theme.Variant{
			string(ModeDark): {
				Tokens: map[string]string{
					"background":    "#111827",
					"surface":       "#1f2937",
					"text":          "#f3f4f6",
					"muted":         "#9ca3af",
					"border":        "#374151",
					"accent-strong": "#fb923c",
					"error-surface": "#450a0a",
					"track":         "#374151",
					"focus-ring":    "#7c2d12",
				},
			},
		},
	}
}

// Themes holds the registered manifests and resolves them per mode. It
// implements go-theme's ThemeSelector.
type Themes struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	provider  theme.ThemeProvider
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers the manifests; the built-in manifest is added when
// none is given. The first manifest becomes the default theme.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	t := &Themes{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("appearance: register %q: %w", m.Name, err)
		}
		t.manifests[m.Name] = m
		if t.fallback == "" {
			t.fallback = m.Name
		}
	}
	if t.fallback == "" {
		return nil, fmt.Errorf("%w: no manifests", ErrThemeNotFound)
	}
	t.provider = registry
	return t, nil
}

// Provider exposes the go-theme registry backing the selector.
func (t *Themes) Provider() theme.ThemeProvider { return t.provider }

// Names lists registered themes sorted by name.
func (t *Themes) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.manifests))
}

// Select resolves a theme and variant. Empty values fall back to the default
// theme and the light variant.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if name == "" {
		name = t.fallback
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant == "" {
		variant = string(ModeLight)
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// Config resolves the renderer configuration for a theme in mode m.
func (t *Themes) Config(name string, m Mode) (*theme.RendererConfig, error) {
	sel, err := t.Select(name, string(m))
	if err != nil {
		return nil, err
	}
	return RendererConfig(sel), nil
}

// RendererConfig merges a selection's base and variant tokens, templates and
// assets. Variants override the base manifest.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	m := sel.Manifest
	tokens := maps.Clone(m.Tokens)
	partials := maps.Clone(m.Templates)
	files := maps.Clone(m.Assets.Files)
	prefix := m.Assets.Prefix
	if v, ok := m.Variants[sel.Variant]; ok {
		tokens = merge(tokens, v.Tokens)
		partials = merge(partials, v.Templates)
		files = merge(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for k, v := range tokens {
		vars["--"+k] = v
	}
	return &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS variables as a sorted declaration list suitable
// for a style attribute or a :root block.
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(cfg.CSSVars)) {
		fmt.Fprintf(&b, "%s: %s; ", k, cfg.CSSVars[k])
	}
	return strings.TrimSpace(b.String())
}

func merge(base, override map[string]string) map[string]string {
	if base == nil {
		base = make(map[string]string, len(override))
	}
	maps.Copy(base, override)
	return base
}
