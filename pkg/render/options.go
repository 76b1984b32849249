package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/appearance"
)

// RenderOptions carry per-request presentation state that is not part of the
// wizard itself.
type RenderOptions struct {
	// Theme holds the resolved tokens and CSS variables for Mode.
	Theme *theme.RendererConfig
	Mode  appearance.Mode
	// Locale is the BCP 47 tag of the active message catalog.
	Locale string
	// Hidden fields are emitted inside every rendered form, sorted by name.
	Hidden []HiddenField
	// Paths are the endpoints forms post to, keyed by action
	// ("login", "form", "logout", "theme").
	Paths map[string]string
	// ThemeToggleLabel is the label of the appearance switch.
	ThemeToggleLabel string
}

// Path returns the configured endpoint for key or fallback.
func (o RenderOptions) Path(key, fallback string) string {
	if p, ok := o.Paths[key]; ok && p != "" {
		return p
	}
	return fallback
}
