package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"
	"github.com/muesli/termenv"
)

// Palette used when no theme tokens are supplied.
var (
	defaultAccent  = lipgloss.Color("208")
	defaultDone    = lipgloss.Color("214")
	defaultError   = lipgloss.Color("204")
	defaultSuccess = lipgloss.Color("76")
	defaultMuted   = lipgloss.Color("243")
)

// Styles holds the lipgloss styles used to draw pages.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Current lipgloss.Style
	Done    lipgloss.Style
	Pending lipgloss.Style
	Bar     lipgloss.Style
	Track   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Summary lipgloss.Style
}

// NewStyles builds styles bound to out's colour profile. Colour tokens from
// cfg (accent, done, error, success, muted) override the default palette.
func NewStyles(out io.Writer, cfg *theme.RendererConfig, plain bool) Styles {
	r := lipgloss.NewRenderer(out)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}

	accent := tokenColor(cfg, "accent", defaultAccent)
	done := tokenColor(cfg, "done", defaultDone)
	errc := tokenColor(cfg, "error", defaultError)
	success := tokenColor(cfg, "success", defaultSuccess)
	muted := tokenColor(cfg, "muted", defaultMuted)

	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(accent),
		Section: r.NewStyle().Bold(true),
		Current: r.NewStyle().Bold(true).Foreground(accent),
		Done:    r.NewStyle().Foreground(done),
		Pending: r.NewStyle().Foreground(muted),
		Bar:     r.NewStyle().Foreground(accent),
		Track:   r.NewStyle().Foreground(muted),
		Muted:   r.NewStyle().Foreground(muted),
		Error:   r.NewStyle().Foreground(errc),
		Success: r.NewStyle().Bold(true).Foreground(success),
		Summary: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errc).
			Padding(0, 1),
	}
}

func tokenColor(cfg *theme.RendererConfig, key string, fallback lipgloss.Color) lipgloss.TerminalColor {
	if cfg == nil {
		return fallback
	}
	if v, ok := cfg.Tokens[key]; ok && len(v) > 0 && v[0] == '#' {
		return lipgloss.Color(v)
	}
	return fallback
}
