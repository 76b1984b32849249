// Package appearance stores the light/dark preference of a client and
// resolves it into theme tokens and CSS variables through go-theme manifests.
// The preference is kept independently of the signed-in identity.
package appearance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/session"
)

// Key is the store key holding the preference.
const Key = "theme"

// Mode is a colour scheme.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ErrUnknownMode is returned when a stored or requested mode is not light or
// dark.
var ErrUnknownMode = errors.New("appearance: unknown mode")

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeLight:
		return ModeLight, nil
	case ModeDark:
		return ModeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// Preferences reads and writes the mode for one client namespace.
type Preferences struct {
	store    session.Store
	fallback Mode
}

// PreferencesOption configures Preferences.
type PreferencesOption func(*Preferences)

// WithDefault sets the mode used when nothing is stored and no hint is given.
func WithDefault(m Mode) PreferencesOption {
	return func(p *Preferences) {
		if m == ModeLight || m == ModeDark {
			p.fallback = m
		}
	}
}

// NewPreferences wraps a session store.
func NewPreferences(store session.Store, opts ...PreferencesOption) *Preferences {
	p := &Preferences{store: store, fallback: ModeLight}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Load returns the stored mode. When nothing valid is stored the hint (for
// example the client's prefers-color-scheme) is used, then the default.
func (p *Preferences) Load(ctx context.Context, namespace string, hint Mode) (Mode, error) {
	raw, err := p.store.Get(ctx, namespace, Key)
	switch {
	case errors.Is(err, session.ErrNotFound):
	case err != nil:
		return p.fallback, fmt.Errorf("appearance: load: %w", err)
	default:
		if m, err := ParseMode(string(raw)); err == nil {
			return m, nil
		}
	}
	if hint == ModeLight || hint == ModeDark {
		return hint, nil
	}
	return p.fallback, nil
}

// Save persists m.
func (p *Preferences) Save(ctx context.Context, namespace string, m Mode) error {
	if m != ModeLight && m != ModeDark {
		return fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	if err := p.store.Put(ctx, namespace, Key, []byte(m)); err != nil {
		return fmt.Errorf("appearance: save: %w", err)
	}
	return nil
}

// Toggle flips and persists the mode, returning the new value.
func (p *Preferences) Toggle(ctx context.Context, namespace string, hint Mode) (Mode, error) {
	current, err := p.Load(ctx, namespace, hint)
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := p.Save(ctx, namespace, next); err != nil {
		return current, err
	}
	return next, nil
}
