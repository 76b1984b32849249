// Package session persists the signed-in identity and other per-client
// preferences in a small key/value store, and implements the login step that
// precedes the wizard.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// KeyUser is the store key holding the serialised Session.
const KeyUser = "user"

var (
	// ErrIdentityMissing signals that no identity is stored; hosts redirect to
	// the login step.
	ErrIdentityMissing = errors.New("session: identity missing")
	// ErrIncompleteLogin is returned when either login input is blank.
	ErrIncompleteLogin = errors.New("session: both roll number and name are required")
)

// Session is the identity the wizard runs for.
type Session struct {
	Identity    string `json:"rollNumber"`
	DisplayName string `json:"name"`
}

// Valid reports whether the session carries an identity.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Identity) != ""
}

// Manager reads and writes the Session for one client namespace.
type Manager struct {
	store Store
}

// NewManager wraps a Store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Store exposes the underlying key/value store.
func (m *Manager) Store() Store { return m.store }

// Save persists the session under KeyUser.
func (m *Manager) Save(ctx context.Context, namespace string, s Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	return m.store.Put(ctx, namespace, KeyUser, payload)
}

// Load returns the stored session or ErrIdentityMissing.
func (m *Manager) Load(ctx context.Context, namespace string) (Session, error) {
	raw, err := m.store.Get(ctx, namespace, KeyUser)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrIdentityMissing
	}
	if err != nil {
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("session: decode stored user: %w", err)
	}
	if !s.Valid() {
		return Session{}, ErrIdentityMissing
	}
	return s, nil
}

// Clear removes the stored identity (logout).
func (m *Manager) Clear(ctx context.Context, namespace string) error {
	err := m.store.Delete(ctx, namespace, KeyUser)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
