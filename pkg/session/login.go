package session

import (
	"context"
	"fmt"
	"strings"
)

// Registrar records a new identity with the remote system.
type Registrar interface {
	Register(ctx context.Context, s Session) (RegisterResult, error)
}

// RegisterResult mirrors the registration endpoint's reply.
type RegisterResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegistrationError carries the server's rejection message.
type RegistrationError struct {
	Message string
}

func (e *RegistrationError) Error() string {
	return "session: registration rejected: " + e.Message
}

// Login checks both inputs, registers the identity when a Registrar is
// configured, and persists the session.
func (m *Manager) Login(ctx context.Context, namespace, identity, displayName string, registrar Registrar) (Session, error) {
	s := Session{Identity: strings.TrimSpace(identity), DisplayName: strings.TrimSpace(displayName)}
	if s.Identity == "" || s.DisplayName == "" {
		return Session{}, ErrIncompleteLogin
	}

	if registrar != nil {
		res, err := registrar.Register(ctx, s)
		if err != nil {
			return Session{}, fmt.Errorf("session: register: %w", err)
		}
		if !res.Success {
			return Session{}, &RegistrationError{Message: res.Message}
		}
	}

	if err := m.Save(ctx, namespace, s); err != nil {
		return Session{}, err
	}
	return s, nil
}
