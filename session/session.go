// Package session gates the application behind the practice passcode. The
// passcode lives in the settings document of the store; when no document
// exists yet the configured fallback applies. Successful logins mint opaque
// tokens, and interested components can subscribe to auth-state changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/fernheilpraxis/clinic-api/validation"
	"github.com/google/uuid"
)

// ErrWrongPasscode is returned when the presented passcode does not match.
var ErrWrongPasscode = errors.New("wrong passcode")

// ErrInvalidToken is returned for unknown or expired session tokens.
var ErrInvalidToken = errors.New("invalid session token")

const tokenLifetime = 12 * time.Hour

func passcodeDocPath() string { return store.SettingsPath() + "/passcode" }

// Listener receives auth-state transitions: true on login, false on logout.
type Listener func(loggedIn bool)

// Manager verifies passcodes and tracks active sessions.
type Manager struct {
	store    store.DocumentStore
	fallback string

	mu        sync.RWMutex
	tokens    map[string]time.Time // token -> expiry
	listeners []Listener
}

// NewManager creates a session manager backed by the given store. The
// fallback passcode applies until a passcode document has been persisted.
func NewManager(st store.DocumentStore, fallbackPasscode string) *Manager {
	return &Manager{
		store:    st,
		fallback: fallbackPasscode,
		tokens:   make(map[string]time.Time),
	}
}

// Subscribe registers a listener for auth-state changes. Listeners are
// invoked synchronously after the state transition completes.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

func (m *Manager) notify(loggedIn bool) {
	m.mu.RLock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, l := range listeners {
		l(loggedIn)
	}
}

// currentPasscode resolves the effective passcode. A missing settings
// document means the fallback is still in effect; any other store failure is
// reported so a transient outage cannot silently lock the operator out.
func (m *Manager) currentPasscode(ctx context.Context) (string, error) {
	doc, err := m.store.Get(ctx, passcodeDocPath())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return m.fallback, nil
		}
		return "", fmt.Errorf("load passcode: %w", err)
	}
	if value, ok := doc.Fields["value"].(string); ok && value != "" {
		return value, nil
	}
	return m.fallback, nil
}

// Login checks the passcode and returns a fresh session token.
func (m *Manager) Login(ctx context.Context, passcode string) (string, error) {
	current, err := m.currentPasscode(ctx)
	if err != nil {
		return "", err
	}
	if passcode != current {
		logging.Warn("Failed login attempt")
		return "", ErrWrongPasscode
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.tokens[token] = time.Now().Add(tokenLifetime)
	m.mu.Unlock()

	logging.Info("Operator logged in")
	m.notify(true)
	return token, nil
}

// Authenticate reports whether the token belongs to a live session. Expired
// tokens are pruned on sight.
func (m *Manager) Authenticate(token string) error {
	m.mu.RLock()
	expiry, ok := m.tokens[token]
	m.mu.RUnlock()

	if !ok {
		return ErrInvalidToken
	}
	if time.Now().After(expiry) {
		m.mu.Lock()
		delete(m.tokens, token)
		m.mu.Unlock()
		return ErrInvalidToken
	}
	return nil
}

// Logout invalidates the token.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	_, existed := m.tokens[token]
	delete(m.tokens, token)
	m.mu.Unlock()

	if existed {
		m.notify(false)
	}
}

// ChangePasscode rotates the passcode. The current passcode must match, the
// new one must pass validation and the confirmation must agree. All live
// sessions stay valid across a rotation.
func (m *Manager) ChangePasscode(ctx context.Context, current, next, confirm string) error {
	effective, err := m.currentPasscode(ctx)
	if err != nil {
		return err
	}
	if current != effective {
		return ErrWrongPasscode
	}

	v := validation.NewValidator()
	if err := v.ValidatePasscode(next); err != nil {
		return err
	}
	if next != confirm {
		return &validation.ValidationError{Field: "confirm", Reason: "confirmation does not match"}
	}

	if err := m.store.Set(ctx, passcodeDocPath(), map[string]any{"value": next}); err != nil {
		return fmt.Errorf("persist passcode: %w", err)
	}

	logging.Info("Passcode changed")
	return nil
}
