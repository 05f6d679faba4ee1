package session

import (
	"context"
	"errors"
	"testing"

	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/fernheilpraxis/clinic-api/validation"
)

func TestLoginWithFallbackPasscode(t *testing.T) {
	m := NewManager(store.NewMemStore(), "1234")
	ctx := context.Background()

	if _, err := m.Login(ctx, "0000"); !errors.Is(err, ErrWrongPasscode) {
		t.Errorf("expected ErrWrongPasscode, got %v", err)
	}

	token, err := m.Login(ctx, "1234")
	if err != nil {
		t.Fatalf("login with fallback failed: %v", err)
	}
	if err := m.Authenticate(token); err != nil {
		t.Errorf("fresh token should authenticate: %v", err)
	}
}

func TestStoredPasscodeOverridesFallback(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	if err := st.Set(ctx, passcodeDocPath(), map[string]any{"value": "9876"}); err != nil {
		t.Fatal(err)
	}

	m := NewManager(st, "1234")
	if _, err := m.Login(ctx, "1234"); !errors.Is(err, ErrWrongPasscode) {
		t.Error("fallback must not work once a passcode document exists")
	}
	if _, err := m.Login(ctx, "9876"); err != nil {
		t.Errorf("stored passcode rejected: %v", err)
	}
}

func TestChangePasscode(t *testing.T) {
	st := store.NewMemStore()
	m := NewManager(st, "1234")
	ctx := context.Background()

	if err := m.ChangePasscode(ctx, "0000", "5678", "5678"); !errors.Is(err, ErrWrongPasscode) {
		t.Errorf("expected ErrWrongPasscode for wrong current, got %v", err)
	}

	var verr *validation.ValidationError
	if err := m.ChangePasscode(ctx, "1234", "12", "12"); !errors.As(err, &verr) {
		t.Errorf("expected validation error for short passcode, got %v", err)
	}
	if err := m.ChangePasscode(ctx, "1234", "5678", "8765"); !errors.As(err, &verr) {
		t.Errorf("expected validation error for mismatched confirmation, got %v", err)
	}

	if err := m.ChangePasscode(ctx, "1234", "5678", "5678"); err != nil {
		t.Fatalf("valid rotation failed: %v", err)
	}
	if _, err := m.Login(ctx, "5678"); err != nil {
		t.Errorf("new passcode rejected after rotation: %v", err)
	}
	if _, err := m.Login(ctx, "1234"); !errors.Is(err, ErrWrongPasscode) {
		t.Error("old passcode must stop working after rotation")
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	m := NewManager(store.NewMemStore(), "1234")
	token, err := m.Login(context.Background(), "1234")
	if err != nil {
		t.Fatal(err)
	}

	m.Logout(token)
	if err := m.Authenticate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestAuthStateListeners(t *testing.T) {
	m := NewManager(store.NewMemStore(), "1234")

	var events []bool
	m.Subscribe(func(loggedIn bool) { events = append(events, loggedIn) })

	token, err := m.Login(context.Background(), "1234")
	if err != nil {
		t.Fatal(err)
	}
	m.Logout(token)
	m.Logout(token) // second logout is a no-op

	if len(events) != 2 || !events[0] || events[1] {
		t.Errorf("expected [login, logout] events, got %v", events)
	}
}

func TestUnknownTokenRejected(t *testing.T) {
	m := NewManager(store.NewMemStore(), "1234")
	if err := m.Authenticate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
