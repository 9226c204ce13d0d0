package todo

import (
	"errors"
	"testing"
	"time"

	"todoweb/internal/todo/todotest"

	"github.com/google/uuid"
)

func newTestSessions(t *testing.T) (*Sessions, *todotest.FakeStore, *time.Time) {
	t.Helper()
	store := todotest.NewFakeStore()
	directory := NewDirectory(store)
	sessions := NewSessions(store, directory, 7*24*time.Hour)

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	if _, err := directory.Register("alice", "pw1", "pw1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return sessions, store, &now
}

func TestLoginAndResolve(t *testing.T) {
	sessions, _, _ := newTestSessions(t)

	account, token, err := sessions.Login("alice", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == uuid.Nil {
		t.Fatal("Login must return a usable token")
	}

	resolved, err := sessions.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.ID != account.ID {
		t.Errorf("resolved wrong account: %v vs %v", resolved.ID, account.ID)
	}
}

func TestLoginFailures(t *testing.T) {
	sessions, _, _ := newTestSessions(t)

	if _, _, err := sessions.Login("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := sessions.Login("nobody", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	var verr *ValidationError
	if _, _, err := sessions.Login("", ""); !errors.As(err, &verr) {
		t.Errorf("empty fields: expected ValidationError, got %v", err)
	}
}

func TestResolveAnonymous(t *testing.T) {
	sessions, _, _ := newTestSessions(t)

	if _, err := sessions.Resolve(uuid.Nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil token: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := sessions.Resolve(uuid.New()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("unknown token: expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	sessions, store, now := newTestSessions(t)

	_, token, err := sessions.Login("alice", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Within the TTL the session resolves and slides forward.
	*now = now.Add(6 * 24 * time.Hour)
	if _, err := sessions.Resolve(token); err != nil {
		t.Fatalf("Resolve within TTL failed: %v", err)
	}

	// The slide means another six days later it still resolves.
	*now = now.Add(6 * 24 * time.Hour)
	if _, err := sessions.Resolve(token); err != nil {
		t.Fatalf("Resolve after slide failed: %v", err)
	}

	// A full TTL of silence expires it, and the row is deleted on sight.
	*now = now.Add(8 * 24 * time.Hour)
	if _, err := sessions.Resolve(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after expiry, got %v", err)
	}
	if store.SessionCount() != 0 {
		t.Errorf("expired session should be deleted, %d rows remain", store.SessionCount())
	}
}

func TestLoginPurgesExpiredSessions(t *testing.T) {
	sessions, store, now := newTestSessions(t)

	// A session from a browser that never returns.
	if _, _, err := sessions.Login("alice", "pw1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if store.SessionCount() != 1 {
		t.Fatalf("expected 1 session, got %d", store.SessionCount())
	}

	// Long after it expires, a fresh login sweeps it out even though the
	// stale token itself is never presented again.
	*now = now.Add(8 * 24 * time.Hour)
	if _, _, err := sessions.Login("alice", "pw1"); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	if store.SessionCount() != 1 {
		t.Errorf("stale session should be purged on login, %d rows remain", store.SessionCount())
	}
}

func TestLogoutIdempotent(t *testing.T) {
	sessions, store, _ := newTestSessions(t)

	_, token, err := sessions.Login("alice", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := sessions.Logout(token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if store.SessionCount() != 0 {
		t.Error("Logout should delete the session")
	}
	if _, err := sessions.Resolve(token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated after logout, got %v", err)
	}

	// Logging out again, or while anonymous, is a no-op.
	if err := sessions.Logout(token); err != nil {
		t.Errorf("second Logout should be a no-op, got %v", err)
	}
	if err := sessions.Logout(uuid.Nil); err != nil {
		t.Errorf("anonymous Logout should be a no-op, got %v", err)
	}
}
