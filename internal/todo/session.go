package todo

import (
	"fmt"
	"time"

	"todoweb/internal/db/models"

	"github.com/google/uuid"
)

// Sessions maps browser-held tokens to accounts. A request is either
// Anonymous (Resolve returns ErrUnauthenticated) or Authenticated (Resolve
// returns the account). Tokens live in the store, never in process-wide
// state, so any instance can resolve any token.
type Sessions struct {
	store     Store
	directory *Directory
	ttl       time.Duration
	now       func() time.Time
}

func NewSessions(store Store, directory *Directory, ttl time.Duration) *Sessions {
	return &Sessions{
		store:     store,
		directory: directory,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login verifies the credentials and, on success, establishes a session
// token bound to the account. The token is the caller's to persist
// (typically in a cookie).
func (s *Sessions) Login(username, password string) (*models.Account, uuid.UUID, error) {
	if username == "" || password == "" {
		return nil, uuid.Nil, validationError("Please enter an username and password.")
	}

	account, err := s.directory.FindByUsername(username)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("error resolving account: %w", err)
	}
	if account == nil || !s.directory.VerifyPassword(account, password) {
		return nil, uuid.Nil, ErrInvalidCredentials
	}

	// Each login also sweeps out sessions whose browsers never came back;
	// Resolve only catches expired tokens that are still presented.
	if err := s.store.DeleteExpiredSessions(s.now()); err != nil {
		return nil, uuid.Nil, fmt.Errorf("error purging expired sessions: %w", err)
	}

	session := &models.Session{
		Token:     uuid.New(),
		AccountID: account.ID,
		ExpiresAt: s.now().Add(s.ttl),
		CreatedAt: s.now(),
	}
	if err := s.store.CreateSession(session); err != nil {
		return nil, uuid.Nil, fmt.Errorf("error creating session: %w", err)
	}
	return account, session.Token, nil
}

// Resolve returns the account the token belongs to, sliding the session's
// expiry forward. Missing, expired, or orphaned tokens yield
// ErrUnauthenticated.
func (s *Sessions) Resolve(token uuid.UUID) (*models.Account, error) {
	if token == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	session, err := s.store.GetSession(token)
	if err != nil {
		return nil, fmt.Errorf("error looking up session: %w", err)
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}
	if !s.now().Before(session.ExpiresAt) {
		// Expired rows are deleted on sight.
		if err := s.store.DeleteSession(token); err != nil {
			return nil, fmt.Errorf("error deleting expired session: %w", err)
		}
		return nil, ErrUnauthenticated
	}

	account, err := s.directory.FindByID(session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("error resolving session account: %w", err)
	}
	if account == nil {
		if err := s.store.DeleteSession(token); err != nil {
			return nil, fmt.Errorf("error deleting orphaned session: %w", err)
		}
		return nil, ErrUnauthenticated
	}

	if err := s.store.TouchSession(token, s.now().Add(s.ttl)); err != nil {
		return nil, fmt.Errorf("error refreshing session: %w", err)
	}
	return account, nil
}

// Logout invalidates the token. Logging out an already-anonymous caller is
// a no-op, not an error.
func (s *Sessions) Logout(token uuid.UUID) error {
	if token == uuid.Nil {
		return nil
	}
	return s.store.DeleteSession(token)
}
