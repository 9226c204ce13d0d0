// Package todo holds the application core: the user directory, the
// session-based identity resolver, and the owner-scoped task access layer.
// It talks to persistence only through the Store interface.
package todo

import (
	"time"

	"todoweb/internal/db/models"

	"github.com/google/uuid"
)

// Store is the persistence surface the core depends on. The production
// implementation is internal/db; tests use an in-memory fake.
//
// Lookup methods return (nil, nil) when no matching record exists.
type Store interface {
	GetAccountByID(id uuid.UUID) (*models.Account, error)
	GetAccountByUsername(username string) (*models.Account, error)
	CreateAccount(account *models.Account) error

	GetTaskByID(id uuid.UUID) (*models.Task, error)
	// GetTasksByIDs returns the tasks whose ids appear in ids, ordered by
	// date ascending then time ascending. Ids with no matching task are
	// skipped silently: an ownership-list entry without a task row is
	// treated as already deleted.
	GetTasksByIDs(ids []string) ([]*models.Task, error)
	// InsertTaskOwned atomically inserts the task and appends its id to
	// the owning account's ownership list.
	InsertTaskOwned(accountID uuid.UUID, task *models.Task) error
	UpdateTask(task *models.Task) error
	// DeleteTaskOwned atomically deletes the task and removes its id from
	// the owning account's ownership list, preserving the relative order
	// of the remaining ids.
	DeleteTaskOwned(accountID, taskID uuid.UUID) error

	CreateSession(session *models.Session) error
	GetSession(token uuid.UUID) (*models.Session, error)
	TouchSession(token uuid.UUID, expiresAt time.Time) error
	DeleteSession(token uuid.UUID) error
	// DeleteExpiredSessions removes every session whose expiry is at or
	// before cutoff, covering tokens whose browsers never came back.
	DeleteExpiredSessions(cutoff time.Time) error
}
