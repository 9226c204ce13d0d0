// Package todotest provides an in-memory store implementation for testing
// the core without a database.
package todotest

import (
	"sort"
	"sync"
	"time"

	"todoweb/internal/db/models"

	"github.com/google/uuid"
)

// FakeStore is an in-memory implementation of todo.Store. Lookups return
// copies, the way a database round-trip would, so callers never share
// memory with the stored records.
type FakeStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*models.Account
	tasks    map[uuid.UUID]*models.Task
	sessions map[uuid.UUID]*models.Session

	// Error injection for testing
	GetAccountErr    error
	CreateAccountErr error
	GetTaskErr       error
	InsertTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error
	SessionErr       error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		accounts: make(map[uuid.UUID]*models.Account),
		tasks:    make(map[uuid.UUID]*models.Task),
		sessions: make(map[uuid.UUID]*models.Session),
	}
}

func copyAccount(a *models.Account) *models.Account {
	dup := *a
	dup.OwnedTaskIDs = append(dup.OwnedTaskIDs[:0:0], a.OwnedTaskIDs...)
	return &dup
}

func copyTask(t *models.Task) *models.Task {
	dup := *t
	return &dup
}

// GetAccountByID implements todo.Store.
func (f *FakeStore) GetAccountByID(id uuid.UUID) (*models.Account, error) {
	if f.GetAccountErr != nil {
		return nil, f.GetAccountErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(account), nil
}

// GetAccountByUsername implements todo.Store.
func (f *FakeStore) GetAccountByUsername(username string) (*models.Account, error) {
	if f.GetAccountErr != nil {
		return nil, f.GetAccountErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, account := range f.accounts {
		if account.Username == username {
			return copyAccount(account), nil
		}
	}
	return nil, nil
}

// CreateAccount implements todo.Store.
func (f *FakeStore) CreateAccount(account *models.Account) error {
	if f.CreateAccountErr != nil {
		return f.CreateAccountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.ID] = copyAccount(account)
	return nil
}

// GetTaskByID implements todo.Store.
func (f *FakeStore) GetTaskByID(id uuid.UUID) (*models.Task, error) {
	if f.GetTaskErr != nil {
		return nil, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	return copyTask(task), nil
}

// GetTasksByIDs implements todo.Store. Ids without a stored task are
// skipped; results are ordered by date then time.
func (f *FakeStore) GetTasksByIDs(ids []string) ([]*models.Task, error) {
	if f.GetTaskErr != nil {
		return nil, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var tasks []*models.Task
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		if task, ok := f.tasks[parsed]; ok {
			tasks = append(tasks, copyTask(task))
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		return tasks[i].Time < tasks[j].Time
	})
	return tasks, nil
}

// InsertTaskOwned implements todo.Store. Both writes happen under one
// lock, mirroring the single transaction of the real store.
func (f *FakeStore) InsertTaskOwned(accountID uuid.UUID, task *models.Task) error {
	if f.InsertTaskErr != nil {
		return f.InsertTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = copyTask(task)
	if account, ok := f.accounts[accountID]; ok {
		account.OwnedTaskIDs = append(account.OwnedTaskIDs, task.ID.String())
	}
	return nil
}

// UpdateTask implements todo.Store.
func (f *FakeStore) UpdateTask(task *models.Task) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = copyTask(task)
	return nil
}

// DeleteTaskOwned implements todo.Store.
func (f *FakeStore) DeleteTaskOwned(accountID, taskID uuid.UUID) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, taskID)
	if account, ok := f.accounts[accountID]; ok {
		id := taskID.String()
		kept := account.OwnedTaskIDs[:0]
		for _, owned := range account.OwnedTaskIDs {
			if owned != id {
				kept = append(kept, owned)
			}
		}
		account.OwnedTaskIDs = kept
	}
	return nil
}

// CreateSession implements todo.Store.
func (f *FakeStore) CreateSession(session *models.Session) error {
	if f.SessionErr != nil {
		return f.SessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	dup := *session
	f.sessions[session.Token] = &dup
	return nil
}

// GetSession implements todo.Store.
func (f *FakeStore) GetSession(token uuid.UUID) (*models.Session, error) {
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	session, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	dup := *session
	return &dup, nil
}

// TouchSession implements todo.Store.
func (f *FakeStore) TouchSession(token uuid.UUID, expiresAt time.Time) error {
	if f.SessionErr != nil {
		return f.SessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.sessions[token]; ok {
		session.ExpiresAt = expiresAt
	}
	return nil
}

// DeleteSession implements todo.Store.
func (f *FakeStore) DeleteSession(token uuid.UUID) error {
	if f.SessionErr != nil {
		return f.SessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

// DeleteExpiredSessions implements todo.Store.
func (f *FakeStore) DeleteExpiredSessions(cutoff time.Time) error {
	if f.SessionErr != nil {
		return f.SessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, session := range f.sessions {
		if !session.ExpiresAt.After(cutoff) {
			delete(f.sessions, token)
		}
	}
	return nil
}

// SessionCount reports how many sessions are live, for expiry tests.
func (f *FakeStore) SessionCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}

// TaskCount reports how many tasks are stored.
func (f *FakeStore) TaskCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}
