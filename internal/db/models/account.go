package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Account struct {
	ID           uuid.UUID      `db:"id"`
	Username     string         `db:"username"`
	PasswordHash string         `db:"password_hash"`
	OwnedTaskIDs pq.StringArray `db:"owned_task_ids"`
	CreatedAt    time.Time      `db:"created_at"`
}

// OwnsTask reports whether taskID is in the account's ownership list.
func (a *Account) OwnsTask(taskID uuid.UUID) bool {
	id := taskID.String()
	for _, owned := range a.OwnedTaskIDs {
		if owned == id {
			return true
		}
	}
	return false
}
