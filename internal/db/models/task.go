package models

import (
	"time"

	"github.com/google/uuid"
)

// Task holds one to-do item. Date is stored as YYYY-MM-DD and Time as
// 24-hour HH:MM; display formatting happens in the web layer.
type Task struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Label     string    `db:"label"`
	Date      string    `db:"due_date"`
	Time      string    `db:"due_time"`
	CreatedAt time.Time `db:"created_at"`
}
