package todo

import (
	"fmt"
	"strings"
	"time"

	"todoweb/internal/db/models"

	"github.com/google/uuid"
)

// TaskInput carries the five user-supplied task fields. Date accepts
// either MM/DD/YYYY or YYYY-MM-DD; Time is 24-hour HH:MM.
type TaskInput struct {
	Title   string
	Content string
	Label   string
	Date    string
	Time    string
}

// Tasks is the owner-scoped task access layer. Every operation is scoped
// to the ids in the calling account's ownership list.
type Tasks struct {
	store Store
	now   func() time.Time
}

func NewTasks(store Store) *Tasks {
	return &Tasks{store: store, now: time.Now}
}

// ListOwned returns the account's tasks ordered by date ascending, then
// time ascending.
func (t *Tasks) ListOwned(account *models.Account) ([]*models.Task, error) {
	if len(account.OwnedTaskIDs) == 0 {
		return nil, nil
	}
	tasks, err := t.store.GetTasksByIDs(account.OwnedTaskIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading tasks: %w", err)
	}
	return tasks, nil
}

// ListToday returns the account's tasks due on the server's current
// calendar date.
func (t *Tasks) ListToday(account *models.Account) ([]*models.Task, error) {
	tasks, err := t.ListOwned(account)
	if err != nil {
		return nil, err
	}
	today := t.now().Format(DateLayout)
	var due []*models.Task
	for _, task := range tasks {
		if task.Date == today {
			due = append(due, task)
		}
	}
	return due, nil
}

// Add validates the input, creates the task, and appends its id to the
// account's ownership list. Both writes happen in one store transaction.
func (t *Tasks) Add(account *models.Account, in TaskInput) (*models.Task, error) {
	task, err := t.buildTask(in)
	if err != nil {
		return nil, err
	}
	task.ID = uuid.New()
	task.CreatedAt = t.now()

	if err := t.store.InsertTaskOwned(account.ID, task); err != nil {
		return nil, fmt.Errorf("error adding task: %w", err)
	}
	account.OwnedTaskIDs = append(account.OwnedTaskIDs, task.ID.String())
	return task, nil
}

// Get returns a single task by id, subject to the same ownership rules as
// Edit and Delete.
func (t *Tasks) Get(account *models.Account, taskID uuid.UUID) (*models.Task, error) {
	task, err := t.store.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if !account.OwnsTask(taskID) {
		return nil, ErrForbidden
	}
	return task, nil
}

// Edit replaces all five mutable fields of the task. The id and the
// ownership list are untouched. Editing a missing task yields ErrNotFound;
// editing someone else's task yields ErrForbidden.
func (t *Tasks) Edit(account *models.Account, taskID uuid.UUID, in TaskInput) (*models.Task, error) {
	updated, err := t.buildTask(in)
	if err != nil {
		return nil, err
	}

	existing, err := t.store.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if !account.OwnsTask(taskID) {
		return nil, ErrForbidden
	}

	existing.Title = updated.Title
	existing.Content = updated.Content
	existing.Label = updated.Label
	existing.Date = updated.Date
	existing.Time = updated.Time
	if err := t.store.UpdateTask(existing); err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return existing, nil
}

// Delete removes the task and prunes its id from the account's ownership
// list, preserving the order of the remaining ids. Deleting a missing task
// yields ErrNotFound; deleting someone else's task yields ErrForbidden.
func (t *Tasks) Delete(account *models.Account, taskID uuid.UUID) error {
	existing, err := t.store.GetTaskByID(taskID)
	if err != nil {
		return fmt.Errorf("error loading task: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if !account.OwnsTask(taskID) {
		return ErrForbidden
	}

	if err := t.store.DeleteTaskOwned(account.ID, taskID); err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}

	id := taskID.String()
	kept := account.OwnedTaskIDs[:0]
	for _, owned := range account.OwnedTaskIDs {
		if owned != id {
			kept = append(kept, owned)
		}
	}
	account.OwnedTaskIDs = kept
	return nil
}

// Search returns the account's tasks matching the query. Field "title" and
// "label" do a case-insensitive substring match; field "date" does an
// exact match against a validated calendar date.
func (t *Tasks) Search(account *models.Account, query, field string) ([]*models.Task, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationError("Please enter a search term.")
	}

	var match func(*models.Task) bool
	switch strings.ToLower(field) {
	case "title":
		needle := strings.ToLower(query)
		match = func(task *models.Task) bool {
			return strings.Contains(strings.ToLower(task.Title), needle)
		}
	case "label":
		needle := strings.ToLower(query)
		match = func(task *models.Task) bool {
			return strings.Contains(strings.ToLower(task.Label), needle)
		}
	case "date":
		canonical, err := CanonicalDate(query)
		if err != nil {
			return nil, err
		}
		match = func(task *models.Task) bool {
			return task.Date == canonical
		}
	default:
		return nil, validationError("Please pick a field to search by.")
	}

	tasks, err := t.ListOwned(account)
	if err != nil {
		return nil, err
	}
	var found []*models.Task
	for _, task := range tasks {
		if match(task) {
			found = append(found, task)
		}
	}
	return found, nil
}

func (t *Tasks) buildTask(in TaskInput) (*models.Task, error) {
	if in.Title == "" || in.Content == "" || in.Label == "" || in.Date == "" || in.Time == "" {
		return nil, validationError("Please fill all fields.")
	}
	date, err := CanonicalDate(in.Date)
	if err != nil {
		return nil, err
	}
	clock, err := CanonicalTime(in.Time)
	if err != nil {
		return nil, err
	}
	return &models.Task{
		Title:   in.Title,
		Content: in.Content,
		Label:   in.Label,
		Date:    date,
		Time:    clock,
	}, nil
}
