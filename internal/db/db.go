package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoweb/internal/config"
	"todoweb/internal/db/models"
	"todoweb/internal/todo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for a unique-index conflict.
const uniqueViolation = "23505"

type DB struct {
	*pgxpool.Pool
}

func New(config config.Database) (*DB, error) {
	// Create a configuration object
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.DBName, config.SSLMode,
	))
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Configure connection pool and statement cache
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &DB{pool}, nil
}

// GetAccountByID retrieves an account by its id
func (db *DB) GetAccountByID(id uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, username, password_hash, owned_task_ids, created_at
		FROM accounts
		WHERE id = $1`

	account := &models.Account{}
	err := db.QueryRow(context.Background(), query, id.String()).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.OwnedTaskIDs,
		&account.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccountByUsername retrieves an account by exact username match
func (db *DB) GetAccountByUsername(username string) (*models.Account, error) {
	query := `
		SELECT id, username, password_hash, owned_task_ids, created_at
		FROM accounts
		WHERE username = $1`

	account := &models.Account{}
	err := db.QueryRow(context.Background(), query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.OwnedTaskIDs,
		&account.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CreateAccount inserts a new account. A unique-index conflict on the
// username maps to todo.ErrDuplicateUsername.
func (db *DB) CreateAccount(account *models.Account) error {
	query := `
		INSERT INTO accounts (id, username, password_hash, owned_task_ids, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := db.Exec(context.Background(), query,
		account.ID.String(),
		account.Username,
		account.PasswordHash,
		account.OwnedTaskIDs,
		account.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return todo.ErrDuplicateUsername
	}
	return err
}

// GetTaskByID retrieves a task by its id
func (db *DB) GetTaskByID(taskID uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, title, content, label, due_date, due_time, created_at
		FROM tasks
		WHERE id = $1`

	task := &models.Task{}
	err := db.QueryRow(context.Background(), query, taskID.String()).Scan(
		&task.ID,
		&task.Title,
		&task.Content,
		&task.Label,
		&task.Date,
		&task.Time,
		&task.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return task, err
}

// GetTasksByIDs retrieves the tasks whose ids appear in ids, ordered by
// due date then due time. Ids without a matching row are skipped.
func (db *DB) GetTasksByIDs(ids []string) ([]*models.Task, error) {
	query := `
		SELECT id, title, content, label, due_date, due_time, created_at
		FROM tasks
		WHERE id::text = ANY($1)
		ORDER BY due_date, due_time`

	rows, err := db.Query(context.Background(), query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Content,
			&task.Label,
			&task.Date,
			&task.Time,
			&task.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// InsertTaskOwned inserts a task and appends its id to the owner's
// ownership list in a single transaction, so a task is never visible
// without its owner link.
func (db *DB) InsertTaskOwned(accountID uuid.UUID, task *models.Task) error {
	ctx := context.Background()
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tasks (id, title, content, label, due_date, due_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID.String(),
		task.Title,
		task.Content,
		task.Label,
		task.Date,
		task.Time,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting task: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE accounts
		SET owned_task_ids = array_append(owned_task_ids, $1)
		WHERE id = $2`,
		task.ID.String(),
		accountID.String(),
	)
	if err != nil {
		return fmt.Errorf("error linking task to account: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateTask replaces the five mutable fields of a task
func (db *DB) UpdateTask(task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, content = $2, label = $3, due_date = $4, due_time = $5
		WHERE id = $6`

	_, err := db.Exec(context.Background(), query,
		task.Title,
		task.Content,
		task.Label,
		task.Date,
		task.Time,
		task.ID.String(),
	)
	return err
}

// DeleteTaskOwned deletes a task and removes its id from the owner's
// ownership list in a single transaction. array_remove keeps the
// remaining ids in their original order.
func (db *DB) DeleteTaskOwned(accountID, taskID uuid.UUID) error {
	ctx := context.Background()
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID.String())
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE accounts
		SET owned_task_ids = array_remove(owned_task_ids, $1)
		WHERE id = $2`,
		taskID.String(),
		accountID.String(),
	)
	if err != nil {
		return fmt.Errorf("error unlinking task from account: %w", err)
	}

	return tx.Commit(ctx)
}

// CreateSession inserts a new session token
func (db *DB) CreateSession(session *models.Session) error {
	query := `
		INSERT INTO sessions (token, account_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := db.Exec(context.Background(), query,
		session.Token.String(),
		session.AccountID.String(),
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

// GetSession retrieves a session by its token
func (db *DB) GetSession(token uuid.UUID) (*models.Session, error) {
	query := `
		SELECT token, account_id, expires_at, created_at
		FROM sessions
		WHERE token = $1`

	session := &models.Session{}
	err := db.QueryRow(context.Background(), query, token.String()).Scan(
		&session.Token,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// TouchSession slides a session's expiry forward
func (db *DB) TouchSession(token uuid.UUID, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET expires_at = $1
		WHERE token = $2`

	_, err := db.Exec(context.Background(), query, expiresAt, token.String())
	return err
}

// DeleteSession removes a session token. Deleting an absent token is not
// an error.
func (db *DB) DeleteSession(token uuid.UUID) error {
	query := `DELETE FROM sessions WHERE token = $1`

	_, err := db.Exec(context.Background(), query, token.String())
	return err
}

// DeleteExpiredSessions removes all sessions that expired at or before
// cutoff
func (db *DB) DeleteExpiredSessions(cutoff time.Time) error {
	query := `DELETE FROM sessions WHERE expires_at <= $1`

	_, err := db.Exec(context.Background(), query, cutoff)
	return err
}
