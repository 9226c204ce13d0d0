package todo

import (
	"fmt"
	"time"

	"todoweb/internal/db/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Directory resolves accounts by id or username and handles registration
// and password verification.
type Directory struct {
	store Store
}

func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// FindByID returns the account with the given id, or nil if there is none.
func (d *Directory) FindByID(id uuid.UUID) (*models.Account, error) {
	return d.store.GetAccountByID(id)
}

// FindByUsername returns the account with the given username (exact,
// case-sensitive match), or nil if there is none.
func (d *Directory) FindByUsername(username string) (*models.Account, error) {
	return d.store.GetAccountByUsername(username)
}

// Register creates a new account. The password is stored only as a bcrypt
// hash; the salt lives inside the hash, so two registrations with the same
// password produce different hashes that both verify.
func (d *Directory) Register(username, password, match string) (*models.Account, error) {
	if username == "" || password == "" || match == "" {
		return nil, validationError("Please fill all fields.")
	}
	if password != match {
		return nil, validationError("Password does not match.")
	}

	existing, err := d.store.GetAccountByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		OwnedTaskIDs: pq.StringArray{},
		CreatedAt:    time.Now(),
	}
	// The store's unique index backstops the lookup above against a
	// concurrent registration of the same name.
	if err := d.store.CreateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

// VerifyPassword reports whether plaintext matches the account's stored hash.
func (d *Directory) VerifyPassword(account *models.Account, plaintext string) bool {
	if account == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(plaintext)) == nil
}
