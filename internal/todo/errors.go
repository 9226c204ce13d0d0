package todo

import "errors"

var (
	// ErrDuplicateUsername is returned by Register when the username is taken.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials is returned by Login when the username or
	// password does not match a registered account.
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// ErrUnauthenticated is returned when an operation requires a logged-in
	// account and the session token resolves to nobody.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrNotFound is returned when a task id has no matching record.
	ErrNotFound = errors.New("task not found")

	// ErrForbidden is returned when a task exists but belongs to a
	// different account than the caller.
	ErrForbidden = errors.New("task belongs to another account")
)

// ValidationError reports missing or malformed input. The message is meant
// to be shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
