package store

import (
	"errors"
	"fmt"

	"student-directory/internal/model"
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrNotFound        = errors.New("record not found")
	ErrNoPendingDelete = errors.New("no delete is pending confirmation")
	ErrDeleteInFlight  = errors.New("a delete is already in flight")
	ErrTokenMismatch   = errors.New("confirmation token does not match the pending delete")
	ErrInvalidPage     = errors.New("page index must not be negative")
	ErrInvalidPageSize = errors.New("page size must be one of 10, 25 or 100")

	errMissingID = errors.New("remote returned a record without an id")
)

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"

	LoadFailureMessage = "Failed to load users. Please try again later."
)

var mutationFailureMessages = map[string]string{
	OpCreate: "Failed to add user. Please try again.",
	OpUpdate: "Failed to update user. Please try again.",
	OpDelete: "Failed to delete user. Please try again.",
}

// LoadError reports a failed list call. It is shown as a dismissible banner.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return "loading users: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// MutationError reports a failed create, update or delete. It is shown as a
// blocking alert until acknowledged.
type MutationError struct {
	Op  string
	ID  model.RecordID
	Err error
}

func (e *MutationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s user: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s user %s: %v", e.Op, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
