package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist. It is
// terminal with respect to the retry policy: its text matches no transient
// marker.
var ErrNotFound = errors.New("not found")

// ValidationError reports an invalid entity field. Validation failures are
// detected before any database call, so they never consume a retry.
type ValidationError struct {
	// Entity is the entity kind ("document", "risk", ...).
	Entity string

	// Field is the invalid field name.
	Field string

	// Message describes what is invalid.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Message)
}

// StorageError wraps a failure from a storage backend with the operation
// that produced it.
type StorageError struct {
	// Op is the storage operation ("create_document", "list_risks", ...).
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *StorageError) Unwrap() error {
	return e.Cause
}
