package audit

import (
	"errors"
	"fmt"
)

// ErrDuplicateID indicates an append with an ID that already exists.
// Appending is create-only; the original record is left untouched.
var ErrDuplicateID = errors.New("audit: record id already exists")

// StorageError wraps a backend failure.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// NewStorageError creates a storage error.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}
