package errors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the tracking core. Service errors wrap one of these
// so callers can classify them with errors.Is.
var (
	ErrNotFound                = errors.New("record not found")
	ErrConflictActiveWorkItem  = errors.New("worker already has an open work item")
	ErrConflictActiveStoppage  = errors.New("worker already has an open stoppage")
	ErrConflictInvalidDuration = errors.New("elapsed time must be positive")
	ErrPreconditionFailed      = errors.New("precondition failed")
	ErrFormulaEvaluation       = errors.New("formula evaluation failed")
)

// StorageError wraps a persistence failure. The core never retries it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError; nil stays nil and errors that are
// already classified are returned unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err carries a StorageError
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
