package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a keyed write targets a row that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrTimeout marks a backend call that exceeded its per-call deadline.
	ErrTimeout = errors.New("backend call timed out")
)

// BackendError wraps any failure reported by the remote store.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *BackendError) Unwrap() error { return e.Err }

// ValidationError is malformed input caught before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Reason }

func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
