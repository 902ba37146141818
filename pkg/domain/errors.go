package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUser is returned when an operation needs a signed-in user and there is none.
	ErrNoUser = errors.New("no user found")

	// ErrNotFound is returned when a place or booking does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
