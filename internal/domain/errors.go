package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no exercise has the requested id
	ErrNotFound = errors.New("exercise not found")

	// ErrMalformedStorage marks persisted data that could not be decoded.
	// The store recovers from it and never returns it to callers.
	ErrMalformedStorage = errors.New("malformed storage")
)

// ValidationError reports a missing required field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
