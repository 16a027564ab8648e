package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// UnknownFieldError is returned when a request names a story field that is
// not present in the catalog. It unwraps to ErrValidation so callers can
// reject the request without touching state.
type UnknownFieldError struct {
	FieldID string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown story field %q", e.FieldID)
}

func (e *UnknownFieldError) Unwrap() error { return ErrValidation }

// NewUnknownFieldError creates an UnknownFieldError for the given field ID.
func NewUnknownFieldError(fieldID string) *UnknownFieldError {
	return &UnknownFieldError{FieldID: fieldID}
}
