package library

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is. The typed errors below carry the
// human readable message and unwrap to these.
var (
	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("duplicate")

	// ErrNotFound is returned when a referenced shelf, book or reservation is absent.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when user supplied input is malformed.
	ErrValidation = errors.New("validation failed")
)

// DuplicateError indicates a uniqueness violation (shelf number, shelf ID,
// book ID, or a book already present on a shelf).
type DuplicateError struct {
	Entity string // "shelf", "book", ...
	Field  string // offending field, e.g. "number"
	Value  any
	Detail string // optional override for the message
}

func (e *DuplicateError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("a %s with %s %v already exists", e.Entity, e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrDuplicate.
func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// NotFoundError indicates the referenced entity does not exist.
type NotFoundError struct {
	Entity string
	Field  string
	Value  any
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("no %s with %s %v", e.Entity, e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError indicates malformed input: a non-numeric aisle, a rayon that
// is not a single letter, or an empty required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsDuplicate reports whether err is (or wraps) a duplicate error.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
