// Package apperr defines the failure taxonomy shared by the store,
// the atomic writer, and every collaborator-facing surface.
package apperr

import "errors"

var (
	// ErrValidation is returned when a field fails a store-side constraint.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an operation references a missing record.
	ErrNotFound = errors.New("not found")
	// ErrBusy is returned when the store's write-lock wait times out.
	ErrBusy = errors.New("store busy")
	// ErrUnavailable is returned when the store file is inaccessible.
	ErrUnavailable = errors.New("store unavailable")
	// ErrConflict is returned when a checksum precondition fails.
	ErrConflict = errors.New("conflict")
)

// FieldError carries the offending field alongside ErrValidation so
// callers can render corrective guidance.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Reason }

func (e *FieldError) Unwrap() error { return ErrValidation }
