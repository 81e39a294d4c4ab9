package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")

	// ErrSessionExists is returned when a seeker already holds a session in
	// a live state (requested, matched, or active).
	ErrSessionExists = errors.New("seeker already has a live session")

	// ErrCounselorBusy is returned when a counselor is at the concurrent
	// session cap at the moment of assignment.
	ErrCounselorBusy = errors.New("counselor at session capacity")

	// ErrAlreadyEnded signals an end request against a terminal session.
	// Callers treat it as an idempotent no-op, not a failure.
	ErrAlreadyEnded = errors.New("session already ended")

	// ErrBanned is returned for any request from a banned actor.
	ErrBanned = errors.New("actor is banned")

	// ErrRateLimited is returned when an actor exceeds the sliding-window
	// allowance for an action.
	ErrRateLimited = errors.New("rate limited")
)

// RateLimitError reports a denied action and how long the actor must wait
// before it is allowed again.
type RateLimitError struct {
	Action     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited, retry in %s", e.Action, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
