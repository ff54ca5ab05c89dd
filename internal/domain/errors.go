// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common validation errors for Task fields.
var (
	// ErrValidation is the root of all validation failures. Use errors.Is
	// with this sentinel to detect any validation error.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTitle is returned when a title is empty after trimming.
	ErrEmptyTitle = errors.New("title cannot be empty or whitespace only")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength.
	ErrTitleTooLong = fmt.Errorf("title cannot exceed %d characters", MaxTitleLength)

	// ErrEmptyDescription is returned when a description is empty after trimming.
	ErrEmptyDescription = errors.New("description cannot be empty or whitespace only")

	// ErrDescriptionTooLong is returned when a description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)

	// ErrInvalidTaskStatus is returned when a status is outside the enumerated set.
	ErrInvalidTaskStatus = errors.New("status must be one of: todo, in_progress, done")

	// ErrInvalidTaskPriority is returned when a priority is outside the enumerated set.
	ErrInvalidTaskPriority = errors.New("priority must be one of: low, medium, high")
)

// FieldError describes a single violated constraint on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated constraint from a single
// validation pass so callers can report all problems at once instead of
// only the first.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap returns ErrValidation so errors.Is(err, ErrValidation) matches.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError from the given field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidationError reports whether err is or wraps a validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
