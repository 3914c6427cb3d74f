package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist or is not visible to the caller
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by repositories on unique constraint violations
	ErrDuplicate = errors.New("duplicate entry")
	// ErrForbidden is returned when the caller lacks the role or ownership for an action
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrAlreadyEnrolled is returned when a student enrolls in the same course twice
	ErrAlreadyEnrolled = errors.New("you are already enrolled in this course")
	// ErrCourseNotAvailable is returned for unpublished courses and reads like a missing course
	ErrCourseNotAvailable = errors.New("course not found")
	// ErrAlreadyCompleted is returned when a lesson was already completed within the enrollment
	ErrAlreadyCompleted = errors.New("lesson already completed")
	// ErrNotEnrolled is returned when a student completes a lesson of a course they are not enrolled in
	ErrNotEnrolled = errors.New("you are not enrolled in this course")
	// ErrInvalidCredentials is returned on failed login or refresh
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation is wrapped by every ValidationError
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries per-field messages
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
