package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Not-found errors. Each wraps ErrResourceNotFound so handlers can map them uniformly.
var (
	ErrCourseNotFound  = fmt.Errorf("course %w", ErrResourceNotFound)
	ErrStudentNotFound = fmt.Errorf("student %w", ErrResourceNotFound)
)

// Outcome graph and grade errors. Each wraps ErrValidationFailed.
var (
	ErrInvalidWeight       = fmt.Errorf("%w: link weight must be between 1 and 5", ErrValidationFailed)
	ErrInvalidGradePayload = fmt.Errorf("%w: grades must be an object", ErrValidationFailed)
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError carries a user-facing message while still matching its
// sentinel through errors.Is.
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
