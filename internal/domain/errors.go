package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific validation errors wrap it, so errors.Is(err, ErrValidation)
	// identifies every validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ErrValidation)

	// ErrInvalidQuality is returned when a review quality is outside [0, 5].
	ErrInvalidQuality = fmt.Errorf("%w: review quality must be between 0 and 5", ErrValidation)

	// ErrInvalidSnapshot is returned when an import document is missing a
	// required section or references entities it does not contain.
	ErrInvalidSnapshot = fmt.Errorf("%w: invalid snapshot", ErrValidation)

	// ErrUnauthenticated is returned when an operation requires an
	// authenticated owner and none is present.
	ErrUnauthenticated = errors.New("no authenticated user")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
