package store

import (
	"errors"
	"fmt"
)

// Generic sentinels. Implementations return the entity-specific variants
// below, which wrap these, so callers may match at either level.
var (
	// ErrNotFound covers both a missing row and a row owned by someone
	// else. Callers cannot tell the two apart.
	ErrNotFound = errors.New("entity not found")

	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity marks a write rejected by a constraint or a stored
	// row that no longer decodes.
	ErrInvalidEntity = errors.New("invalid entity")

	ErrTransactionFailed = errors.New("transaction failed")
)

var (
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	ErrDeckNotFound = fmt.Errorf("%w: deck", ErrNotFound)
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)
	ErrEmailExists  = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err wraps ErrNotFound.
func IsNotFoundError(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicateError reports whether err wraps ErrDuplicate.
func IsDuplicateError(err error) bool { return errors.Is(err, ErrDuplicate) }

// StoreError annotates a driver failure with the entity and operation that
// hit it. Err is usually already mapped onto one of the sentinels above.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := e.Operation + " " + e.Entity + " failed: " + e.Message
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError builds a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
