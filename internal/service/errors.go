package service

import (
	"errors"
	"fmt"
	"log/slog"
)

// Sentinels the API maps onto status codes. Match them with errors.Is.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDrift means a user's stored counters disagree with their cards.
	ErrDrift = errors.New("aggregate counters drifted")
)

// ServiceError records which service operation failed. It unwraps to the
// store or domain error underneath.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Operation + " failed: " + e.Message
	}
	return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

// failWith logs err at a level matching its kind and wraps it.
func failWith(log *slog.Logger, op, msg string, err error) error {
	if isExpected(err) {
		log.Debug(msg, slog.String("operation", op), slog.String("error", err.Error()))
	} else {
		log.Error(msg, slog.String("operation", op), slog.String("error", err.Error()))
	}
	return NewServiceError(op, msg, err)
}
