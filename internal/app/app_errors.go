package app

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("reminder not found")

	ErrAccessDenied     = errors.New("reminder store access denied")
	ErrStoreUnavailable = errors.New("reminder store unavailable")
	ErrSaveFailed       = errors.New("failed to save reminder")
	ErrDeleteFailed     = errors.New("failed to delete reminder")

	// ErrIndexOutOfRange means the caller's row does not exist in the
	// projection it was derived from; it is a programming error.
	ErrIndexOutOfRange = errors.New("row index out of range")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError

	return errors.As(err, &validationErr)
}
