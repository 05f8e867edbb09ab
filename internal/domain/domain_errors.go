package domain

import "errors"

var (
	ErrReminderNotFound = errors.New("reminder not found")

	ErrInvalidReminderID  = errors.New("invalid reminder ID")
	ErrEmptyTitle         = errors.New("reminder title cannot be empty")
	ErrMissingDueDate     = errors.New("reminder due date is required")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidAlertAction = errors.New("invalid alert action")

	ErrIndexOutOfRange = errors.New("filtered index out of range")
)
