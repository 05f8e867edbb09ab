package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=reminder_store.go -destination=reminder_store_mock.go -package=domain

type AccessState string

const (
	AccessUndetermined AccessState = "undetermined"
	AccessGranted      AccessState = "granted"
	AccessDenied       AccessState = "denied"
)

// StoreRecord is a raw item as held by the backing store. DueDate is nil for
// items the store keeps without a due date.
type StoreRecord struct {
	ID       string
	Title    string
	DueDate  *time.Time
	Notes    *string
	Complete bool
}

// ToReminder reports false for records that cannot be modeled as a Reminder.
func (s StoreRecord) ToReminder() (Reminder, bool) {
	if s.DueDate == nil || s.DueDate.IsZero() {
		return Reminder{}, false
	}

	id, err := ReminderIDFromString(s.ID)
	if err != nil {
		return Reminder{}, false
	}

	return Reconstitute(id, s.Title, *s.DueDate, s.Notes, s.Complete), true
}

// ReminderStore is the capability-gated system holding reminder records.
// Save with a zero ID creates a record and returns the assigned ID; Save with
// a non-zero ID replaces that record or fails with ErrReminderNotFound.
type ReminderStore interface {
	AuthorizationStatus(ctx context.Context) (AccessState, error)
	RequestAccess(ctx context.Context) (bool, error)
	QueryAll(ctx context.Context) ([]StoreRecord, error)
	Save(ctx context.Context, reminder Reminder) (ReminderID, error)
	Remove(ctx context.Context, id ReminderID) error
}
