package domain

import (
	"strings"

	"github.com/google/uuid"
)

const provisionalPrefix = "provisional-"

// ReminderID is assigned by the backing store. Drafts carry a provisional
// value until their first successful save.
type ReminderID struct {
	value string
}

func NewProvisionalReminderID() ReminderID {
	return ReminderID{value: provisionalPrefix + uuid.NewString()}
}

func ReminderIDFromString(s string) (ReminderID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ReminderID{}, ErrInvalidReminderID
	}

	return ReminderID{value: s}, nil
}

func (r ReminderID) String() string {
	return r.value
}

func (r ReminderID) IsZero() bool {
	return r.value == ""
}

func (r ReminderID) IsProvisional() bool {
	return strings.HasPrefix(r.value, provisionalPrefix)
}

func (r ReminderID) Equals(other ReminderID) bool {
	return r.value == other.value
}
