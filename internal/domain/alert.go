package domain

import (
	"fmt"
	"time"
)

const AlertCategoryReminderDue = "REMINDER_DUE_CATEGORY"

type AlertAction string

const (
	AlertActionDefault  AlertAction = "DEFAULT_ACTION"
	AlertActionComplete AlertAction = "COMPLETE_ACTION"
	AlertActionSnooze   AlertAction = "SNOOZE_ACTION"
)

func NewAlertAction(a string) (AlertAction, error) {
	switch a {
	case string(AlertActionDefault), string(AlertActionComplete), string(AlertActionSnooze):
		return AlertAction(a), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidAlertAction, a)
	}
}

// DueWindow is the half-open interval (After, Until].
type DueWindow struct {
	After time.Time
	Until time.Time
}

func (w DueWindow) Contains(t time.Time) bool {
	return t.After(w.After) && !t.After(w.Until)
}

// DueForAlert returns the incomplete reminders whose due date falls in w,
// ordered by due date.
func DueForAlert(reminders []Reminder, w DueWindow) []Reminder {
	due := make([]Reminder, 0)
	for _, r := range Project(reminders, FilterAll, w.Until) {
		if !r.IsComplete() && w.Contains(r.DueDate()) {
			due = append(due, r)
		}
	}

	return due
}
