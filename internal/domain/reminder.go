package domain

import (
	"strings"
	"time"
)

// Reminder is a value: the With* methods return modified copies and never
// touch the receiver.
type Reminder struct {
	id       ReminderID
	title    string
	dueDate  time.Time
	notes    *string
	complete bool
}

func NewReminder(title string, dueDate time.Time, notes *string) (Reminder, error) {
	if strings.TrimSpace(title) == "" {
		return Reminder{}, ErrEmptyTitle
	}

	if dueDate.IsZero() {
		return Reminder{}, ErrMissingDueDate
	}

	return Reminder{
		id:      NewProvisionalReminderID(),
		title:   title,
		dueDate: dueDate,
		notes:   copyNotes(notes),
	}, nil
}

func Reconstitute(
	id ReminderID,
	title string,
	dueDate time.Time,
	notes *string,
	complete bool,
) Reminder {
	return Reminder{
		id:       id,
		title:    title,
		dueDate:  dueDate,
		notes:    copyNotes(notes),
		complete: complete,
	}
}

func (r Reminder) WithID(id ReminderID) Reminder {
	r.id = id

	return r
}

func (r Reminder) WithTitle(title string) (Reminder, error) {
	if strings.TrimSpace(title) == "" {
		return Reminder{}, ErrEmptyTitle
	}

	r.title = title

	return r, nil
}

func (r Reminder) WithDueDate(dueDate time.Time) (Reminder, error) {
	if dueDate.IsZero() {
		return Reminder{}, ErrMissingDueDate
	}

	r.dueDate = dueDate

	return r, nil
}

func (r Reminder) WithNotes(notes *string) Reminder {
	r.notes = copyNotes(notes)

	return r
}

func (r Reminder) WithComplete(complete bool) Reminder {
	r.complete = complete

	return r
}

func (r Reminder) ToggleComplete() Reminder {
	return r.WithComplete(!r.complete)
}

func (r Reminder) ID() ReminderID {
	return r.id
}

func (r Reminder) Title() string {
	return r.title
}

func (r Reminder) DueDate() time.Time {
	return r.dueDate
}

// Notes returns a copy; nil means the reminder has no notes.
func (r Reminder) Notes() *string {
	return copyNotes(r.notes)
}

func (r Reminder) IsComplete() bool {
	return r.complete
}

func copyNotes(notes *string) *string {
	if notes == nil {
		return nil
	}

	n := *notes

	return &n
}
