package app

import (
	"time"

	"github.com/KasumiMercury/primind-today/internal/domain"
)

type ReminderOutput struct {
	ID       string
	Title    string
	DueDate  time.Time
	Notes    *string
	Complete bool
}

type RowOutput struct {
	ReminderOutput
	DueText string
}

type ListOutput struct {
	Filter          domain.Filter
	Rows            []RowOutput
	PercentComplete float64
	Access          domain.AccessState
}

type AccessOutput struct {
	State domain.AccessState
}

type AddOutput struct {
	Reminder ReminderOutput
	// FilteredIndex is nil when the new reminder is outside the projection.
	FilteredIndex *int
}

const (
	IconCalendar = "calendar.circle"
	IconClock    = "clock"
	IconNotes    = "square.and.pencil"
)

type DetailRow struct {
	Icon string
	Text string
}

type DetailOutput struct {
	Reminder ReminderOutput
	Rows     []DetailRow
}

type FieldKind string

const (
	FieldKindText      FieldKind = "text"
	FieldKindDate      FieldKind = "date"
	FieldKindMultiline FieldKind = "multiline"
)

type FieldDescriptor struct {
	Name  string
	Kind  FieldKind
	Label string
	Value string
}

type EditFormOutput struct {
	ReminderID string
	Complete   bool
	Fields     []FieldDescriptor
}

func FromReminder(r domain.Reminder) ReminderOutput {
	return ReminderOutput{
		ID:       r.ID().String(),
		Title:    r.Title(),
		DueDate:  r.DueDate(),
		Notes:    r.Notes(),
		Complete: r.IsComplete(),
	}
}

func FromReminders(reminders []domain.Reminder) []ReminderOutput {
	outputs := make([]ReminderOutput, 0, len(reminders))
	for _, r := range reminders {
		outputs = append(outputs, FromReminder(r))
	}

	return outputs
}
