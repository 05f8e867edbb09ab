package app

import "time"

type ListInput struct {
	Filter string
}

// RowInput addresses a reminder by its position in the filtered projection.
type RowInput struct {
	Filter string
	Row    int
}

type AddInput struct {
	Filter  string
	Title   string
	DueDate time.Time
	Notes   *string
}

type EditInput struct {
	ID       string
	Title    string
	DueDate  time.Time
	Notes    *string
	Complete bool
}

type AlertActionInput struct {
	ReminderID string
	Action     string
}
