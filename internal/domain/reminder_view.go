package domain

import (
	"sort"
	"time"
)

// Project filters reminders for the given filter and orders them by due date.
// Reminders sharing a due date keep their backing-collection order.
func Project(reminders []Reminder, filter Filter, now time.Time) []Reminder {
	projected := make([]Reminder, 0, len(reminders))
	for _, r := range reminders {
		if filter.ShouldInclude(r.DueDate(), now) {
			projected = append(projected, r)
		}
	}

	sort.SliceStable(projected, func(i, j int) bool {
		return projected[i].DueDate().Before(projected[j].DueDate())
	})

	return projected
}

// PercentComplete is 1 for an empty projection.
func PercentComplete(projected []Reminder) float64 {
	if len(projected) == 0 {
		return 1
	}

	complete := 0
	for _, r := range projected {
		if r.IsComplete() {
			complete++
		}
	}

	return float64(complete) / float64(len(projected))
}

// IndexInSource maps a position in the projection back to the position of
// the same reminder in reminders.
func IndexInSource(filteredIndex int, reminders []Reminder, filter Filter, now time.Time) (int, error) {
	projected := Project(reminders, filter, now)
	if filteredIndex < 0 || filteredIndex >= len(projected) {
		return -1, ErrIndexOutOfRange
	}

	target := projected[filteredIndex].ID()
	for i, r := range reminders {
		if r.ID().Equals(target) {
			return i, nil
		}
	}

	return -1, ErrIndexOutOfRange
}

// IndexInProjection returns the position of id in the projection, or false
// when the reminder is filtered out.
func IndexInProjection(id ReminderID, reminders []Reminder, filter Filter, now time.Time) (int, bool) {
	for i, r := range Project(reminders, filter, now) {
		if r.ID().Equals(id) {
			return i, true
		}
	}

	return -1, false
}
