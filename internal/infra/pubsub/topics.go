package pubsub

import "time"

const (
	TopicRemindersChanged = "reminders.changed"
	TopicStoreChanged     = "reminders.store_changed"
	TopicDueAlerts        = "reminders.alerts"
)

const (
	ReasonLoaded      = "loaded"
	ReasonAdded       = "added"
	ReasonUpdated     = "updated"
	ReasonDeleted     = "deleted"
	ReasonDayRollover = "day_rollover"
)

// ChangeEvent tells presentation subscribers to re-render.
type ChangeEvent struct {
	Reason     string    `json:"reason"`
	ReminderID string    `json:"reminder_id,omitempty"`
	Count      int       `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StoreChangedEvent reports an out-of-band mutation of the backing store.
type StoreChangedEvent struct {
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

type DueAlertEvent struct {
	ReminderID string    `json:"reminder_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	DueDate    time.Time `json:"due_date"`
	Category   string    `json:"category"`
	Actions    []string  `json:"actions"`
}
