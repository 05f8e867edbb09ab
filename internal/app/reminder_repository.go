package app

import (
	"context"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
)

// ReminderRepository owns the in-memory backing collection of reminders and
// is the only path through which it changes.
type ReminderRepository interface {
	LoadAll(ctx context.Context) (LoadOutput, error)
	Get(ctx context.Context, id domain.ReminderID) (domain.Reminder, error)
	Add(ctx context.Context, reminder domain.Reminder) (domain.Reminder, error)
	Update(ctx context.Context, reminder domain.Reminder) error
	Delete(ctx context.Context, id domain.ReminderID) error

	Snapshot() []domain.Reminder
	AccessState() domain.AccessState
	RequestAccess(ctx context.Context) (domain.AccessState, error)

	// Watch reloads the collection for every store change event until ctx
	// is cancelled or events is closed.
	Watch(ctx context.Context, events <-chan pubsub.StoreChangedEvent) error
}

type LoadOutput struct {
	Reminders []domain.Reminder
	Access    domain.AccessState
	// Stale is set when a newer load or mutation landed first and this
	// result was discarded.
	Stale bool
}
