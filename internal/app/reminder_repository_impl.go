package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
)

type reminderRepositoryImpl struct {
	store     domain.ReminderStore
	publisher pubsub.Publisher
	timeout   time.Duration

	// accessMu serializes authorization so only one request is issued.
	accessMu sync.Mutex

	mu        sync.RWMutex
	reminders []domain.Reminder
	access    domain.AccessState
	applied   uint64

	tickets atomic.Uint64
}

// NewReminderRepository bounds every store call by storeTimeout when it is
// positive. publisher may be nil.
func NewReminderRepository(store domain.ReminderStore, publisher pubsub.Publisher, storeTimeout time.Duration) ReminderRepository {
	return &reminderRepositoryImpl{
		store:     store,
		publisher: publisher,
		timeout:   storeTimeout,
		access:    domain.AccessUndetermined,
	}
}

func (r *reminderRepositoryImpl) LoadAll(ctx context.Context) (LoadOutput, error) {
	ticket := r.tickets.Add(1)

	slog.DebugContext(ctx, "loading reminders", "ticket", ticket)

	access, err := r.resolveAccess(ctx)
	if err != nil {
		return LoadOutput{}, err
	}

	if access != domain.AccessGranted {
		slog.InfoContext(ctx, "reminder store access not granted, clearing collection",
			"access", access,
		)

		stale := !r.apply(ticket, []domain.Reminder{})
		if !stale {
			r.notify(ctx, pubsub.ChangeEvent{Reason: pubsub.ReasonLoaded})
		}

		return LoadOutput{Reminders: []domain.Reminder{}, Access: access, Stale: stale}, nil
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	records, err := r.store.QueryAll(callCtx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query reminders",
			"error", err,
		)

		return LoadOutput{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	loaded := make([]domain.Reminder, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		reminder, ok := rec.ToReminder()
		if !ok {
			slog.DebugContext(ctx, "skipping store record without due date",
				"record_id", rec.ID,
			)

			continue
		}

		if _, dup := seen[reminder.ID().String()]; dup {
			slog.WarnContext(ctx, "skipping duplicate store record",
				"reminder_id", reminder.ID().String(),
			)

			continue
		}

		seen[reminder.ID().String()] = struct{}{}
		loaded = append(loaded, reminder)
	}

	if !r.apply(ticket, loaded) {
		slog.InfoContext(ctx, "discarding stale load result", "ticket", ticket)

		return LoadOutput{Reminders: r.Snapshot(), Access: access, Stale: true}, nil
	}

	slog.DebugContext(ctx, "reminders loaded",
		"count", len(loaded),
		"skipped", len(records)-len(loaded),
	)

	r.notify(ctx, pubsub.ChangeEvent{Reason: pubsub.ReasonLoaded, Count: len(loaded)})

	return LoadOutput{Reminders: cloneReminders(loaded), Access: access}, nil
}

func (r *reminderRepositoryImpl) Get(_ context.Context, id domain.ReminderID) (domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := indexOf(r.reminders, id)
	if idx < 0 {
		return domain.Reminder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return r.reminders[idx], nil
}

func (r *reminderRepositoryImpl) Add(ctx context.Context, reminder domain.Reminder) (domain.Reminder, error) {
	slog.DebugContext(ctx, "adding reminder",
		"provisional_id", reminder.ID().String(),
	)

	if err := r.requireAccess(ctx); err != nil {
		return domain.Reminder{}, err
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	id, err := r.store.Save(callCtx, reminder.WithID(domain.ReminderID{}))
	if err != nil {
		slog.ErrorContext(ctx, "failed to save new reminder",
			"error", err,
		)

		return domain.Reminder{}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	saved := reminder.WithID(id)

	r.mu.Lock()
	kept := removeByID(r.reminders, id)
	r.reminders = append([]domain.Reminder{saved}, kept...)
	r.applied = r.tickets.Add(1)
	count := len(r.reminders)
	r.mu.Unlock()

	slog.InfoContext(ctx, "reminder added",
		"reminder_id", id.String(),
	)

	r.notify(ctx, pubsub.ChangeEvent{Reason: pubsub.ReasonAdded, ReminderID: id.String(), Count: count})

	return saved, nil
}

func (r *reminderRepositoryImpl) Update(ctx context.Context, reminder domain.Reminder) error {
	id := reminder.ID()

	slog.DebugContext(ctx, "updating reminder",
		"reminder_id", id.String(),
	)

	r.mu.RLock()
	known := indexOf(r.reminders, id) >= 0
	r.mu.RUnlock()

	if !known {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := r.requireAccess(ctx); err != nil {
		return err
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	if _, err := r.store.Save(callCtx, reminder); err != nil {
		if errors.Is(err, domain.ErrReminderNotFound) {
			slog.WarnContext(ctx, "reminder missing from store on update",
				"reminder_id", id.String(),
			)

			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		slog.ErrorContext(ctx, "failed to save reminder",
			"error", err,
			"reminder_id", id.String(),
		)

		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	r.mu.Lock()
	if idx := indexOf(r.reminders, id); idx >= 0 {
		r.reminders[idx] = reminder
	} else {
		r.reminders = append([]domain.Reminder{reminder}, r.reminders...)
	}
	r.applied = r.tickets.Add(1)
	count := len(r.reminders)
	r.mu.Unlock()

	slog.InfoContext(ctx, "reminder updated",
		"reminder_id", id.String(),
		"complete", reminder.IsComplete(),
	)

	r.notify(ctx, pubsub.ChangeEvent{Reason: pubsub.ReasonUpdated, ReminderID: id.String(), Count: count})

	return nil
}

func (r *reminderRepositoryImpl) Delete(ctx context.Context, id domain.ReminderID) error {
	slog.DebugContext(ctx, "deleting reminder",
		"reminder_id", id.String(),
	)

	r.mu.RLock()
	known := indexOf(r.reminders, id) >= 0
	r.mu.RUnlock()

	if !known {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := r.requireAccess(ctx); err != nil {
		return err
	}

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	if err := r.store.Remove(callCtx, id); err != nil {
		if errors.Is(err, domain.ErrReminderNotFound) {
			slog.WarnContext(ctx, "reminder missing from store on delete",
				"reminder_id", id.String(),
			)

			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		slog.ErrorContext(ctx, "failed to remove reminder from store",
			"error", err,
			"reminder_id", id.String(),
		)

		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	r.mu.Lock()
	r.reminders = removeByID(r.reminders, id)
	r.applied = r.tickets.Add(1)
	count := len(r.reminders)
	r.mu.Unlock()

	slog.InfoContext(ctx, "reminder deleted",
		"reminder_id", id.String(),
	)

	r.notify(ctx, pubsub.ChangeEvent{Reason: pubsub.ReasonDeleted, ReminderID: id.String(), Count: count})

	return nil
}

func (r *reminderRepositoryImpl) Snapshot() []domain.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneReminders(r.reminders)
}

func (r *reminderRepositoryImpl) AccessState() domain.AccessState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.access
}

func (r *reminderRepositoryImpl) RequestAccess(ctx context.Context) (domain.AccessState, error) {
	return r.resolveAccess(ctx)
}

func (r *reminderRepositoryImpl) Watch(ctx context.Context, events <-chan pubsub.StoreChangedEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}

			slog.DebugContext(ctx, "store changed, reloading",
				"source", ev.Source,
			)

			if _, err := r.LoadAll(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to reload after store change",
					"error", err,
					"source", ev.Source,
				)
			}
		}
	}
}

// resolveAccess returns the current authorization, issuing a single access
// request while it is undetermined.
func (r *reminderRepositoryImpl) resolveAccess(ctx context.Context) (domain.AccessState, error) {
	r.accessMu.Lock()
	defer r.accessMu.Unlock()

	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	status, err := r.store.AuthorizationStatus(callCtx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read store authorization status",
			"error", err,
		)

		return domain.AccessUndetermined, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if status == domain.AccessUndetermined {
		granted, err := r.store.RequestAccess(callCtx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to request store access",
				"error", err,
			)

			return domain.AccessUndetermined, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		status = domain.AccessDenied
		if granted {
			status = domain.AccessGranted
		}

		slog.InfoContext(ctx, "store access requested",
			"access", status,
		)
	}

	r.mu.Lock()
	r.access = status
	r.mu.Unlock()

	return status, nil
}

func (r *reminderRepositoryImpl) requireAccess(ctx context.Context) error {
	access, err := r.resolveAccess(ctx)
	if err != nil {
		return err
	}

	if access != domain.AccessGranted {
		return ErrAccessDenied
	}

	return nil
}

// apply replaces the collection with a private copy of reminders unless a
// newer load or mutation already landed.
func (r *reminderRepositoryImpl) apply(ticket uint64, reminders []domain.Reminder) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ticket < r.applied {
		return false
	}

	r.reminders = cloneReminders(reminders)
	r.applied = ticket

	return true
}

func (r *reminderRepositoryImpl) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, r.timeout)
}

func (r *reminderRepositoryImpl) notify(ctx context.Context, event pubsub.ChangeEvent) {
	if r.publisher == nil {
		return
	}

	event.OccurredAt = time.Now()

	if err := r.publisher.PublishRemindersChanged(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish reminders changed event",
			"reason", event.Reason,
			"error", err.Error(),
		)
	}
}

func indexOf(reminders []domain.Reminder, id domain.ReminderID) int {
	for i, r := range reminders {
		if r.ID().Equals(id) {
			return i
		}
	}

	return -1
}

func removeByID(reminders []domain.Reminder, id domain.ReminderID) []domain.Reminder {
	kept := make([]domain.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !r.ID().Equals(id) {
			kept = append(kept, r)
		}
	}

	return kept
}

func cloneReminders(reminders []domain.Reminder) []domain.Reminder {
	out := make([]domain.Reminder, len(reminders))
	copy(out, reminders)

	return out
}
