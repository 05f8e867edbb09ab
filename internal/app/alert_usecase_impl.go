package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
)

const DefaultSnoozeInterval = 10 * time.Minute

type alertUseCaseImpl struct {
	repo      ReminderRepository
	publisher pubsub.Publisher
	snooze    time.Duration
	clock     Clock

	mu      sync.Mutex
	lastRun time.Time
	// announced holds the ids already published for the window starting at
	// lastRun when an earlier dispatch of it failed part way.
	announced map[string]struct{}
}

// NewAlertUseCase starts the dispatch window at the clock's current time so
// reminders already overdue at startup are not announced.
func NewAlertUseCase(repo ReminderRepository, publisher pubsub.Publisher, snooze time.Duration, clock Clock) AlertUseCase {
	if clock == nil {
		clock = time.Now
	}

	if snooze <= 0 {
		snooze = DefaultSnoozeInterval
	}

	return &alertUseCaseImpl{
		repo:      repo,
		publisher: publisher,
		snooze:    snooze,
		clock:     clock,
		lastRun:   clock(),
		announced: make(map[string]struct{}),
	}
}

func (uc *alertUseCaseImpl) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !now.After(uc.lastRun) {
		return 0, nil
	}

	window := domain.DueWindow{After: uc.lastRun, Until: now}
	due := domain.DueForAlert(uc.repo.Snapshot(), window)

	slog.DebugContext(ctx, "dispatching due alerts",
		"after", window.After,
		"until", window.Until,
		"count", len(due),
	)

	if uc.publisher == nil {
		uc.lastRun = now

		return 0, nil
	}

	sent := 0
	for _, r := range due {
		if _, ok := uc.announced[r.ID().String()]; ok {
			continue
		}

		event := pubsub.DueAlertEvent{
			ReminderID: r.ID().String(),
			Title:      r.Title(),
			Body:       domain.DueText(r.DueDate(), now, domain.FilterAll),
			DueDate:    r.DueDate(),
			Category:   domain.AlertCategoryReminderDue,
			Actions: []string{
				string(domain.AlertActionComplete),
				string(domain.AlertActionSnooze),
			},
		}

		if err := uc.publisher.PublishDueAlert(ctx, event); err != nil {
			slog.ErrorContext(ctx, "failed to publish due alert",
				"error", err,
				"reminder_id", event.ReminderID,
			)

			// the window is kept so the remaining alerts go out next run
			return sent, fmt.Errorf("failed to publish due alert: %w", err)
		}

		uc.announced[event.ReminderID] = struct{}{}
		sent++
	}

	uc.lastRun = now
	clear(uc.announced)

	if sent > 0 {
		slog.InfoContext(ctx, "due alerts dispatched",
			"count", sent,
		)
	}

	return sent, nil
}

func (uc *alertUseCaseImpl) HandleAction(ctx context.Context, input AlertActionInput) (ReminderOutput, error) {
	action, err := domain.NewAlertAction(input.Action)
	if err != nil {
		return ReminderOutput{}, NewValidationError("action", err.Error())
	}

	id, err := parseReminderID(input.ReminderID)
	if err != nil {
		return ReminderOutput{}, err
	}

	reminder, err := uc.repo.Get(ctx, id)
	if err != nil {
		return ReminderOutput{}, err
	}

	slog.DebugContext(ctx, "handling alert action",
		"reminder_id", id.String(),
		"action", action,
	)

	var updated domain.Reminder

	switch action {
	case domain.AlertActionComplete:
		updated = reminder.WithComplete(true)
	case domain.AlertActionSnooze:
		base := reminder.DueDate()
		if now := uc.clock(); now.After(base) {
			base = now
		}

		updated, err = reminder.WithDueDate(base.Add(uc.snooze))
		if err != nil {
			return ReminderOutput{}, NewValidationError("due_date", err.Error())
		}
	default:
		return FromReminder(reminder), nil
	}

	if err := uc.repo.Update(ctx, updated); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.ErrorContext(ctx, "failed to apply alert action",
				"error", err,
				"reminder_id", id.String(),
				"action", action,
			)
		}

		return ReminderOutput{}, err
	}

	slog.InfoContext(ctx, "alert action applied",
		"reminder_id", id.String(),
		"action", action,
	)

	return FromReminder(updated), nil
}
