package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-today/internal/domain"
)

type reminderListImpl struct {
	repo  ReminderRepository
	clock Clock
}

// NewReminderList uses time.Now when clock is nil.
func NewReminderList(repo ReminderRepository, clock Clock) ReminderList {
	if clock == nil {
		clock = time.Now
	}

	return &reminderListImpl{
		repo:  repo,
		clock: clock,
	}
}

func (uc *reminderListImpl) List(ctx context.Context, input ListInput) (ListOutput, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return ListOutput{}, err
	}

	return uc.project(uc.repo.Snapshot(), filter, uc.repo.AccessState()), nil
}

func (uc *reminderListImpl) Reload(ctx context.Context, input ListInput) (ListOutput, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return ListOutput{}, err
	}

	loaded, err := uc.repo.LoadAll(ctx)
	if err != nil {
		return ListOutput{}, err
	}

	return uc.project(loaded.Reminders, filter, loaded.Access), nil
}

func (uc *reminderListImpl) ToggleComplete(ctx context.Context, input RowInput) (ReminderOutput, error) {
	target, err := uc.atRow(ctx, input)
	if err != nil {
		return ReminderOutput{}, err
	}

	toggled := target.ToggleComplete()
	if err := uc.repo.Update(ctx, toggled); err != nil {
		return ReminderOutput{}, err
	}

	return FromReminder(toggled), nil
}

func (uc *reminderListImpl) DeleteAt(ctx context.Context, input RowInput) error {
	target, err := uc.atRow(ctx, input)
	if err != nil {
		return err
	}

	return uc.repo.Delete(ctx, target.ID())
}

func (uc *reminderListImpl) Add(ctx context.Context, input AddInput) (AddOutput, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return AddOutput{}, err
	}

	reminder, err := newReminder(input.Title, input.DueDate, input.Notes)
	if err != nil {
		return AddOutput{}, err
	}

	saved, err := uc.repo.Add(ctx, reminder)
	if err != nil {
		return AddOutput{}, err
	}

	output := AddOutput{Reminder: FromReminder(saved)}

	if idx, ok := domain.IndexInProjection(saved.ID(), uc.repo.Snapshot(), filter, uc.clock()); ok {
		output.FilteredIndex = &idx
	}

	return output, nil
}

func (uc *reminderListImpl) Edit(ctx context.Context, input EditInput) (ReminderOutput, error) {
	id, err := parseReminderID(input.ID)
	if err != nil {
		return ReminderOutput{}, err
	}

	if _, err := uc.repo.Get(ctx, id); err != nil {
		return ReminderOutput{}, err
	}

	draft, err := newReminder(input.Title, input.DueDate, input.Notes)
	if err != nil {
		return ReminderOutput{}, err
	}

	edited := draft.WithID(id).WithComplete(input.Complete)
	if err := uc.repo.Update(ctx, edited); err != nil {
		return ReminderOutput{}, err
	}

	return FromReminder(edited), nil
}

func (uc *reminderListImpl) Get(ctx context.Context, id string) (ReminderOutput, error) {
	reminder, err := uc.lookup(ctx, id)
	if err != nil {
		return ReminderOutput{}, err
	}

	return FromReminder(reminder), nil
}

func (uc *reminderListImpl) Delete(ctx context.Context, id string) error {
	reminderID, err := parseReminderID(id)
	if err != nil {
		return err
	}

	return uc.repo.Delete(ctx, reminderID)
}

func (uc *reminderListImpl) Detail(ctx context.Context, id string) (DetailOutput, error) {
	reminder, err := uc.lookup(ctx, id)
	if err != nil {
		return DetailOutput{}, err
	}

	now := uc.clock()
	rows := []DetailRow{
		{Text: reminder.Title()},
		{Icon: IconCalendar, Text: domain.DayText(reminder.DueDate(), now)},
		{Icon: IconClock, Text: domain.TimeText(reminder.DueDate(), now)},
	}

	if notes := reminder.Notes(); notes != nil {
		rows = append(rows, DetailRow{Icon: IconNotes, Text: *notes})
	}

	return DetailOutput{
		Reminder: FromReminder(reminder),
		Rows:     rows,
	}, nil
}

func (uc *reminderListImpl) EditForm(ctx context.Context, id string) (EditFormOutput, error) {
	reminder, err := uc.lookup(ctx, id)
	if err != nil {
		return EditFormOutput{}, err
	}

	local := reminder.DueDate().In(uc.clock().Location())

	notes := ""
	if n := reminder.Notes(); n != nil {
		notes = *n
	}

	return EditFormOutput{
		ReminderID: reminder.ID().String(),
		Complete:   reminder.IsComplete(),
		Fields: []FieldDescriptor{
			{Name: "title", Kind: FieldKindText, Label: "Title", Value: reminder.Title()},
			{
				Name:  "due_date",
				Kind:  FieldKindDate,
				Label: local.Format(domain.LongDateLayout) + " " + local.Format(domain.ShortTimeLayout),
				Value: local.Format(time.RFC3339),
			},
			{Name: "notes", Kind: FieldKindMultiline, Label: "Notes", Value: notes},
		},
	}, nil
}

func (uc *reminderListImpl) Access(_ context.Context) AccessOutput {
	return AccessOutput{State: uc.repo.AccessState()}
}

func (uc *reminderListImpl) RequestAccess(ctx context.Context) (AccessOutput, error) {
	state, err := uc.repo.RequestAccess(ctx)
	if err != nil {
		return AccessOutput{}, err
	}

	if state == domain.AccessGranted {
		loaded, err := uc.repo.LoadAll(ctx)
		if err != nil {
			return AccessOutput{}, err
		}

		state = loaded.Access
	}

	return AccessOutput{State: state}, nil
}

func (uc *reminderListImpl) project(reminders []domain.Reminder, filter domain.Filter, access domain.AccessState) ListOutput {
	now := uc.clock()
	projected := domain.Project(reminders, filter, now)

	rows := make([]RowOutput, 0, len(projected))
	for _, r := range projected {
		rows = append(rows, RowOutput{
			ReminderOutput: FromReminder(r),
			DueText:        domain.DueText(r.DueDate(), now, filter),
		})
	}

	return ListOutput{
		Filter:          filter,
		Rows:            rows,
		PercentComplete: domain.PercentComplete(projected),
		Access:          access,
	}
}

func (uc *reminderListImpl) atRow(ctx context.Context, input RowInput) (domain.Reminder, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return domain.Reminder{}, err
	}

	snapshot := uc.repo.Snapshot()

	idx, err := domain.IndexInSource(input.Row, snapshot, filter, uc.clock())
	if err != nil {
		slog.ErrorContext(ctx, "row does not map to a reminder",
			"row", input.Row,
			"filter", filter,
			"count", len(snapshot),
		)

		return domain.Reminder{}, fmt.Errorf("%w: row %d", ErrIndexOutOfRange, input.Row)
	}

	return snapshot[idx], nil
}

func (uc *reminderListImpl) lookup(ctx context.Context, id string) (domain.Reminder, error) {
	reminderID, err := parseReminderID(id)
	if err != nil {
		return domain.Reminder{}, err
	}

	return uc.repo.Get(ctx, reminderID)
}

func parseFilter(raw string) (domain.Filter, error) {
	if raw == "" {
		return domain.FilterToday, nil
	}

	filter, err := domain.NewFilter(raw)
	if err != nil {
		return "", NewValidationError("filter", err.Error())
	}

	return filter, nil
}

func parseReminderID(raw string) (domain.ReminderID, error) {
	id, err := domain.ReminderIDFromString(raw)
	if err != nil {
		return domain.ReminderID{}, NewValidationError("id", err.Error())
	}

	return id, nil
}

func newReminder(title string, due time.Time, notes *string) (domain.Reminder, error) {
	reminder, err := domain.NewReminder(title, due, notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyTitle):
			return domain.Reminder{}, NewValidationError("title", err.Error())
		case errors.Is(err, domain.ErrMissingDueDate):
			return domain.Reminder{}, NewValidationError("due_date", err.Error())
		default:
			return domain.Reminder{}, NewValidationError("reminder", err.Error())
		}
	}

	return reminder, nil
}
