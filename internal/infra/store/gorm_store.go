package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-today/internal/domain"
)

type gormStore struct {
	db        *gorm.DB
	principal string
	autoGrant bool
}

// NewGormStore keeps reminders in postgres. principal names the access grant
// row; autoGrant answers the first access request.
func NewGormStore(db *gorm.DB, principal string, autoGrant bool) domain.ReminderStore {
	return &gormStore{
		db:        db,
		principal: principal,
		autoGrant: autoGrant,
	}
}

func (s *gormStore) AuthorizationStatus(ctx context.Context) (domain.AccessState, error) {
	var grant AccessGrantModel

	result := s.db.WithContext(ctx).Where("principal = ?", s.principal).First(&grant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return domain.AccessUndetermined, nil
		}

		slog.Error("failed to read access grant",
			"principal", s.principal,
			"error", result.Error,
		)

		return domain.AccessUndetermined, result.Error
	}

	return domain.AccessState(grant.State), nil
}

func (s *gormStore) RequestAccess(ctx context.Context) (bool, error) {
	state := domain.AccessDenied
	if s.autoGrant {
		state = domain.AccessGranted
	}

	grant := AccessGrantModel{
		Principal: s.principal,
		State:     string(state),
		DecidedAt: time.Now(),
	}

	// an earlier decision wins
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
	if result.Error != nil {
		slog.Error("failed to record access grant",
			"principal", s.principal,
			"error", result.Error,
		)

		return false, result.Error
	}

	current, err := s.AuthorizationStatus(ctx)
	if err != nil {
		return false, err
	}

	slog.Debug("access grant recorded",
		"principal", s.principal,
		"state", current,
	)

	return current == domain.AccessGranted, nil
}

func (s *gormStore) QueryAll(ctx context.Context) ([]domain.StoreRecord, error) {
	var models []ReminderModel

	result := s.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		slog.Error("failed to query reminders",
			"error", result.Error,
		)

		return nil, result.Error
	}

	records := make([]domain.StoreRecord, 0, len(models))
	for i := range models {
		records = append(records, models[i].ToRecord())
	}

	slog.Debug("reminders queried from database",
		"count", len(records),
	)

	return records, nil
}

func (s *gormStore) Save(ctx context.Context, reminder domain.Reminder) (domain.ReminderID, error) {
	if reminder.ID().IsZero() {
		return s.create(ctx, reminder)
	}

	return s.update(ctx, reminder)
}

func (s *gormStore) create(ctx context.Context, reminder domain.Reminder) (domain.ReminderID, error) {
	m := FromReminder(reminder)
	m.ID = uuid.Must(uuid.NewV7()).String()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt

	slog.Debug("saving reminder to database",
		"reminder_id", m.ID,
	)

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		slog.Error("failed to save reminder to database",
			"reminder_id", m.ID,
			"error", err,
		)

		return domain.ReminderID{}, err
	}

	return domain.ReminderIDFromString(m.ID)
}

func (s *gormStore) update(ctx context.Context, reminder domain.Reminder) (domain.ReminderID, error) {
	id := reminder.ID()

	if _, err := uuid.Parse(id.String()); err != nil {
		return domain.ReminderID{}, domain.ErrReminderNotFound
	}

	slog.Debug("updating reminder in database",
		"reminder_id", id.String(),
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ReminderModel

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id.String()).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReminderNotFound
			}

			return err
		}

		m := FromReminder(reminder)

		return tx.Model(&ReminderModel{}).Where("id = ?", id.String()).Updates(map[string]any{
			"title":      m.Title,
			"due_date":   mergeDueDate(existing.DueDate, m.DueDate),
			"notes":      m.Notes,
			"complete":   m.Complete,
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		if !errors.Is(err, domain.ErrReminderNotFound) {
			slog.Error("failed to update reminder in database",
				"reminder_id", id.String(),
				"error", err,
			)
		}

		return domain.ReminderID{}, err
	}

	return id, nil
}

func (s *gormStore) Remove(ctx context.Context, id domain.ReminderID) error {
	if _, err := uuid.Parse(id.String()); err != nil {
		return domain.ErrReminderNotFound
	}

	slog.Debug("deleting reminder from database",
		"reminder_id", id.String(),
	)

	result := s.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&ReminderModel{})
	if result.Error != nil {
		slog.Error("failed to delete reminder from database",
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}
