package store

import (
	"time"

	"github.com/KasumiMercury/primind-today/internal/domain"
)

type ReminderModel struct {
	ID        string     `gorm:"column:id;type:uuid;primaryKey"`
	Title     string     `gorm:"column:title;type:varchar(512);not null"`
	DueDate   *time.Time `gorm:"column:due_date;type:timestamptz;index:idx_reminders_due_date"`
	Notes     *string    `gorm:"column:notes;type:text"`
	Complete  bool       `gorm:"column:complete;type:boolean;not null;default:false"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt time.Time  `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (ReminderModel) TableName() string {
	return "reminders"
}

func (m *ReminderModel) ToRecord() domain.StoreRecord {
	return domain.StoreRecord{
		ID:       m.ID,
		Title:    m.Title,
		DueDate:  m.DueDate,
		Notes:    m.Notes,
		Complete: m.Complete,
	}
}

func FromReminder(r domain.Reminder) *ReminderModel {
	due := r.DueDate()

	return &ReminderModel{
		ID:       r.ID().String(),
		Title:    r.Title(),
		DueDate:  &due,
		Notes:    r.Notes(),
		Complete: r.IsComplete(),
	}
}

// AccessGrantModel records the access decision taken for a principal.
type AccessGrantModel struct {
	Principal string    `gorm:"column:principal;type:varchar(255);primaryKey"`
	State     string    `gorm:"column:state;type:varchar(32);not null"`
	DecidedAt time.Time `gorm:"column:decided_at;type:timestamptz;not null"`
}

func (AccessGrantModel) TableName() string {
	return "reminder_access_grants"
}

// Models lists everything AutoMigrate has to create.
func Models() []any {
	return []any{&ReminderModel{}, &AccessGrantModel{}}
}
