package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-today/internal/domain"
)

func mustID(t *testing.T, s string) domain.ReminderID {
	t.Helper()

	id, err := domain.ReminderIDFromString(s)
	require.NoError(t, err)

	return id
}

func strPtr(s string) *string {
	return &s
}

func TestNewReminderSuccess(t *testing.T) {
	tests := []struct {
		name  string
		title string
		notes *string
	}{
		{name: "without notes", title: "Buy milk", notes: nil},
		{name: "with notes", title: "Call mom", notes: strPtr("before dinner")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := time.Date(2025, 6, 10, 9, 0, 0, 0, tokyo)

			r, err := domain.NewReminder(tt.title, due, tt.notes)

			require.NoError(t, err)
			assert.True(t, r.ID().IsProvisional())
			assert.Equal(t, tt.title, r.Title())
			assert.Equal(t, due, r.DueDate())
			assert.Equal(t, tt.notes, r.Notes())
			assert.False(t, r.IsComplete())
		})
	}
}

func TestNewReminderError(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		due         time.Time
		expectedErr error
	}{
		{
			name:        "empty title",
			title:       "",
			due:         time.Date(2025, 6, 10, 9, 0, 0, 0, tokyo),
			expectedErr: domain.ErrEmptyTitle,
		},
		{
			name:        "blank title",
			title:       "   ",
			due:         time.Date(2025, 6, 10, 9, 0, 0, 0, tokyo),
			expectedErr: domain.ErrEmptyTitle,
		},
		{
			name:        "missing due date",
			title:       "Buy milk",
			due:         time.Time{},
			expectedErr: domain.ErrMissingDueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewReminder(tt.title, tt.due, nil)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestReminderCopiesAreIndependent(t *testing.T) {
	notes := "original"
	r := domain.Reconstitute(mustID(t, "r-1"), "Title", time.Date(2025, 6, 10, 9, 0, 0, 0, tokyo), &notes, false)

	notes = "changed by caller"
	assert.Equal(t, "original", *r.Notes())

	toggled := r.ToggleComplete()
	assert.True(t, toggled.IsComplete())
	assert.False(t, r.IsComplete())

	renamed, err := r.WithTitle("Other")
	require.NoError(t, err)
	assert.Equal(t, "Other", renamed.Title())
	assert.Equal(t, "Title", r.Title())

	returned := r.Notes()
	*returned = "mutated"
	assert.Equal(t, "original", *r.Notes())
}

func TestReminderWithError(t *testing.T) {
	r := domain.Reconstitute(mustID(t, "r-1"), "Title", time.Date(2025, 6, 10, 9, 0, 0, 0, tokyo), nil, false)

	_, err := r.WithTitle(" ")
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = r.WithDueDate(time.Time{})
	assert.ErrorIs(t, err, domain.ErrMissingDueDate)
}

func TestStoreRecordToReminder(t *testing.T) {
	due := time.Date(2025, 6, 10, 9, 0, 0, 0, tokyo)

	tests := []struct {
		name   string
		record domain.StoreRecord
		ok     bool
	}{
		{
			name:   "complete record",
			record: domain.StoreRecord{ID: "r-1", Title: "A", DueDate: &due, Notes: strPtr("n"), Complete: true},
			ok:     true,
		},
		{
			name:   "record without due date is excluded",
			record: domain.StoreRecord{ID: "r-2", Title: "B"},
			ok:     false,
		},
		{
			name:   "record with zero due date is excluded",
			record: domain.StoreRecord{ID: "r-3", Title: "C", DueDate: &time.Time{}},
			ok:     false,
		},
		{
			name:   "record without identifier is excluded",
			record: domain.StoreRecord{Title: "D", DueDate: &due},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := tt.record.ToReminder()

			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.record.ID, r.ID().String())
				assert.Equal(t, tt.record.Title, r.Title())
				assert.Equal(t, *tt.record.DueDate, r.DueDate())
				assert.Equal(t, tt.record.Complete, r.IsComplete())
			}
		})
	}
}
