package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/store"
)

func newReminder(t *testing.T, title string, due time.Time) domain.Reminder {
	t.Helper()

	r, err := domain.NewReminder(title, due, nil)
	require.NoError(t, err)

	return r.WithID(domain.ReminderID{})
}

func TestMemoryStoreAccess(t *testing.T) {
	tests := []struct {
		name        string
		opts        []store.MemoryOption
		wantGranted bool
		wantState   domain.AccessState
	}{
		{
			name:        "undetermined with auto grant",
			opts:        nil,
			wantGranted: true,
			wantState:   domain.AccessGranted,
		},
		{
			name:        "undetermined without auto grant",
			opts:        []store.MemoryOption{store.WithAutoGrant(false)},
			wantGranted: false,
			wantState:   domain.AccessDenied,
		},
		{
			name:        "already denied stays denied",
			opts:        []store.MemoryOption{store.WithAccess(domain.AccessDenied)},
			wantGranted: false,
			wantState:   domain.AccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore(tt.opts...)
			ctx := context.Background()

			granted, err := s.RequestAccess(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGranted, granted)

			state, err := s.AuthorizationStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, 1, s.AccessRequests())
		})
	}
}

func TestMemoryStoreSaveSuccess(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	due := time.Date(2025, 6, 10, 9, 0, 30, 0, time.UTC)

	id, err := s.Save(ctx, newReminder(t, "Buy milk", due))
	require.NoError(t, err)
	assert.False(t, id.IsZero())
	assert.False(t, id.IsProvisional())

	records, err := s.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id.String(), records[0].ID)

	t.Run("same minute keeps stored seconds", func(t *testing.T) {
		edited := domain.Reconstitute(id, "Buy oat milk", due.Truncate(time.Minute), nil, true)

		_, err := s.Save(ctx, edited)
		require.NoError(t, err)

		records, err := s.QueryAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Buy oat milk", records[0].Title)
		assert.True(t, records[0].Complete)
		assert.True(t, due.Equal(*records[0].DueDate))
	})

	t.Run("different minute replaces due date", func(t *testing.T) {
		moved := due.Add(time.Hour)
		edited := domain.Reconstitute(id, "Buy oat milk", moved, nil, false)

		_, err := s.Save(ctx, edited)
		require.NoError(t, err)

		records, err := s.QueryAll(ctx)
		require.NoError(t, err)
		assert.True(t, moved.Equal(*records[0].DueDate))
	})
}

func TestMemoryStoreSaveError(t *testing.T) {
	s := store.NewMemoryStore()
	unknown, err := domain.ReminderIDFromString("does-not-exist")
	require.NoError(t, err)

	_, err = s.Save(context.Background(), domain.Reconstitute(unknown, "x", time.Now(), nil, false))
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, newReminder(t, "x", time.Now()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	due := time.Now()

	s := store.NewMemoryStore(store.WithRecords(
		domain.StoreRecord{ID: "a", Title: "A", DueDate: &due},
		domain.StoreRecord{ID: "b", Title: "B"},
	))

	id, err := domain.ReminderIDFromString("a")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, id))
	assert.ErrorIs(t, s.Remove(ctx, id), domain.ErrReminderNotFound)

	records, err := s.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)
	assert.Nil(t, records[0].DueDate)
}
