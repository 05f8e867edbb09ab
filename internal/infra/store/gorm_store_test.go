package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/store"
	"github.com/KasumiMercury/primind-today/internal/testutil"
)

func TestGormStoreAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	ctx := context.Background()

	tests := []struct {
		name      string
		autoGrant bool
		want      domain.AccessState
	}{
		{name: "auto grant", autoGrant: true, want: domain.AccessGranted},
		{name: "deny", autoGrant: false, want: domain.AccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.CleanTable(t)

			s := store.NewGormStore(testDB.DB, "tester", tt.autoGrant)

			state, err := s.AuthorizationStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, domain.AccessUndetermined, state)

			granted, err := s.RequestAccess(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want == domain.AccessGranted, granted)

			// a later store with the opposite policy sees the first decision
			other := store.NewGormStore(testDB.DB, "tester", !tt.autoGrant)

			state, err = other.AuthorizationStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestGormStoreSaveAndQuery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	testDB.CleanTable(t)

	ctx := context.Background()
	s := store.NewGormStore(testDB.DB, "tester", true)
	due := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	id, err := s.Save(ctx, newReminder(t, "Call mom", due))
	require.NoError(t, err)

	_, err = uuid.Parse(id.String())
	require.NoError(t, err)

	notes := "before lunch"
	_, err = s.Save(ctx, domain.Reconstitute(id, "Call mom", due.Add(2*time.Hour), &notes, true))
	require.NoError(t, err)

	records, err := s.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, id.String(), rec.ID)
	assert.True(t, rec.Complete)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, notes, *rec.Notes)
	require.NotNil(t, rec.DueDate)
	assert.True(t, due.Add(2*time.Hour).Equal(*rec.DueDate))

	// completion can be cleared again
	_, err = s.Save(ctx, domain.Reconstitute(id, "Call mom", due, nil, false))
	require.NoError(t, err)

	records, err = s.QueryAll(ctx)
	require.NoError(t, err)
	assert.False(t, records[0].Complete)
	assert.Nil(t, records[0].Notes)
}

func TestGormStoreError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	ctx := context.Background()
	s := store.NewGormStore(testDB.DB, "tester", true)

	tests := []struct {
		name string
		id   string
	}{
		{name: "unknown uuid", id: uuid.NewString()},
		{name: "non uuid id", id: "provisional-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.CleanTable(t)

			id, err := domain.ReminderIDFromString(tt.id)
			require.NoError(t, err)

			_, err = s.Save(ctx, domain.Reconstitute(id, "x", time.Now(), nil, false))
			assert.ErrorIs(t, err, domain.ErrReminderNotFound)

			err = s.Remove(ctx, id)
			assert.ErrorIs(t, err, domain.ErrReminderNotFound)
		})
	}
}

func TestGormStoreQueryAllSeeded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	testDB.CleanTable(t)

	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	testDB.Seed(t,
		store.ReminderModel{
			ID: uuid.NewString(), Title: "older", DueDate: &due,
			CreatedAt: created, UpdatedAt: created,
		},
		store.ReminderModel{
			ID: uuid.NewString(), Title: "undated",
			CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(time.Hour),
		},
	)

	s := store.NewGormStore(testDB.DB, "tester", true)

	records, err := s.QueryAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "undated", records[0].Title)
	assert.Nil(t, records[0].DueDate)
	assert.Equal(t, "older", records[1].Title)
	require.NotNil(t, records[1].DueDate)
	assert.True(t, due.Equal(*records[1].DueDate))
}
