package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/store"
	"github.com/KasumiMercury/primind-today/internal/observability/metrics"
)

func TestTracedStorePassesThrough(t *testing.T) {
	m, err := metrics.NewStoreMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	s := store.Traced(store.NewMemoryStore(), "memory", m)

	granted, err := s.RequestAccess(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	id, err := s.Save(ctx, newReminder(t, "Water plants", time.Now()))
	require.NoError(t, err)

	records, err := s.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id.String(), records[0].ID)

	require.NoError(t, s.Remove(ctx, id))
}

func TestTracedStoreReturnsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := domain.NewMockReminderStore(ctrl)
	boom := errors.New("boom")

	inner.EXPECT().QueryAll(gomock.Any()).Return(nil, boom)
	inner.EXPECT().AuthorizationStatus(gomock.Any()).Return(domain.AccessDenied, nil)

	s := store.Traced(inner, "mock", nil)

	_, err := s.QueryAll(context.Background())
	assert.ErrorIs(t, err, boom)

	state, err := s.AuthorizationStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccessDenied, state)
}
