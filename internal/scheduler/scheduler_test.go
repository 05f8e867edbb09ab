package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-today/internal/app"
	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-today/internal/infra/store"
	"github.com/KasumiMercury/primind-today/internal/scheduler"
)

var tokyo = time.FixedZone("JST", 9*60*60)

type capturePublisher struct {
	mu      sync.Mutex
	changes []pubsub.ChangeEvent
	stores  []pubsub.StoreChangedEvent
	alerts  []pubsub.DueAlertEvent
}

func (p *capturePublisher) PublishRemindersChanged(_ context.Context, e pubsub.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.changes = append(p.changes, e)

	return nil
}

func (p *capturePublisher) PublishStoreChanged(_ context.Context, e pubsub.StoreChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stores = append(p.stores, e)

	return nil
}

func (p *capturePublisher) PublishDueAlert(_ context.Context, e pubsub.DueAlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.alerts = append(p.alerts, e)

	return nil
}

func (p *capturePublisher) Close() error {
	return nil
}

func TestNextRuns(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 30, 0, tokyo)
	clock := func() time.Time { return now }

	s := scheduler.New(scheduler.Config{Location: tokyo, ResyncSchedule: "@every 5m"}, &capturePublisher{}, nil, clock)
	require.NoError(t, s.Register())

	tests := []struct {
		job  string
		want time.Time
	}{
		{job: "day_rollover", want: time.Date(2025, 6, 11, 0, 0, 0, 0, tokyo)},
		{job: "resync", want: now.Add(5 * time.Minute).Truncate(time.Second)},
		{job: "due_alerts", want: time.Date(2025, 6, 10, 8, 1, 0, 0, tokyo)},
	}

	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			next, ok := s.Next(tt.job)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(next), "next %s, want %s", next, tt.want)
		})
	}

	_, ok := s.Next("missing")
	assert.False(t, ok)
}

func TestRegisterError(t *testing.T) {
	s := scheduler.New(scheduler.Config{ResyncSchedule: "every now and then"}, nil, nil, nil)

	assert.Error(t, s.Register())
}

func TestJobs(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 10, 0, 0, tokyo)
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, tokyo)
	due := time.Date(2025, 6, 10, 8, 5, 0, 0, tokyo)

	pub := &capturePublisher{}
	repo := app.NewReminderRepository(store.NewMemoryStore(store.WithRecords(
		domain.StoreRecord{ID: "a", Title: "A", DueDate: &due},
	)), nil, time.Second)

	_, err := repo.LoadAll(context.Background())
	require.NoError(t, err)

	alerts := app.NewAlertUseCase(repo, pub, 0, func() time.Time { return start })
	s := scheduler.New(scheduler.Config{Location: tokyo}, pub, alerts, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.RolloverDay(ctx))
	require.NoError(t, s.Resync(ctx))
	require.NoError(t, s.DispatchAlerts(ctx))

	require.Len(t, pub.changes, 1)
	assert.Equal(t, pubsub.ReasonDayRollover, pub.changes[0].Reason)
	require.Len(t, pub.stores, 1)
	assert.Equal(t, "scheduler", pub.stores[0].Source)
	require.Len(t, pub.alerts, 1)
	assert.Equal(t, "a", pub.alerts[0].ReminderID)
}

func TestStartStop(t *testing.T) {
	s := scheduler.New(scheduler.Config{}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()
	s.Stop()
	s.Stop()
}
