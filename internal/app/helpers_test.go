package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-today/internal/infra/store"
)

var tokyo = time.FixedZone("JST", 9*60*60)

// fixedNow is 2025-06-10 08:00 in Tokyo.
var fixedNow = time.Date(2025, 6, 10, 8, 0, 0, 0, tokyo)

func fixedClock() time.Time {
	return fixedNow
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []pubsub.ChangeEvent
	stores  []pubsub.StoreChangedEvent
	alerts  []pubsub.DueAlertEvent
	err     error
	// failAlertAt fails only the n-th due alert publish when set.
	failAlertAt int
	alertCalls  int
}

var _ pubsub.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) PublishRemindersChanged(_ context.Context, event pubsub.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.changes = append(p.changes, event)

	return p.err
}

func (p *recordingPublisher) PublishStoreChanged(_ context.Context, event pubsub.StoreChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stores = append(p.stores, event)

	return p.err
}

func (p *recordingPublisher) PublishDueAlert(_ context.Context, event pubsub.DueAlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.alertCalls++

	if p.err != nil {
		return p.err
	}

	if p.failAlertAt > 0 && p.alertCalls == p.failAlertAt {
		return errors.New("publish rejected")
	}

	p.alerts = append(p.alerts, event)

	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	reasons := make([]string, 0, len(p.changes))
	for _, c := range p.changes {
		reasons = append(reasons, c.Reason)
	}

	return reasons
}

func (p *recordingPublisher) dueAlerts() []pubsub.DueAlertEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]pubsub.DueAlertEvent, len(p.alerts))
	copy(out, p.alerts)

	return out
}

func at(hour, minute int, dayOffset int) *time.Time {
	t := time.Date(2025, 6, 10+dayOffset, hour, minute, 0, 0, tokyo)

	return &t
}

// scenarioRecords holds A due today 09:00, B due tomorrow 09:00, C due today
// 15:00 and complete, plus a record without a due date.
func scenarioRecords() []domain.StoreRecord {
	return []domain.StoreRecord{
		{ID: "a", Title: "A", DueDate: at(9, 0, 0)},
		{ID: "b", Title: "B", DueDate: at(9, 0, 1)},
		{ID: "c", Title: "C", DueDate: at(15, 0, 0), Complete: true},
		{ID: "undated", Title: "No due date"},
	}
}

func mustID(t *testing.T, s string) domain.ReminderID {
	t.Helper()

	id, err := domain.ReminderIDFromString(s)
	require.NoError(t, err)

	return id
}

func idsOf(reminders []domain.Reminder) []string {
	out := make([]string, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, r.ID().String())
	}

	return out
}

func strPtr(s string) *string {
	return &s
}

func newScenarioStore(opts ...store.MemoryOption) *store.MemoryStore {
	return store.NewMemoryStore(append([]store.MemoryOption{store.WithRecords(scenarioRecords()...)}, opts...)...)
}
