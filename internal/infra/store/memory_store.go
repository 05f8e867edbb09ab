package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-today/internal/domain"
)

// MemoryStore keeps records in process. It backs local runs and tests.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string]domain.StoreRecord
	order     []string
	access    domain.AccessState
	autoGrant bool
	requests  int
}

type MemoryOption func(*MemoryStore)

// WithAccess sets the initial authorization status.
func WithAccess(state domain.AccessState) MemoryOption {
	return func(s *MemoryStore) {
		s.access = state
	}
}

// WithAutoGrant decides how an access request from the undetermined state
// is answered.
func WithAutoGrant(grant bool) MemoryOption {
	return func(s *MemoryStore) {
		s.autoGrant = grant
	}
}

// WithRecords seeds raw records, including ones without a due date.
func WithRecords(records ...domain.StoreRecord) MemoryOption {
	return func(s *MemoryStore) {
		for _, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.NewString()
			}

			if _, ok := s.records[rec.ID]; !ok {
				s.order = append(s.order, rec.ID)
			}

			s.records[rec.ID] = cloneRecord(rec)
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records:   make(map[string]domain.StoreRecord),
		access:    domain.AccessUndetermined,
		autoGrant: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var _ domain.ReminderStore = (*MemoryStore)(nil)

func (s *MemoryStore) AuthorizationStatus(ctx context.Context) (domain.AccessState, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccessUndetermined, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.access, nil
}

func (s *MemoryStore) RequestAccess(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++

	if s.access == domain.AccessUndetermined {
		s.access = domain.AccessDenied
		if s.autoGrant {
			s.access = domain.AccessGranted
		}
	}

	return s.access == domain.AccessGranted, nil
}

// AccessRequests reports how many times RequestAccess was called.
func (s *MemoryStore) AccessRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

func (s *MemoryStore) QueryAll(ctx context.Context) ([]domain.StoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]domain.StoreRecord, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, cloneRecord(s.records[id]))
	}

	return records, nil
}

func (s *MemoryStore) Save(ctx context.Context, reminder domain.Reminder) (domain.ReminderID, error) {
	if err := ctx.Err(); err != nil {
		return domain.ReminderID{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := recordFromReminder(reminder)

	if reminder.ID().IsZero() {
		rec.ID = uuid.NewString()
		s.order = append(s.order, rec.ID)
		s.records[rec.ID] = rec

		slog.Debug("reminder created in memory store", "reminder_id", rec.ID)

		return domain.ReminderIDFromString(rec.ID)
	}

	existing, ok := s.records[rec.ID]
	if !ok {
		return domain.ReminderID{}, domain.ErrReminderNotFound
	}

	rec.DueDate = mergeDueDate(existing.DueDate, rec.DueDate)
	s.records[rec.ID] = rec

	return reminder.ID(), nil
}

func (s *MemoryStore) Remove(ctx context.Context, id domain.ReminderID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id.String()]; !ok {
		return domain.ErrReminderNotFound
	}

	delete(s.records, id.String())

	for i, v := range s.order {
		if v == id.String() {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	return nil
}

func recordFromReminder(r domain.Reminder) domain.StoreRecord {
	due := r.DueDate()

	return domain.StoreRecord{
		ID:       r.ID().String(),
		Title:    r.Title(),
		DueDate:  &due,
		Notes:    r.Notes(),
		Complete: r.IsComplete(),
	}
}

// mergeDueDate keeps the stored due date when the incoming one falls in the
// same minute, so second-level precision held by the store survives edits.
func mergeDueDate(stored, incoming *time.Time) *time.Time {
	if stored == nil || incoming == nil {
		return incoming
	}

	if stored.Truncate(time.Minute).Equal(incoming.Truncate(time.Minute)) {
		kept := *stored

		return &kept
	}

	return incoming
}

func cloneRecord(rec domain.StoreRecord) domain.StoreRecord {
	if rec.DueDate != nil {
		due := *rec.DueDate
		rec.DueDate = &due
	}

	if rec.Notes != nil {
		notes := *rec.Notes
		rec.Notes = &notes
	}

	return rec
}
