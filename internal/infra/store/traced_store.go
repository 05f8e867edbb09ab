package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/observability/metrics"
)

const tracerName = "reminder-store"

type tracedStore struct {
	next    domain.ReminderStore
	backend string
	tracer  trace.Tracer
	metrics *metrics.StoreMetrics
}

// Traced wraps next with a span and a metric sample per call. m may be nil.
func Traced(next domain.ReminderStore, backend string, m *metrics.StoreMetrics) domain.ReminderStore {
	return &tracedStore{
		next:    next,
		backend: backend,
		tracer:  otel.Tracer(tracerName),
		metrics: m,
	}
}

func (s *tracedStore) AuthorizationStatus(ctx context.Context) (domain.AccessState, error) {
	var state domain.AccessState

	err := s.observe(ctx, "authorization_status", func(ctx context.Context) error {
		var err error
		state, err = s.next.AuthorizationStatus(ctx)

		return err
	})

	return state, err
}

func (s *tracedStore) RequestAccess(ctx context.Context) (bool, error) {
	var granted bool

	err := s.observe(ctx, "request_access", func(ctx context.Context) error {
		var err error
		granted, err = s.next.RequestAccess(ctx)

		return err
	})

	return granted, err
}

func (s *tracedStore) QueryAll(ctx context.Context) ([]domain.StoreRecord, error) {
	var records []domain.StoreRecord

	err := s.observe(ctx, "query_all", func(ctx context.Context) error {
		var err error
		records, err = s.next.QueryAll(ctx)

		return err
	})

	return records, err
}

func (s *tracedStore) Save(ctx context.Context, reminder domain.Reminder) (domain.ReminderID, error) {
	var id domain.ReminderID

	err := s.observe(ctx, "save", func(ctx context.Context) error {
		var err error
		id, err = s.next.Save(ctx, reminder)

		return err
	}, attribute.Bool("reminder.create", reminder.ID().IsZero()))

	return id, err
}

func (s *tracedStore) Remove(ctx context.Context, id domain.ReminderID) error {
	return s.observe(ctx, "remove", func(ctx context.Context) error {
		return s.next.Remove(ctx, id)
	}, attribute.String("reminder.id", id.String()))
}

func (s *tracedStore) observe(ctx context.Context, op string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := s.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("store.backend", s.backend))...),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if s.metrics != nil {
		s.metrics.Record(ctx, op, err, time.Since(start))
	}

	return err
}
