package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StoreMetrics counts reminder store calls by operation and outcome.
type StoreMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

func NewStoreMetrics() (*StoreMetrics, error) {
	meter := otel.Meter(meterName)

	calls, err := meter.Int64Counter("reminder.store.calls",
		metric.WithDescription("Number of reminder store calls"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("reminder.store.duration",
		metric.WithDescription("Reminder store call duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{calls: calls, duration: duration}, nil
}

func (m *StoreMetrics) Record(ctx context.Context, op string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)

	m.calls.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
