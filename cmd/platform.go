package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-today/internal/config"
	"github.com/KasumiMercury/primind-today/internal/domain"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-today/internal/infra/store"
	"github.com/KasumiMercury/primind-today/internal/observability/metrics"
)

func initBus(ctx context.Context, cfg *config.Config) (*pubsub.Bus, error) {
	if cfg.PubSub.NatsURL == "" {
		slog.Info("NATS_URL not set, using in-process event bus")

		return pubsub.NewGoChannelBus(), nil
	}

	bus, err := pubsub.NewNATSBus(ctx, pubsub.NATSConfig{URL: cfg.PubSub.NatsURL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("connected to NATS", "url", cfg.PubSub.NatsURL)

	return bus, nil
}

// initStore builds the configured backend wrapped with tracing and metrics.
// The returned func releases backend resources.
func initStore(cfg *config.Config) (domain.ReminderStore, func(), error) {
	storeMetrics, err := metrics.NewStoreMetrics()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create store metrics: %w", err)
	}

	noop := func() {}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := store.OpenPostgres(store.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		closeDB := func() {
			sqlDB, err := db.DB()
			if err != nil {
				return
			}
			if err := sqlDB.Close(); err != nil {
				slog.Warn("failed to close database", "error", err)
			}
		}

		s := store.NewGormStore(db, cfg.Store.Principal, cfg.Store.AutoGrant)

		return store.Traced(s, string(cfg.Store.Backend), storeMetrics), closeDB, nil

	case config.BackendCalDAV:
		s, err := store.NewCalDAVStore(store.CalDAVConfig{
			URL:      cfg.CalDAV.URL,
			Username: cfg.CalDAV.Username,
			Password: cfg.CalDAV.Password,
			Calendar: cfg.CalDAV.Calendar,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}

		return store.Traced(s, string(cfg.Store.Backend), storeMetrics), noop, nil

	default:
		s := store.NewMemoryStore(store.WithAutoGrant(cfg.Store.AutoGrant))

		return store.Traced(s, string(cfg.Store.Backend), storeMetrics), noop, nil
	}
}
