package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const streamName = "REMINDER_EVENTS"

type NATSConfig struct {
	URL string
}

// NewNATSBus provisions the JetStream stream for reminder topics and returns
// a bus publishing and subscribing through it.
func NewNATSBus(ctx context.Context, cfg NATSConfig) (*Bus, error) {
	logger := watermill.NewSlogLogger(slog.Default())

	if err := ensureStream(ctx, cfg.URL); err != nil {
		return nil, err
	}

	natsOptions := []nc.Option{nc.Timeout(10 * time.Second)}
	jsConfig := nats.JetStreamConfig{
		Disabled:      false,
		AutoProvision: false,
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: natsOptions,
			JetStream:   jsConfig,
			Marshaler:   &nats.NATSMarshaler{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:            cfg.URL,
			NatsOptions:    natsOptions,
			JetStream:      jsConfig,
			AckWaitTimeout: 30 * time.Second,
			Unmarshaler:    &nats.NATSMarshaler{},
		},
		logger,
	)
	if err != nil {
		_ = publisher.Close()

		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &Bus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

func ensureStream(ctx context.Context, url string) error {
	conn, err := nc.Connect(url, nc.Timeout(10*time.Second))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer conn.Close()

	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	subjects := []string{TopicRemindersChanged, TopicStoreChanged, TopicDueAlerts}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        streamName,
		Description: "Stream for reminder list events",
		Subjects:    subjects,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      24 * time.Hour,
		MaxBytes:    100 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	slog.Info("NATS JetStream stream configured",
		slog.String("stream", streamName),
		slog.Any("subjects", subjects),
	)

	return nil
}
