package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/KasumiMercury/primind-today/internal/observability/tracing"
)

// Bus carries reminder events over any watermill publisher/subscriber pair.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter
}

var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
)

// NewGoChannelBus keeps events inside the process.
func NewGoChannelBus() *Bus {
	logger := watermill.NewSlogLogger(slog.Default())

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)

	return &Bus{
		publisher:  pubSub,
		subscriber: pubSub,
		logger:     logger,
	}
}

func (b *Bus) PublishRemindersChanged(ctx context.Context, event ChangeEvent) error {
	return b.publish(ctx, TopicRemindersChanged, "reminders.changed", event, map[string]string{
		"reason":      event.Reason,
		"reminder_id": event.ReminderID,
	})
}

func (b *Bus) PublishStoreChanged(ctx context.Context, event StoreChangedEvent) error {
	return b.publish(ctx, TopicStoreChanged, "reminders.store_changed", event, map[string]string{
		"source": event.Source,
	})
}

func (b *Bus) PublishDueAlert(ctx context.Context, event DueAlertEvent) error {
	return b.publish(ctx, TopicDueAlerts, "reminders.alert", event, map[string]string{
		"reminder_id": event.ReminderID,
		"category":    event.Category,
	})
}

func (b *Bus) SubscribeRemindersChanged(ctx context.Context) (<-chan ChangeEvent, error) {
	return subscribe[ChangeEvent](ctx, b, TopicRemindersChanged)
}

func (b *Bus) SubscribeStoreChanged(ctx context.Context) (<-chan StoreChangedEvent, error) {
	return subscribe[StoreChangedEvent](ctx, b, TopicStoreChanged)
}

func (b *Bus) SubscribeDueAlerts(ctx context.Context) (<-chan DueAlertEvent, error) {
	return subscribe[DueAlertEvent](ctx, b, TopicDueAlerts)
}

func (b *Bus) Close() error {
	pubErr := b.publisher.Close()

	if any(b.subscriber) == any(b.publisher) {
		return pubErr
	}

	return errors.Join(pubErr, b.subscriber.Close())
}

func (b *Bus) publish(ctx context.Context, topic, eventType string, event any, attrs map[string]string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", eventType)

	for k, v := range attrs {
		if v != "" {
			msg.Metadata.Set(k, v)
		}
	}

	tracing.InjectToMap(ctx, msg.Metadata)

	if err := b.publisher.Publish(topic, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)

		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("message_id", msg.UUID),
	)

	return nil
}

func subscribe[T any](ctx context.Context, b *Bus, topic string) (<-chan T, error) {
	messages, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan T)

	go func() {
		defer close(out)

		for msg := range messages {
			msgCtx := tracing.ExtractFromMap(ctx, msg.Metadata)

			var event T
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				slog.WarnContext(msgCtx, "dropping malformed event",
					slog.String("topic", topic),
					slog.String("message_id", msg.UUID),
					slog.String("error", err.Error()),
				)
				msg.Ack()

				continue
			}

			select {
			case out <- event:
				msg.Ack()
				slog.DebugContext(msgCtx, "delivered event",
					slog.String("topic", topic),
					slog.String("message_id", msg.UUID),
				)
			case <-ctx.Done():
				msg.Nack()

				return
			}
		}
	}()

	return out, nil
}
