package pubsub

import (
	"context"
	"io"
)

type Publisher interface {
	PublishRemindersChanged(ctx context.Context, event ChangeEvent) error
	PublishStoreChanged(ctx context.Context, event StoreChangedEvent) error
	PublishDueAlert(ctx context.Context, event DueAlertEvent) error
	io.Closer
}

type Subscriber interface {
	SubscribeRemindersChanged(ctx context.Context) (<-chan ChangeEvent, error)
	SubscribeStoreChanged(ctx context.Context) (<-chan StoreChangedEvent, error)
	SubscribeDueAlerts(ctx context.Context) (<-chan DueAlertEvent, error)
}
