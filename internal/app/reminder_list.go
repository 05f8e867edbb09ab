package app

import (
	"context"
	"time"
)

type Clock func() time.Time

// ReminderList is what the presentation layer drives: it combines the
// repository with a filter selection and the current time.
type ReminderList interface {
	List(ctx context.Context, input ListInput) (ListOutput, error)
	Reload(ctx context.Context, input ListInput) (ListOutput, error)
	ToggleComplete(ctx context.Context, input RowInput) (ReminderOutput, error)
	DeleteAt(ctx context.Context, input RowInput) error
	Add(ctx context.Context, input AddInput) (AddOutput, error)
	Edit(ctx context.Context, input EditInput) (ReminderOutput, error)
	Get(ctx context.Context, id string) (ReminderOutput, error)
	Delete(ctx context.Context, id string) error
	Detail(ctx context.Context, id string) (DetailOutput, error)
	EditForm(ctx context.Context, id string) (EditFormOutput, error)

	Access(ctx context.Context) AccessOutput
	// RequestAccess asks the store for access and reloads on success.
	RequestAccess(ctx context.Context) (AccessOutput, error)
}
