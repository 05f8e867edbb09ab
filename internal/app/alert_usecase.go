package app

import (
	"context"
	"time"
)

type AlertUseCase interface {
	// DispatchDue publishes one alert per incomplete reminder that became
	// due since the previous dispatch and returns how many were sent.
	DispatchDue(ctx context.Context, now time.Time) (int, error)
	HandleAction(ctx context.Context, input AlertActionInput) (ReminderOutput, error)
}
