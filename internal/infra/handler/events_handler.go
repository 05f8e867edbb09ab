package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
)

// EventsHandler streams reminders.changed notifications as server-sent
// events, one subscription per client.
type EventsHandler struct {
	subscriber pubsub.Subscriber
}

func NewEventsHandler(subscriber pubsub.Subscriber) *EventsHandler {
	return &EventsHandler{
		subscriber: subscriber,
	}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	events, err := h.subscriber.SubscribeRemindersChanged(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to subscribe to reminder changes",
			"error", err,
		)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "events_unavailable",
			Message: "change notifications are unavailable",
		})

		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	slog.DebugContext(ctx, "event stream opened")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}

			c.SSEvent(pubsub.TopicRemindersChanged, event)

			return true
		}
	})

	slog.DebugContext(ctx, "event stream closed")
}

func (h *EventsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/events", h.Stream)
}
