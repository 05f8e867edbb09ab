package handler_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-today/internal/infra/handler"
	"github.com/KasumiMercury/primind-today/internal/infra/pubsub"
)

func TestEventsStream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bus := pubsub.NewGoChannelBus()
	defer bus.Close()

	router := gin.New()
	handler.NewEventsHandler(bus).RegisterRoutes(router.Group("/api/v1"))

	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)

	lines := make(chan string, 16)

	go func() {
		defer close(lines)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	// the subscription exists only once the request reached the handler
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var event, data string

	for data == "" {
		select {
		case <-ticker.C:
			require.NoError(t, bus.PublishRemindersChanged(ctx, pubsub.ChangeEvent{
				Reason:     pubsub.ReasonAdded,
				ReminderID: "r-1",
			}))
		case line, ok := <-lines:
			require.True(t, ok, "stream closed before an event arrived")

			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
	}

	assert.Equal(t, pubsub.TopicRemindersChanged, event)
	assert.Contains(t, data, `"reason":"added"`)
	assert.Contains(t, data, `"reminder_id":"r-1"`)
}
