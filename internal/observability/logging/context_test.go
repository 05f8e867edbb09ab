package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-today/internal/observability/logging"
)

func TestValidateAndExtractRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		keepsOwn bool
	}{
		{name: "valid id is kept", header: "req-123_abc.def", keepsOwn: true},
		{name: "empty header gets generated id", header: "", keepsOwn: false},
		{name: "id with spaces is replaced", header: "bad id", keepsOwn: false},
		{name: "id with newline is replaced", header: "id\ninjected", keepsOwn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logging.ValidateAndExtractRequestID(tt.header)

			assert.NotEmpty(t, got)

			if tt.keepsOwn {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
			}
		})
	}
}

func TestContextHandlerAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := logging.WithRequestID(context.Background(), "req-1")
	ctx = logging.WithModule(ctx, logging.ModuleReminders)

	logger.InfoContext(ctx, "hello", "k", "v")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "reminders", record["module"])
	assert.Equal(t, "v", record["k"])
}

func TestContextHandlerWithoutValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "plain")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "request_id")
	assert.NotContains(t, record, "module")
}
