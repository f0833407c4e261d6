package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestNewLogger(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatText, Output: &buf})
		logger.Info("interview scheduled", "interview_id", "iv-1")
		assert.Contains(t, buf.String(), "interview scheduled")
		assert.Contains(t, buf.String(), "interview_id=iv-1")
	})

	t.Run("json output with service stamp", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf, Service: "hireflow-worker", Version: "1.2.0"})
		logger.Info("sweep processed", "count", 3)

		entry := decodeLine(t, &buf)
		assert.Equal(t, "sweep processed", entry["msg"])
		assert.Equal(t, "hireflow-worker", entry["service"])
		assert.Equal(t, "1.2.0", entry["version"])
		assert.EqualValues(t, 3, entry["count"])
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelWarn, Output: &buf})
		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("context ids", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf})
		ctx := WithCorrelationID(context.Background(), "corr-123")
		ctx = WithRequestID(ctx, "req-456")
		ctx = WithActor(ctx, "employer:acme")

		logger.With("component", "api").InfoContext(ctx, "request handled")

		entry := decodeLine(t, &buf)
		assert.Equal(t, "corr-123", entry[CorrelationIDKey])
		assert.Equal(t, "req-456", entry[RequestIDKey])
		assert.Equal(t, "employer:acme", entry[ActorKey])
		assert.Equal(t, "api", entry["component"])
	})
}

func TestConfigFor(t *testing.T) {
	dev := ConfigFor("development", "debug", "hireflow", nil)
	assert.Equal(t, LogFormatText, dev.Format)
	assert.Equal(t, LogLevelDebug, dev.Level)
	assert.False(t, dev.AddSource)

	prod := ConfigFor("production", "", "hireflow-mcp", &bytes.Buffer{})
	assert.Equal(t, LogFormatJSON, prod.Format)
	assert.Equal(t, LogLevelInfo, prod.Level)
	assert.True(t, prod.AddSource)
	assert.Equal(t, "hireflow-mcp", prod.Service)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarn, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSlogLevel(tt.input))
		})
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CorrelationIDFromContext(ctx))
	assert.Empty(t, ActorFromContext(ctx))
	assert.NotEmpty(t, CorrelationIDFromContext(WithCorrelationID(ctx, "")))
	assert.NotEmpty(t, RequestIDFromContext(WithRequestID(ctx, "")))
	assert.Equal(t, "x", RequestIDFromContext(WithRequestID(ctx, "x")))
}
