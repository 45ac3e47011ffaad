package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekbug/log-manager/internal/platform/logctx"
)

// Context tests

func TestFromContext_NilContext(t *testing.T) {
	logger := FromContext(nil) //nolint:staticcheck // Testing nil guard intentionally
	assert.NotNil(t, logger)
	assert.Equal(t, defaultLogger, logger)
}

func TestFromContext_NoLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	assert.Equal(t, defaultLogger, logger)
}

func TestWithContext_RoundTrip(t *testing.T) {
	customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithContext(context.Background(), customLogger)
	assert.Equal(t, customLogger, FromContext(ctx))
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithContext(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-123")

	FromContext(ctx).InfoContext(ctx, "test message")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "req-123", logEntry["request_id"])
}

func TestWithCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithContext(context.Background(), logger)
	ctx = WithCorrelationID(ctx, "corr-789")

	FromContext(ctx).InfoContext(ctx, "test message")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "corr-789", logEntry["correlation_id"])
}

// Logger construction tests

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{
		Level:   "info",
		Format:  "json",
		Service: "log-manager",
		Version: "test",
	}, &buf)

	logger.Info("hello")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "log-manager", logEntry["service_name"])
	assert.Equal(t, "hello", logEntry["msg"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "warn", Format: "text"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept")

	output := buf.String()
	assert.NotContains(t, output, "dropped")
	assert.Contains(t, output, "kept")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "WARN", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "unknown", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

// StoreHandler tests

func TestStoreHandler_AppendsStoreEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewStoreHandler(slog.NewJSONHandler(&buf, nil)))

	store := logctx.NewMapStore()
	require.NoError(t, store.Set("userID", "user-456"))
	ctx := logctx.WithStore(context.Background(), store)

	logger.InfoContext(ctx, "seeded")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "user-456", logEntry["userID"])
}

func TestStoreHandler_NoStorePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewStoreHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "plain")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "plain", logEntry["msg"])
}

func TestStoreHandler_ReflectsRemovals(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewStoreHandler(slog.NewJSONHandler(&buf, nil)))

	store := logctx.NewMapStore()
	require.NoError(t, store.Set("k", "v"))
	ctx := logctx.WithStore(context.Background(), store)

	store.Remove("k")
	logger.InfoContext(ctx, "after removal")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)
	_, present := logEntry["k"]
	assert.False(t, present)
}

// Buffer tests

func TestBuffer_RetainsAndFormatsRecords(t *testing.T) {
	buffer := NewBuffer(10, "log-manager", slog.LevelInfo)
	logger := slog.New(buffer)

	logger.Info("order placed", slog.String("orderId", "order-123"))

	lines := buffer.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "INFO ")
	assert.Contains(t, lines[0], "--- log-manager: order placed orderId=order-123")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} `, lines[0])
}

func TestBuffer_ComponentAttrBecomesLoggerName(t *testing.T) {
	buffer := NewBuffer(10, "log-manager", slog.LevelInfo)
	logger := slog.New(buffer).With(slog.String("component", "app.OrderService"))

	logger.Info("processing")

	lines := buffer.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "--- app.OrderService: processing")
}

func TestBuffer_EvictsOldestWhenFull(t *testing.T) {
	buffer := NewBuffer(3, "svc", slog.LevelInfo)
	logger := slog.New(buffer)

	for _, msg := range []string{"one", "two", "three", "four"} {
		logger.Info(msg)
	}

	lines := buffer.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], ": two")
	assert.Contains(t, lines[2], ": four")
}

func TestBuffer_DropsRecordsBelowLevel(t *testing.T) {
	buffer := NewBuffer(10, "svc", slog.LevelWarn)
	logger := slog.New(buffer)

	logger.Info("quiet")
	logger.Error("loud")

	require.Equal(t, 1, buffer.Len())
	assert.Contains(t, buffer.Lines()[0], "ERROR")
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	buffer := NewBuffer(0, "svc", slog.LevelInfo)
	logger := slog.New(buffer)

	for i := 0; i < DefaultBufferCapacity+5; i++ {
		logger.Info("line", slog.Int("n", i))
	}

	assert.Equal(t, DefaultBufferCapacity, buffer.Len())
}

func TestBuffer_LevelPadding(t *testing.T) {
	buffer := NewBuffer(10, "svc", slog.LevelInfo)
	logger := slog.New(buffer)

	logger.Info("padded")

	line := buffer.Lines()[0]
	// "INFO" is four characters; the %-5s slot pads it to five.
	idx := strings.Index(line, "INFO")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "INFO  [", line[idx:idx+7])
}

// Redaction tests

func TestNewReplaceAttr_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	logger.Info("login", slog.String("password", "hunter2"))

	output := buf.String()
	assert.NotContains(t, output, "hunter2")
}

// Full pipeline: engine writes, fan-out delivers to both sinks.

func TestLogger_FanOutWithBuffer(t *testing.T) {
	var buf bytes.Buffer
	buffer := NewBuffer(10, "log-manager", slog.LevelInfo)
	logger := NewWithWriter(Config{
		Level:   "info",
		Format:  "json",
		Service: "log-manager",
		Buffer:  buffer,
	}, &buf)

	store := logctx.NewMapStore()
	require.NoError(t, store.Set("orderId", "order-123"))
	ctx := logctx.WithStore(context.Background(), store)

	logger.InfoContext(ctx, "order placed")

	// JSON sink got the store entry.
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "order-123", logEntry["orderId"])

	// So did the live-log buffer.
	require.Equal(t, 1, buffer.Len())
	assert.Contains(t, buffer.Lines()[0], "orderId=order-123")
}

func TestBuffer_TimestampUsesRecordTime(t *testing.T) {
	buffer := NewBuffer(10, "svc", slog.LevelInfo)

	r := slog.NewRecord(time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC), slog.LevelInfo, "fixed", 0)
	require.NoError(t, buffer.Handle(context.Background(), r))

	assert.True(t, strings.HasPrefix(buffer.Lines()[0], "2026-08-27 10:30:00.000 "))
}
