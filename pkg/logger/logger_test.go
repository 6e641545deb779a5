package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"kirayo/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer, name string) logger.Logger {
	return logger.NewWithConfig(logger.Config{
		Name:   name,
		Format: logger.FormatJSON,
		Level:  slog.LevelDebug,
		Writer: buf,
	})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line, err := buf.ReadString('\n')
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	return entry
}

func TestNewWithConfig(t *testing.T) {
	t.Run("JSON output carries the package name", func(t *testing.T) {
		var buf bytes.Buffer
		log := jsonLogger(&buf, "bookingRepository")

		log.Info("Booking created", "bookingID", 12)

		entry := decodeLine(t, &buf)
		assert.Equal(t, "bookingRepository", entry["package"])
		assert.Equal(t, "Booking created", entry["msg"])
		assert.Equal(t, float64(12), entry["bookingID"])
	})

	t.Run("Text format writes plain lines", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithConfig(logger.Config{
			Name:   "migrations",
			Format: logger.FormatText,
			Writer: &buf,
		})

		log.Info("Running migrations")

		assert.Contains(t, buf.String(), "msg=\"Running migrations\"")
		assert.Contains(t, buf.String(), "package=migrations")
	})

	t.Run("Level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithConfig(logger.Config{
			Name:   "worker",
			Format: logger.FormatJSON,
			Level:  slog.LevelInfo,
			Writer: &buf,
		})

		log.Debug("skipped")
		assert.Zero(t, buf.Len())
	})
}

func TestChaining(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "bookingController")

	log.Function("SubmitRequirements").With("renterID", 4).Info("Booking created")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "bookingController", entry["package"])
	assert.Equal(t, "SubmitRequirements", entry["function"])
	assert.Equal(t, float64(4), entry["renterID"])

	log.File("categories.sql").Info("Applied")
	entry = decodeLine(t, &buf)
	assert.Equal(t, "categories.sql", entry["file"])
}

func TestErrorReturns(t *testing.T) {
	t.Run("Err returns the original error", func(t *testing.T) {
		var buf bytes.Buffer
		log := jsonLogger(&buf, "repo")

		cause := errors.New("record not found")
		returned := log.Err("failed to load booking", cause, "bookingID", 7)

		assert.ErrorIs(t, returned, cause)
		entry := decodeLine(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "record not found", entry["error"])
	})

	t.Run("Error and ErrMsg build the error from the message", func(t *testing.T) {
		var buf bytes.Buffer
		log := jsonLogger(&buf, "handler")

		assert.EqualError(t, log.Error("payment rejected"), "payment rejected")
		assert.EqualError(t, log.ErrMsg("missing account"), "missing account")
	})

	t.Run("Errorf wraps the message detail", func(t *testing.T) {
		var buf bytes.Buffer
		log := jsonLogger(&buf, "handler")

		err := log.Errorf("upload failed", "file too large")
		assert.EqualError(t, err, "error: file too large")
	})

	t.Run("Er logs without returning", func(t *testing.T) {
		var buf bytes.Buffer
		log := jsonLogger(&buf, "scheduler")

		log.Er("release sweep failed", errors.New("db closed"))
		entry := decodeLine(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
	})
}

func TestTraceID(t *testing.T) {
	t.Run("Round trip through context", func(t *testing.T) {
		ctx := logger.ContextWithTraceID(context.Background(), "trace-123")
		assert.Equal(t, "trace-123", logger.TraceIDFromContext(ctx))
	})

	t.Run("Missing trace ID yields empty string", func(t *testing.T) {
		assert.Empty(t, logger.TraceIDFromContext(context.Background()))
	})

	t.Run("TraceFromContext attaches the trace ID", func(t *testing.T) {
		var buf bytes.Buffer
		log := jsonLogger(&buf, "handler")
		ctx := logger.ContextWithTraceID(context.Background(), "trace-456")

		log.TraceFromContext(ctx).Info("request handled")

		entry := decodeLine(t, &buf)
		assert.Equal(t, "trace-456", entry["traceID"])
	})

	t.Run("TraceFromContext without an ID is a no-op", func(t *testing.T) {
		var buf bytes.Buffer
		log := jsonLogger(&buf, "handler")

		log.TraceFromContext(context.Background()).Info("request handled")

		line, err := buf.ReadString('\n')
		require.NoError(t, err)
		assert.False(t, strings.Contains(line, "traceID"))
	})
}
