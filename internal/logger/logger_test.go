package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReExports(t *testing.T) {
	t.Run("New builds a chainable logger", func(t *testing.T) {
		log := New("categoryRepository")

		assert.NotNil(t, log.Function("GetByID").With("categoryID", 3))
	})

	t.Run("Err passes the error through", func(t *testing.T) {
		log := New("categoryRepository")

		cause := errors.New("connection refused")
		assert.Equal(t, cause, log.Err("failed to load category", cause))
	})

	t.Run("Trace ID round trips through the context", func(t *testing.T) {
		ctx := ContextWithTraceID(context.Background(), "trace-789")

		assert.Equal(t, "trace-789", TraceIDFromContext(ctx))
		assert.NotNil(t, New("handler").TraceFromContext(ctx))
	})
}
