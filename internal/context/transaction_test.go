package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTransactionContext(t *testing.T) {
	t.Run("Round trips a transaction", func(t *testing.T) {
		tx := &gorm.DB{}
		ctx := WithTransaction(context.Background(), tx)

		got, ok := GetTransaction(ctx)
		assert.True(t, ok)
		assert.Same(t, tx, got)
	})

	t.Run("Reports a missing transaction", func(t *testing.T) {
		got, ok := GetTransaction(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
