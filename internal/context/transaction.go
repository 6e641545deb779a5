// Package context carries the active database transaction through a
// request. Repositories check for it so a controller can span several
// repository calls with one transaction.
package context

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const transactionKey contextKey = "transaction"

// WithTransaction stores tx in the context for downstream repository
// calls.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, transactionKey, tx)
}

// GetTransaction returns the transaction stored in the context, if
// any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey).(*gorm.DB)
	return tx, ok
}
