package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// txHolder is shared between the contexts derived from WithDBTransaction, so
// a deferred rollback becomes a no-op after the commit already ran.
type txHolder struct {
	tx *gorm.DB
}

// WithDBTransaction begins a database transaction and stores it into the
// returned context. Until WithCommitDBTransaction or
// WithRollbackDBTransaction is called, DB() returns the transaction handle.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &txHolder{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction if it exists.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && holder.tx != nil {
		holder.tx.Commit()
		holder.tx = nil
	}

	return ctx
}

// WithRollbackDBTransaction rollbacks the current transaction if it exists.
// It is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && holder.tx != nil {
		holder.tx.Rollback()
		holder.tx = nil
	}

	return ctx
}
