package infra

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

type txKey struct{}

// WithTx returns a context carrying db as the active transaction.
func WithTx(ctx context.Context, db bun.IDB) context.Context {
	return context.WithValue(ctx, txKey{}, db)
}

// ExtractTx returns the transaction carried by ctx, or fallback outside of one.
func ExtractTx(ctx context.Context, fallback bun.IDB) bun.IDB {
	if db, ok := ctx.Value(txKey{}).(bun.IDB); ok {
		return db
	}
	return fallback
}

func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bun.IDB)
	return ok
}

type BunTransactionRunner struct {
	db   *bun.DB
	opts *sql.TxOptions
}

// NewBunTransactionRunner returns a runner starting transactions with opts.
// A nil opts uses the driver defaults.
func NewBunTransactionRunner(db *bun.DB, opts *sql.TxOptions) *BunTransactionRunner {
	return &BunTransactionRunner{db: db, opts: opts}
}

// Exec runs fn in a transaction. Nested calls join the outer transaction,
// which commits only when the outermost fn returns nil.
func (r *BunTransactionRunner) Exec(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}
	return r.db.RunInTx(ctx, r.opts, func(ctx context.Context, tx bun.Tx) error {
		return fn(WithTx(ctx, tx))
	})
}
