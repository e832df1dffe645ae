package domain

import (
	"context"
)

// TransactionRunner runs fn inside a transaction carried by ctx.
// Runners called from within fn join the outer transaction.
type TransactionRunner interface {
	Exec(ctx context.Context, fn func(ctx context.Context) error) error
}
