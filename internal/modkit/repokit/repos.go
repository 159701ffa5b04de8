// Package repokit binds repositories to a store querier and decorates transactions
package repokit

import (
	"context"

	"embedbatch/internal/platform/store"
)

type (
	// Queryer is the read and write surface repos are bound to
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can also open transactions
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder builds a repo of type T over a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds b to q and panics when q is nil, which is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// WithTx runs fn inside one transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
