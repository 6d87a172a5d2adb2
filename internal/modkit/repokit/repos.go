// Package repokit holds the seams and transaction helper export repos share
package repokit

import (
	"context"

	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/store"
)

type (
	// Queryer is the statement surface Postgres repos bind to
	Queryer = store.Querier
	// TxRunner opens the transaction a Queryer lives in
	TxRunner = store.TxRunner
	// Columnar is the ClickHouse seam repos write batches through
	Columnar = store.Columnar
	// Rows is a ClickHouse result set
	Rows = store.Rows
	// CommandTag reports what a statement changed
	CommandTag = store.CommandTag
)

// Binder binds a domain repo to the Queryer of the current transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// WithTx runs fn inside a transaction and maps postgres failures to project errors
// errors that already carry a project code pass through unchanged
func WithTx(ctx context.Context, tx TxRunner, op string, fn func(q Queryer) error) error {
	if tx == nil {
		return perr.Unavailablef("%s: postgres is not configured", op)
	}
	err := tx.Tx(ctx, fn)
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	if ctx.Err() != nil {
		return perr.Canceled(err, op)
	}
	return perr.FromPostgres(err, op)
}
