package store

import (
	"context"
	"errors"

	"embedbatch/internal/platform/store/ch"
)

// chClient is the slice of *ch.CH the adapter calls
type chClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// chAdapter narrows a clickhouse client to the Clickhouse seam; only Query
// needs translating, since ch.Rows closes with an error and Rows does not
type chAdapter struct{ chClient }

var _ Clickhouse = chAdapter{}

func newCHAdapter(c chClient) Clickhouse { return chAdapter{c} }

func (a chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if a.chClient == nil {
		return nil, errNoCH
	}
	r, err := a.chClient.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (a chAdapter) Ping(ctx context.Context) error {
	if a.chClient == nil {
		return errNoCH
	}
	return a.chClient.Ping(ctx)
}

var errNoCH = errors.New("store: clickhouse not opened")

type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
