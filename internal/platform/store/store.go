// Package store opens the ledger backends, postgres and clickhouse, behind
// narrow seams the repos and readiness checks use
package store

import (
	"context"
	"errors"
	"fmt"

	"embedbatch/internal/platform/logger"
)

// Store holds whichever backends Config enabled; a nil seam is a disabled backend
type Store struct {
	Log logger.Logger

	PG TxRunner
	CH Clickhouse
}

type (
	// Row is one scannable result row
	Row interface {
		Scan(dest ...any) error
	}

	// Rows is a forward-only result set; callers Close it
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close()
		Columns() []string
	}

	// CommandTag reports what a write statement did
	CommandTag interface {
		String() string
		RowsAffected() int64
	}

	// RowQuerier runs sql statements
	RowQuerier interface {
		Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) Row
	}

	// TxRunner is a RowQuerier that can also run fn in one transaction
	TxRunner interface {
		RowQuerier
		Tx(ctx context.Context, fn func(q RowQuerier) error) error
	}

	// Clickhouse is the columnar seam: DDL, native batch inserts and reads
	Clickhouse interface {
		Exec(ctx context.Context, sql string, args ...any) error
		Insert(ctx context.Context, table string, rows [][]any) error
		Query(ctx context.Context, sql string, args ...any) (Rows, error)
		Ping(ctx context.Context) error
		Close() error
	}

	// Pinger is a backend that can report readiness
	Pinger interface{ Ping(context.Context) error }
)

// Open connects every enabled backend. When one fails, those already open are
// closed and the error is returned
func Open(ctx context.Context, cfg Config, opts ...Option) (s *Store, err error) {
	s = &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	defer func() {
		if err != nil {
			_ = s.Close(ctx)
			s = nil
		}
	}()

	if cfg.PG.Enabled {
		if s.PG, err = openPG(ctx, cfg, s); err != nil {
			return s, fmt.Errorf("store: postgres: %w", err)
		}
	}
	if cfg.CH.Enabled {
		if s.CH, err = openCH(ctx, cfg, s); err != nil {
			return s, fmt.Errorf("store: clickhouse: %w", err)
		}
	}
	return s, nil
}

// Guard pings every opened backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	var errs []error
	for name, b := range map[string]any{"pg": s.PG, "ch": s.CH} {
		if p, ok := b.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every opened backend and joins the failures
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
