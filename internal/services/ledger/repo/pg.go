// Package repo provides the ledger sinks
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"embedbatch/internal/modkit/repokit"
	perr "embedbatch/internal/platform/errors"
	"embedbatch/internal/platform/store"
	"embedbatch/internal/services/ledger/domain"

	"github.com/google/uuid"
)

type (
	pg       struct{ q repokit.Queryer }
	pgBinder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[domain.Storage] { return pgBinder{} }

// Bind implements repokit.Binder
func (pgBinder) Bind(q repokit.Queryer) domain.Storage { return &pg{q: q} }

const pgCols = 11

// LockTimeout bounds how long schema changes wait on table locks
func LockTimeout(d time.Duration) repokit.BeginHook {
	return func(ctx context.Context, q repokit.Queryer) error {
		_, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", d.Milliseconds()))
		return err
	}
}

// EnsureSchema creates the ledger table and its time index, in one tx when q can run one
func (s *pg) EnsureSchema(ctx context.Context) error {
	if tx, ok := s.q.(repokit.TxRunner); ok {
		return perr.FromPostgres(repokit.WithTx(ctx, tx, func(q repokit.Queryer) error {
			return ensureSchema(ctx, q)
		}), "ledger schema")
	}
	return perr.FromPostgres(ensureSchema(ctx, s.q), "ledger schema")
}

func ensureSchema(ctx context.Context, q repokit.Queryer) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batch_ledger (
			batch_id      uuid PRIMARY KEY,
			size          integer NOT NULL,
			reason        text NOT NULL,
			window_ms     double precision NOT NULL,
			backend_ms    double precision NOT NULL,
			outcome       text NOT NULL,
			delivered     integer NOT NULL DEFAULT 0,
			failed        integer NOT NULL DEFAULT 0,
			aborted       integer NOT NULL DEFAULT 0,
			error         text NOT NULL DEFAULT '',
			dispatched_at timestamptz NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS batch_ledger_dispatched_at_idx ON batch_ledger (dispatched_at DESC)`,
	}
	for _, sql := range stmts {
		if _, err := q.Exec(ctx, sql); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch inserts all records in one statement
func (s *pg) WriteBatch(ctx context.Context, xs []domain.Record) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO batch_ledger
		(batch_id, size, reason, window_ms, backend_ms, outcome,
		delivered, failed, aborted, error, dispatched_at) VALUES `)

	args := make([]any, 0, len(xs)*pgCols)
	for i, r := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*pgCols + 1
		fmt.Fprintf(&sb, "($%d::uuid,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9, base+10)

		args = append(args,
			r.BatchID.String(), r.Size, r.Reason, r.WindowMs, r.BackendMs, r.Outcome,
			r.Delivered, r.Failed, r.Aborted, r.Error, r.DispatchedAt,
		)
	}
	sb.WriteString(` ON CONFLICT (batch_id) DO NOTHING`)
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return perr.FromPostgres(err, "ledger insert")
}

// Recent returns the newest records first
func (s *pg) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	return store.Many(ctx, s.q, scanPG, `
		SELECT batch_id::text, size, reason, window_ms, backend_ms, outcome,
			delivered, failed, aborted, error, dispatched_at
		FROM batch_ledger
		ORDER BY dispatched_at DESC
		LIMIT $1`, limit)
}

func scanPG(row store.Row) (domain.Record, error) {
	var (
		r  domain.Record
		id string
	)
	if err := row.Scan(&id, &r.Size, &r.Reason, &r.WindowMs, &r.BackendMs, &r.Outcome,
		&r.Delivered, &r.Failed, &r.Aborted, &r.Error, &r.DispatchedAt); err != nil {
		return r, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return r, err
	}
	r.BatchID = parsed
	return r, nil
}
