package repo

import (
	"context"

	"embedbatch/internal/platform/store"
	"embedbatch/internal/services/ledger/domain"
)

// CH is the clickhouse ledger sink
type CH struct{ c store.Clickhouse }

var _ domain.Storage = (*CH)(nil)

// NewCH binds the sink to a clickhouse seam
func NewCH(c store.Clickhouse) *CH { return &CH{c: c} }

// EnsureSchema creates the MergeTree table ordered by dispatch time
func (s *CH) EnsureSchema(ctx context.Context) error {
	return s.c.Exec(ctx, `CREATE TABLE IF NOT EXISTS batch_ledger (
		batch_id      UUID,
		size          UInt32,
		reason        LowCardinality(String),
		window_ms     Float64,
		backend_ms    Float64,
		outcome       LowCardinality(String),
		delivered     UInt32,
		failed        UInt32,
		aborted       UInt32,
		error         String,
		dispatched_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (dispatched_at, batch_id)`)
}

// WriteBatch appends all records as one native batch
func (s *CH) WriteBatch(ctx context.Context, xs []domain.Record) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, r := range xs {
		rows = append(rows, []any{
			r.BatchID, uint32(r.Size), r.Reason, r.WindowMs, r.BackendMs, r.Outcome,
			uint32(r.Delivered), uint32(r.Failed), uint32(r.Aborted), r.Error, r.DispatchedAt.UTC(),
		})
	}
	return s.c.Insert(ctx, "batch_ledger", rows)
}

// Recent returns the newest records first
func (s *CH) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	rows, err := s.c.Query(ctx, `
		SELECT batch_id, size, reason, window_ms, backend_ms, outcome,
			delivered, failed, aborted, error, dispatched_at
		FROM batch_ledger
		ORDER BY dispatched_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var r domain.Record
		var size, delivered, failed, aborted uint32
		if err := rows.Scan(&r.BatchID, &size, &r.Reason, &r.WindowMs, &r.BackendMs, &r.Outcome,
			&delivered, &failed, &aborted, &r.Error, &r.DispatchedAt); err != nil {
			return nil, err
		}
		r.Size, r.Delivered, r.Failed, r.Aborted = int(size), int(delivered), int(failed), int(aborted)
		out = append(out, r)
	}
	return out, rows.Err()
}
