package service

import (
	"sync/atomic"

	dom "embedbatch/internal/services/batcher/domain"
)

// counters are written by the aggregator and read by Stats
type counters struct {
	submitted atomic.Int64
	batches   atomic.Int64
	bySize    atomic.Int64
	byTimer   atomic.Int64
	byDrain   atomic.Int64
	records   atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
	aborted   atomic.Int64
}

func (c *counters) record(b *dom.Batch, out dom.Outcome) {
	c.batches.Add(1)
	c.records.Add(int64(b.Len()))
	switch b.Reason {
	case dom.ReasonSize:
		c.bySize.Add(1)
	case dom.ReasonTimer:
		c.byTimer.Add(1)
	case dom.ReasonDrain:
		c.byDrain.Add(1)
	}
	c.delivered.Add(int64(out.Delivered))
	c.failed.Add(int64(out.Failed))
	c.aborted.Add(int64(out.Aborted))
}

func (c *counters) snapshot(state dom.State, queued int, closed bool) dom.Stats {
	s := dom.Stats{
		State:       state.String(),
		Submitted:   c.submitted.Load(),
		Batches:     c.batches.Load(),
		BySize:      c.bySize.Load(),
		ByTimer:     c.byTimer.Load(),
		ByDrain:     c.byDrain.Load(),
		Delivered:   c.delivered.Load(),
		Failed:      c.failed.Load(),
		Aborted:     c.aborted.Load(),
		Queued:      queued,
		QueueClosed: closed,
	}
	if s.Batches > 0 {
		s.AvgBatchSize = float64(c.records.Load()) / float64(s.Batches)
	}
	return s
}
