// Package service buffers batch observations and writes them to the ledger sink
package service

import (
	"context"
	"time"

	perr "embedbatch/internal/platform/errors"
	"embedbatch/internal/platform/logger"
	"embedbatch/internal/platform/metrics"

	bdom "embedbatch/internal/services/batcher/domain"
	dom "embedbatch/internal/services/ledger/domain"
)

// Config controls buffering and flush cadence
type Config struct {
	// Buffer is the number of records held before Observe starts dropping
	Buffer int
	// FlushSize writes as soon as this many records are pending
	FlushSize int
	// FlushEvery writes whatever is pending on this cadence
	FlushEvery time.Duration
	// HardLimit caps Recent
	HardLimit int
}

func (c Config) withDefaults() Config {
	if c.Buffer <= 0 {
		c.Buffer = 256
	}
	if c.FlushSize <= 0 {
		c.FlushSize = 64
	}
	if c.FlushEvery <= 0 {
		c.FlushEvery = time.Second
	}
	if c.HardLimit <= 0 {
		c.HardLimit = 500
	}
	return c
}

// Recorder is a batcher observer backed by a ledger sink
// Observe never blocks the aggregator; Run owns every sink write
type Recorder struct {
	storage dom.Storage
	cfg     Config
	buf     chan dom.Record
	mc      *metrics.Collector
	log     logger.Logger
	done    chan struct{}
}

var (
	_ bdom.Observer  = (*Recorder)(nil)
	_ dom.ReaderPort = (*Recorder)(nil)
)

// New constructs a Recorder; mc may be nil
func New(storage dom.Storage, cfg Config, mc *metrics.Collector) *Recorder {
	cfg = cfg.withDefaults()
	return &Recorder{
		storage: storage,
		cfg:     cfg,
		buf:     make(chan dom.Record, cfg.Buffer),
		mc:      mc,
		log:     *logger.Named("ledger"),
		done:    make(chan struct{}),
	}
}

// EnsureSchema prepares the sink
func (r *Recorder) EnsureSchema(ctx context.Context) error { return r.storage.EnsureSchema(ctx) }

// FromObservation converts a batcher observation into a ledger record
func FromObservation(o bdom.Observation) dom.Record {
	rec := dom.Record{
		BatchID:      o.BatchID,
		Size:         o.Size,
		Reason:       string(o.Reason),
		WindowMs:     float64(o.Window) / float64(time.Millisecond),
		BackendMs:    float64(o.Backend) / float64(time.Millisecond),
		Outcome:      o.Outcome.Status(),
		Delivered:    o.Outcome.Delivered,
		Failed:       o.Outcome.Failed,
		Aborted:      o.Outcome.Aborted,
		DispatchedAt: o.DispatchedAt.UTC(),
	}
	if o.Outcome.Err != nil {
		rec.Error = o.Outcome.Err.Error()
	}
	return rec
}

// Observe implements the batcher observer; a full buffer drops the record
func (r *Recorder) Observe(o bdom.Observation) {
	select {
	case r.buf <- FromObservation(o):
	default:
		r.mc.LedgerDropped()
		r.log.Warn().Str("batch_id", o.BatchID.String()).Msg("ledger buffer full; record dropped")
	}
}

// Done is closed when Run has returned
func (r *Recorder) Done() <-chan struct{} { return r.done }

// Run flushes by size or cadence until ctx is cancelled, then writes what is left
func (r *Recorder) Run(ctx context.Context) error {
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.FlushEvery)
	defer ticker.Stop()

	pending := make([]dom.Record, 0, r.cfg.FlushSize)
	for {
		select {
		case rec := <-r.buf:
			pending = append(pending, rec)
			if len(pending) >= r.cfg.FlushSize {
				pending = r.flush(ctx, pending)
			}
		case <-ticker.C:
			pending = r.flush(ctx, pending)
		case <-ctx.Done():
		drain:
			for {
				select {
				case rec := <-r.buf:
					pending = append(pending, rec)
				default:
					break drain
				}
			}
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			r.flush(fctx, pending)
			cancel()
			r.log.Info().Msg("ledger writer stopped")
			return nil
		}
	}
}

// flush writes pending and returns what is left to write
// transient sink errors keep the records for the next flush while they fit the buffer
func (r *Recorder) flush(ctx context.Context, pending []dom.Record) []dom.Record {
	if len(pending) == 0 {
		return pending
	}
	if err := r.storage.WriteBatch(ctx, pending); err != nil {
		if perr.Retryable(err) && len(pending) < r.cfg.Buffer {
			r.log.Warn().Err(err).Int("records", len(pending)).Msg("ledger write failed; will retry")
			return pending
		}
		r.log.Warn().Err(err).Int("records", len(pending)).Msg("ledger write failed; records dropped")
	} else {
		r.log.Debug().Int("records", len(pending)).Msg("ledger flushed")
	}
	return pending[:0]
}

// Recent returns up to limit records, newest first
func (r *Recorder) Recent(ctx context.Context, limit int) ([]dom.Record, error) {
	switch {
	case limit <= 0:
		limit = min(50, r.cfg.HardLimit)
	case limit > r.cfg.HardLimit:
		limit = r.cfg.HardLimit
	}
	out, err := r.storage.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []dom.Record{}
	}
	return out, nil
}
