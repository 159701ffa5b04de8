package service

import (
	"context"
	"sync/atomic"
	"time"

	perr "embedbatch/internal/platform/errors"
	"embedbatch/internal/platform/logger"

	dom "embedbatch/internal/services/batcher/domain"
)

// Aggregator is the single consumer of the queue
// it owns all batch state; nothing else reads from the queue
type Aggregator struct {
	cfg     dom.Config
	q       *Queue
	backend dom.Backend
	obs     []dom.Observer
	stats   *counters
	log     logger.Logger
	now     func() time.Time

	state   atomic.Int32
	started atomic.Bool
	done    chan struct{}
}

func newAggregator(cfg dom.Config, q *Queue, backend dom.Backend, stats *counters, obs []dom.Observer) *Aggregator {
	return &Aggregator{
		cfg:     cfg,
		q:       q,
		backend: backend,
		obs:     obs,
		stats:   stats,
		log:     *logger.Named("batcher"),
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// State returns the current loop state
func (a *Aggregator) State() dom.State { return dom.State(a.state.Load()) }

// Done is closed when Run has returned
func (a *Aggregator) Done() <-chan struct{} { return a.done }

func (a *Aggregator) setState(s dom.State) { a.state.Store(int32(s)) }

// Run collects and dispatches batches until the queue is closed and drained
// cancelling ctx closes the queue; records already buffered are still dispatched
func (a *Aggregator) Run(ctx context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return perr.Conflictf("aggregator already running")
	}
	defer close(a.done)
	defer a.setState(dom.StateShutdown)

	stop := context.AfterFunc(ctx, a.q.Close)
	defer stop()

	// in-flight batches finish against the backend even while shutting down
	callCtx := context.WithoutCancel(ctx)

	a.log.Info().
		Int("max_batch_size", a.cfg.MaxBatchSize).
		Dur("max_wait", a.cfg.MaxWait).
		Int("queue_capacity", a.cfg.QueueCapacity).
		Msg("batch aggregator started")

	for {
		a.setState(dom.StateAwaitingFirst)
		first, ok := a.awaitFirst()
		if !ok {
			a.log.Info().Msg("batch queue closed; aggregator stopped")
			return nil
		}
		b := a.collect(first)
		a.flush(callCtx, b)
	}
}

// awaitFirst blocks for the record that opens the next batch
// after Close it keeps returning buffered records until none remain
func (a *Aggregator) awaitFirst() (*dom.Request, bool) {
	select {
	case r := <-a.q.ch:
		return r, true
	case <-a.q.closing:
		return a.q.tryRecv()
	}
}

// collect fills a batch until it is full, the timer fires, or the queue drains after Close
// the timer starts at the first record and is never restarted
func (a *Aggregator) collect(first *dom.Request) *dom.Batch {
	a.setState(dom.StateCollecting)
	b := dom.NewBatch(first, a.now(), a.cfg.MaxBatchSize)
	b.Reason = dom.ReasonSize

	timer := time.NewTimer(a.cfg.MaxWait)
	defer timer.Stop()

	for b.Len() < a.cfg.MaxBatchSize {
		// records already waiting are taken before the timer is honoured
		if r, ok := a.q.tryRecv(); ok {
			b.Add(r)
			continue
		}
		select {
		case r := <-a.q.ch:
			b.Add(r)
		case <-timer.C:
			b.Reason = dom.ReasonTimer
			b.ClosedAt = a.now()
			return b
		case <-a.q.closing:
			if r, ok := a.q.tryRecv(); ok {
				b.Add(r)
				continue
			}
			b.Reason = dom.ReasonDrain
			b.ClosedAt = a.now()
			return b
		}
	}
	b.ClosedAt = a.now()
	return b
}

// flush sends one batch to the backend and routes the outcome back to callers
func (a *Aggregator) flush(ctx context.Context, b *dom.Batch) {
	a.setState(dom.StateDispatching)

	start := a.now()
	embeddings, err := a.backend.Embed(ctx, b.Payloads)
	took := a.now().Sub(start)

	results, out := resolve(b, embeddings, err)

	// counters and observers settle before any caller wakes up
	a.stats.record(b, out)
	a.observe(b, out, took, start)
	deliver(b, results)

	switch {
	case err != nil:
		a.log.Error().Err(err).
			Str("batch_id", b.ID.String()).
			Int("size", b.Len()).
			Dur("backend", took).
			Msg("backend call failed; failing whole batch")
	case out.Aborted > 0:
		a.log.Warn().
			Str("batch_id", b.ID.String()).
			Int("expected", b.Len()).
			Int("got", len(embeddings)).
			Msg("backend returned fewer embeddings than inputs")
	case out.Extra > 0:
		a.log.Warn().
			Str("batch_id", b.ID.String()).
			Int("expected", b.Len()).
			Int("got", len(embeddings)).
			Msg("backend returned more embeddings than inputs; extras ignored")
	default:
		a.log.Debug().
			Str("batch_id", b.ID.String()).
			Int("size", b.Len()).
			Str("reason", string(b.Reason)).
			Dur("window", b.Window()).
			Dur("backend", took).
			Msg("batch dispatched")
	}
}

func (a *Aggregator) observe(b *dom.Batch, out dom.Outcome, took time.Duration, start time.Time) {
	if len(a.obs) == 0 {
		return
	}
	o := dom.Observation{
		BatchID:      b.ID,
		Size:         b.Len(),
		Reason:       b.Reason,
		Window:       b.Window(),
		Backend:      took,
		Outcome:      out,
		QueueDepth:   a.q.Len(),
		DispatchedAt: start,
	}
	for _, ob := range a.obs {
		ob.Observe(o)
	}
}
