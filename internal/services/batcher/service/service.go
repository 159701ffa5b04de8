// Package service implements the request queue, batch aggregator and front door
package service

import (
	"context"
	"time"

	dom "embedbatch/internal/services/batcher/domain"

	"golang.org/x/sync/errgroup"
)

// Service implements every port the batcher module exposes
type Service interface {
	dom.EmbedPort
	dom.StatsPort
	dom.WorkerPort
}

// Svc is the front door over one queue and its aggregator
type Svc struct {
	cfg   dom.Config
	q     *Queue
	agg   *Aggregator
	stats *counters
	now   func() time.Time
}

var _ Service = (*Svc)(nil)

// New validates cfg and wires a queue and aggregator around backend
// the aggregator does not start until Run is called
func New(cfg dom.Config, backend dom.Backend, obs ...dom.Observer) (*Svc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	q := NewQueue(cfg.QueueCapacity)
	st := &counters{}
	return &Svc{
		cfg:   cfg,
		q:     q,
		agg:   newAggregator(cfg, q, backend, st, obs),
		stats: st,
		now:   time.Now,
	}, nil
}

// Run drives the aggregator; returns after Close (or ctx cancel) once pending records drain
func (s *Svc) Run(ctx context.Context) error { return s.agg.Run(ctx) }

// Close stops accepting records; the aggregator drains what is queued and exits
func (s *Svc) Close() { s.q.Close() }

// Done is closed when the aggregator has exited
func (s *Svc) Done() <-chan struct{} { return s.agg.Done() }

// State returns the aggregator state
func (s *Svc) State() dom.State { return s.agg.State() }

// Stats returns a snapshot of the aggregator counters
func (s *Svc) Stats() dom.Stats {
	return s.stats.snapshot(s.agg.State(), s.q.Len(), s.q.Closed())
}

// QueueClosed reports whether new records are refused
func (s *Svc) QueueClosed() bool { return s.q.Closed() }

// Embed submits each input and returns embeddings in input order
// the first failure ends the call; records already enqueued are not withdrawn
func (s *Svc) Embed(ctx context.Context, inputs []string) ([]dom.EmbedResult, error) {
	if len(inputs) == 0 {
		return []dom.EmbedResult{}, nil
	}
	if s.cfg.FanOut {
		return s.embedFanOut(ctx, inputs)
	}
	out := make([]dom.EmbedResult, 0, len(inputs))
	for _, in := range inputs {
		req, err := s.submit(ctx, in)
		if err != nil {
			return nil, err
		}
		res, err := s.await(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// embedFanOut enqueues every input before awaiting, so one call can fill a batch on its own
func (s *Svc) embedFanOut(ctx context.Context, inputs []string) ([]dom.EmbedResult, error) {
	reqs := make([]*dom.Request, 0, len(inputs))
	for _, in := range inputs {
		req, err := s.submit(ctx, in)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	out := make([]dom.EmbedResult, len(reqs))
	errs := make([]error, len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			out[i], errs[i] = s.await(ctx, req)
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return out, nil
	}
	// report the first failure in input order, not completion order
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Svc) submit(ctx context.Context, payload string) (*dom.Request, error) {
	req := dom.NewRequest(payload, s.now())
	if err := s.q.Submit(ctx, req); err != nil {
		return nil, err
	}
	s.stats.submitted.Add(1)
	return req, nil
}

// await waits for the single reply to req
// if the aggregator exits without answering, the record is reported as aborted
func (s *Svc) await(ctx context.Context, req *dom.Request) (dom.EmbedResult, error) {
	select {
	case res := <-req.Reply:
		return res.Embedding, res.Err
	case <-s.agg.Done():
		select {
		case res := <-req.Reply:
			return res.Embedding, res.Err
		default:
			return dom.EmbedResult{}, dom.ErrWorkerAborted
		}
	case <-ctx.Done():
		return dom.EmbedResult{}, ctx.Err()
	}
}
