package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Backend turns an ordered list of inputs into an ordered list of embeddings
// one call per batch; implementations do not retry
type Backend interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Observation describes one dispatched batch for side channels
type Observation struct {
	BatchID      uuid.UUID
	Size         int
	Reason       CloseReason
	Window       time.Duration
	Backend      time.Duration
	Outcome      Outcome
	QueueDepth   int
	DispatchedAt time.Time
}

// Observer receives an Observation after every dispatch
// Observe runs on the aggregator goroutine and must not block
type Observer interface {
	Observe(o Observation)
}

// ObserverFunc adapts a func to Observer
type ObserverFunc func(Observation)

// Observe implements Observer
func (f ObserverFunc) Observe(o Observation) { f(o) }

// EmbedPort is the front door used by transports
type EmbedPort interface {
	Embed(ctx context.Context, inputs []string) ([]EmbedResult, error)
}

// StatsPort exposes aggregator counters
type StatsPort interface {
	Stats() Stats
}

// WorkerPort runs the aggregator loop until the queue is closed and drained
type WorkerPort interface {
	Run(ctx context.Context) error
	Close()
	Done() <-chan struct{}
}
