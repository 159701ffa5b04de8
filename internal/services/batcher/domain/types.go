// Package domain defines the batcher types and ports
package domain

import (
	"time"

	perr "embedbatch/internal/platform/errors"

	"github.com/google/uuid"
)

// Config controls batch formation; immutable once the aggregator runs
type Config struct {
	MaxBatchSize  int
	MaxWait       time.Duration
	QueueCapacity int

	// FanOut submits every input of one call before awaiting any reply
	FanOut bool
}

// Validate rejects configs the aggregator cannot run with
func (c Config) Validate() error {
	switch {
	case c.MaxBatchSize <= 0:
		return perr.InvalidArgf("max batch size must be positive, got %d", c.MaxBatchSize)
	case c.MaxWait < 0:
		return perr.InvalidArgf("max wait must not be negative, got %s", c.MaxWait)
	case c.QueueCapacity <= 0:
		return perr.InvalidArgf("queue capacity must be positive, got %d", c.QueueCapacity)
	}
	return nil
}

// EmbedResult is one embedding as returned to callers
type EmbedResult struct {
	Embedding []float32 `json:"embedding"`
}

// Result is what a reply path carries: an embedding or an error, never both
type Result struct {
	Embedding EmbedResult
	Err       error
}

// Request is one unit of work waiting in the queue
// Reply has capacity 1 and receives exactly one Result
type Request struct {
	Payload    string
	Reply      chan Result
	EnqueuedAt time.Time
}

// NewRequest builds a request with a fresh single-use reply path
func NewRequest(payload string, now time.Time) *Request {
	return &Request{
		Payload:    payload,
		Reply:      make(chan Result, 1),
		EnqueuedAt: now,
	}
}

// CloseReason records why a batch stopped collecting
type CloseReason string

const (
	// ReasonSize means the batch reached MaxBatchSize
	ReasonSize CloseReason = "size"
	// ReasonTimer means MaxWait elapsed since the first record
	ReasonTimer CloseReason = "timer"
	// ReasonDrain means the queue closed while collecting
	ReasonDrain CloseReason = "drain"
)

// Batch is the set of records sent to the backend in one call
// Payloads and Replies share enqueue order and length
type Batch struct {
	ID       uuid.UUID
	Payloads []string
	Replies  []chan<- Result
	OpenedAt time.Time
	ClosedAt time.Time
	Reason   CloseReason
}

// NewBatch opens a batch around its first record
func NewBatch(first *Request, openedAt time.Time, capacity int) *Batch {
	b := &Batch{
		ID:       uuid.New(),
		Payloads: make([]string, 0, capacity),
		Replies:  make([]chan<- Result, 0, capacity),
		OpenedAt: openedAt,
	}
	b.Add(first)
	return b
}

// Add appends a record
func (b *Batch) Add(r *Request) {
	b.Payloads = append(b.Payloads, r.Payload)
	b.Replies = append(b.Replies, r.Reply)
}

// Len returns the number of records in the batch
func (b *Batch) Len() int { return len(b.Payloads) }

// Window is the time the batch spent collecting
func (b *Batch) Window() time.Duration {
	if b.ClosedAt.IsZero() {
		return 0
	}
	return b.ClosedAt.Sub(b.OpenedAt)
}

// Outcome summarizes how a dispatched batch was delivered
type Outcome struct {
	Delivered int
	Failed    int
	Aborted   int
	Extra     int
	Err       error
}

// Status is a short label used by metrics and the ledger
func (o Outcome) Status() string {
	switch {
	case o.Err != nil:
		return "failed"
	case o.Aborted > 0:
		return "short"
	default:
		return "ok"
	}
}
