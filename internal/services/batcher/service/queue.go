package service

import (
	"context"
	"sync"

	dom "embedbatch/internal/services/batcher/domain"
)

// Queue is a bounded FIFO of pending requests with a single consumer
// the record channel is never closed; closing is signalled separately so
// late senders can never panic on a closed channel
type Queue struct {
	ch      chan *dom.Request
	closing chan struct{}
	once    sync.Once
}

// NewQueue builds a queue holding at most capacity records
func NewQueue(capacity int) *Queue {
	return &Queue{
		ch:      make(chan *dom.Request, max(1, capacity)),
		closing: make(chan struct{}),
	}
}

// Submit enqueues r, blocking while the queue is full
// returns ErrQueueClosed once Close has been called and ctx.Err() if the caller gives up first
func (q *Queue) Submit(ctx context.Context, r *dom.Request) error {
	select {
	case <-q.closing:
		return dom.ErrQueueClosed
	default:
	}
	select {
	case q.ch <- r:
		return nil
	case <-q.closing:
		return dom.ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new records; safe to call more than once
func (q *Queue) Close() { q.once.Do(func() { close(q.closing) }) }

// Closed reports whether Close has been called
func (q *Queue) Closed() bool {
	select {
	case <-q.closing:
		return true
	default:
		return false
	}
}

// Len returns the number of buffered records
func (q *Queue) Len() int { return len(q.ch) }

// tryRecv takes a buffered record without blocking
func (q *Queue) tryRecv() (*dom.Request, bool) {
	select {
	case r := <-q.ch:
		return r, true
	default:
		return nil, false
	}
}
