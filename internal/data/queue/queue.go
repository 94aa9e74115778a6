// Package queue hands discovered files from the discovery walk to the
// analysis consumer.
package queue

import (
	"context"
	"io"
	"phanalist/internal/shared/observability"
	"sync"
	"time"
)

// Job is one discovered file.
type Job struct {
	Path    string
	Content []byte
}

// MemoryQueue is an unbounded FIFO. Producers never block; jobs come out in
// the order they went in. It is meant for a single consumer.
type MemoryQueue struct {
	mu     sync.Mutex
	items  []Job
	notify chan struct{}
	closed bool
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{notify: make(chan struct{}, 1)}
}

// Enqueue appends job. It reports false once the queue is closed.
func (q *MemoryQueue) Enqueue(job Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, job)
	observability.QueueDepth.Set(float64(len(q.items)))
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// DequeueBatch waits for at least one job and returns up to maxItems jobs.
// With wait > 0 it gives up after wait and returns an empty batch. It
// returns io.EOF once the queue is closed and drained.
func (q *MemoryQueue) DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]Job, error) {
	if maxItems <= 0 {
		maxItems = 1
	}

	var timer <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timer = t.C
	}

	for {
		if batch, ready, err := q.take(maxItems); ready {
			return batch, err
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer:
			return nil, nil
		}
	}
}

// take pops up to maxItems jobs. ready is false when the caller has to wait.
func (q *MemoryQueue) take(maxItems int) (batch []Job, ready bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		if q.closed {
			return nil, true, io.EOF
		}
		return nil, false, nil
	}
	n := min(maxItems, len(q.items))
	batch = make([]Job, n)
	copy(batch, q.items)
	clear(q.items[:n])
	q.items = q.items[n:]
	observability.QueueDepth.Set(float64(len(q.items)))
	return batch, true, nil
}

// Close stops accepting jobs. Jobs already queued can still be dequeued.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.notify)
	return nil
}

func (q *MemoryQueue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
