// Package queue defines the contract for buffering session writes between
// the HTTP surface and the store workers.
package queue

import (
	"context"
	"sync"
	"time"

	"focusboard/internal/domain/model"
	"focusboard/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultBufferSize    = 10000
)

// Write is the payload type flowing through the queue.
type Write = model.SessionWrite

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a write to the queue.
	// Returns false if the queue is full and the write was not enqueued.
	Enqueue(ctx context.Context, w Write) bool

	// Dequeue returns a channel that receives writes as they become
	// available. The channel closes when the queue is closed.
	Dequeue(ctx context.Context) <-chan Write

	// Len returns the current number of queued writes.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, no new writes can be
	// enqueued and the dequeue channel drains then closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	writes     chan Write
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.writes = make(chan Write, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a write to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, w Write) bool {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if len(q.writes) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.writes <- w:
		metrics.RecordQueueEnqueue()
		currentSize := len(q.writes)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that receives writes as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Write {
	out := make(chan Write)
	go func() {
		defer close(out)
		for w := range q.writes {
			select {
			case out <- w:
				metrics.RecordQueueDequeue()
				currentSize := len(q.writes)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				// A write already taken off the channel must not be
				// lost to cancellation.
				q.requeue(w)
				return
			}
		}
	}()
	return out
}

// requeue hands back a write that was taken off the channel but never
// delivered. The slot it occupied is still free, so the non-blocking send
// only misses if an enqueue raced in after the take.
func (q *InMemoryQueue) requeue(w Write) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return
	}
	select {
	case q.writes <- w:
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "requeue_full")
	}
}

// Len returns the current number of queued writes.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.writes)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.writes)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
