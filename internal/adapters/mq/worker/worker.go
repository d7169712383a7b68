// Package worker drains queued session writes into the store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"focusboard/internal/domain/model"
	"focusboard/pkg/logger"
	"focusboard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Write is what workers read off the queue.
type Write = model.SessionWrite

// Appender persists one session record.
type Appender interface {
	Append(ctx context.Context, collection string, session model.FocusSession) (string, error)
}

// Queue defines how workers receive writes.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Write
}

// Worker processes queued writes until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for persisting session writes.
type InMemoryWorker struct {
	queue      Queue
	appender   Appender
	collection string
	name       string

	shutdown chan struct{}
	done     chan struct{}

	processed *atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, appender Appender, collection string, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		appender:   appender,
		collection: collection,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	writes := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case write, ok := <-writes:
			if !ok {
				return
			}
			if err := w.processWrite(ctx, write); err != nil {
				w.logger.Error(ctx, "error persisting session write", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processWrite persists a single session write. Failures are terminal;
// there is no retry, the error is reported and the write dropped.
func (w *InMemoryWorker) processWrite(ctx context.Context, write Write) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if _, err := w.appender.Append(ctx, w.collection, write.Session); err != nil {
		metrics.RecordSessionSaveError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_append_error")
		metrics.RecordErrorByType("store_append_error", "high")
		w.logger.Error(ctx, "store append failed for write",
			logger.String("requestID", write.RequestID),
			logger.String("userID", write.Session.UserID),
			logger.Error(err),
		)
		return fmt.Errorf("store append failed: %w", err)
	}

	metrics.RecordSessionSaved(write.Session.FocusedSeconds)
	if w.processed != nil {
		w.processed.Add(1)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	appender   Appender
	collection string

	shutdown chan struct{}
	done     chan struct{}

	processedCount    atomic.Int64
	lastProcessedTime time.Time

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, appender Appender, collection string) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		appender:          appender,
		collection:        collection,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		w := NewInMemoryWorker(
			queue,
			appender,
			collection,
			WithName("worker-"+strconv.Itoa(i)),
		)
		w.processed = &pool.processedCount
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater periodically refreshes worker throughput metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(p.processedCount.Swap(0)) / timeDiff)
	}
	p.lastProcessedTime = now
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue, then stops the workers, letting them drain
// what is already buffered.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
