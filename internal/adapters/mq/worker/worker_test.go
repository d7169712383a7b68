package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"focusboard/internal/adapters/mq/queue"
	"focusboard/internal/adapters/mq/worker"
	"focusboard/internal/domain/model"
	"focusboard/pkg/logger"

	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeAppender struct {
	mu       sync.Mutex
	appended []model.FocusSession
	err      error
}

func (f *fakeAppender) Append(_ context.Context, _ string, s model.FocusSession) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, s)
	return "rec-1", nil
}

func (f *fakeAppender) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeAppender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorker_PersistsWrites(t *testing.T) {
	Convey("Given a worker draining a queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))
		defer q.Close()

		appender := &fakeAppender{}
		w := worker.NewInMemoryWorker(q, appender, "focus_sessions", worker.WithName("worker-test"))
		go w.Run(ctx)

		Convey("When a write is enqueued", func() {
			ok := q.Enqueue(ctx, worker.Write{
				RequestID: "req-1",
				Session:   model.FocusSession{UserID: "u1", Username: "ada", FocusedSeconds: 1500},
			})
			So(ok, ShouldBeTrue)

			Convey("Then the session reaches the store", func() {
				So(waitFor(func() bool { return appender.count() == 1 }), ShouldBeTrue)
			})
		})

		Convey("When the store rejects a write", func() {
			appender.setErr(errors.New("store unavailable"))
			ok := q.Enqueue(ctx, worker.Write{
				RequestID: "req-2",
				Session:   model.FocusSession{UserID: "u1", FocusedSeconds: 60},
			})
			So(ok, ShouldBeTrue)

			Convey("Then the write is dropped without retry and the worker keeps running", func() {
				So(waitFor(func() bool { return q.Len(ctx) == 0 }), ShouldBeTrue)

				appender.setErr(nil)
				ok := q.Enqueue(ctx, worker.Write{
					RequestID: "req-3",
					Session:   model.FocusSession{UserID: "u2", FocusedSeconds: 120},
				})
				So(ok, ShouldBeTrue)
				So(waitFor(func() bool { return appender.count() == 1 }), ShouldBeTrue)
			})
		})
	})
}

func TestWorker_Shutdown(t *testing.T) {
	Convey("Given a running worker", t, func() {
		ctx := context.Background()

		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))
		defer q.Close()

		appender := &fakeAppender{}
		w := worker.NewInMemoryWorker(q, appender, "focus_sessions")
		go w.Run(ctx)

		Convey("When shutting down", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			Convey("Then the worker stops cleanly", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers over one queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100), queue.WithBufferSize(100))
		appender := &fakeAppender{}
		pool := worker.NewPool(4, q, appender, "focus_sessions")
		pool.Start(ctx)

		Convey("When many writes are enqueued", func() {
			for i := 0; i < 50; i++ {
				ok := q.Enqueue(ctx, worker.Write{
					Session: model.FocusSession{UserID: "u1", FocusedSeconds: 60},
				})
				So(ok, ShouldBeTrue)
			}

			Convey("Then every write is persisted exactly once", func() {
				So(waitFor(func() bool { return appender.count() == 50 }), ShouldBeTrue)
			})
		})

		Convey("When shutting the pool down", func() {
			err := pool.Shutdown(ctx)

			Convey("Then the queue is closed and workers exit", func() {
				So(err, ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
