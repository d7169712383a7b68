package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"focusboard/internal/domain/model"
	"focusboard/pkg/metrics"

	"github.com/google/uuid"
)

// defaultSubscriberBuffer keeps one pending snapshot per subscriber; with
// coalescing there is never a reason to queue more than the latest.
const defaultSubscriberBuffer = 1

// MemoryStore is an in-memory, append-only session store with full-snapshot
// change notification. It is the single source of truth for the process:
// every read path consumes snapshots, never the live maps.
type MemoryStore struct {
	mu               sync.RWMutex
	collections      map[string]map[string]model.FocusSession
	subs             map[string]map[int]chan Snapshot
	nextSub          int
	closed           bool
	clock            func() time.Time
	subscriberBuffer int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		collections:      make(map[string]map[string]model.FocusSession),
		subs:             make(map[string]map[int]chan Snapshot),
		clock:            time.Now,
		subscriberBuffer: defaultSubscriberBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append persists one session record. The record is normalized on the way
// in and stamped with the store clock when it carries no timestamp, so
// every stored record has a usable creation time.
func (s *MemoryStore) Append(_ context.Context, collection string, session model.FocusSession) (string, error) {
	start := time.Now()

	if session.UserID == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidRecord)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}

	rec := session.Normalized()
	if !rec.HasTimestamp() {
		rec.CreatedAt = s.clock().UnixMilli()
	}

	id := uuid.NewString()
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]model.FocusSession)
		s.collections[collection] = coll
	}
	coll[id] = rec
	count := len(coll)

	snap := s.snapshotLocked(collection)
	s.notifyLocked(collection, snap)
	s.mu.Unlock()

	metrics.UpdateStoreRecords(count)
	metrics.RecordStoreAppendLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	return id, nil
}

// Subscribe registers a snapshot channel for a collection. The current
// snapshot is already buffered when Subscribe returns.
func (s *MemoryStore) Subscribe(_ context.Context, collection string) (<-chan Snapshot, func(), error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, nil, ErrClosed
	}

	ch := make(chan Snapshot, s.subscriberBuffer)
	id := s.nextSub
	s.nextSub++

	subs, ok := s.subs[collection]
	if !ok {
		subs = make(map[int]chan Snapshot)
		s.subs[collection] = subs
	}
	subs[id] = ch

	ch <- s.snapshotLocked(collection)
	total := s.subscriberCountLocked()
	s.mu.Unlock()

	metrics.UpdateStoreSubscribers(total)

	cancel := func() {
		s.mu.Lock()
		if subs, ok := s.subs[collection]; ok {
			if ch, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
		}
		total := s.subscriberCountLocked()
		s.mu.Unlock()
		metrics.UpdateStoreSubscribers(total)
	}
	return ch, cancel, nil
}

// Snapshot returns the current full view of a collection. An unknown
// collection yields an empty snapshot, not an error.
func (s *MemoryStore) Snapshot(_ context.Context, collection string) (Snapshot, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	snap := s.snapshotLocked(collection)
	s.mu.RUnlock()

	metrics.RecordStoreSnapshot()
	return snap, nil
}

// Count returns the number of records in a collection.
func (s *MemoryStore) Count(_ context.Context, collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Close marks the store closed and closes every subscriber channel.
// Closing twice is a no-op.
func (s *MemoryStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for _, subs := range s.subs {
		for id, ch := range subs {
			delete(subs, id)
			close(ch)
		}
	}
	metrics.UpdateStoreSubscribers(0)
	return nil
}

// snapshotLocked copies one collection. Callers hold s.mu.
func (s *MemoryStore) snapshotLocked(collection string) Snapshot {
	coll := s.collections[collection]
	snap := make(Snapshot, len(coll))
	for id, rec := range coll {
		snap[id] = rec
	}
	return snap
}

// notifyLocked pushes a snapshot to every subscriber of a collection,
// coalescing when a subscriber has not drained the previous one. Callers
// hold s.mu.
func (s *MemoryStore) notifyLocked(collection string, snap Snapshot) {
	for _, ch := range s.subs[collection] {
		select {
		case ch <- snap:
		default:
			// Full buffer: drop the stale snapshot so the latest wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// subscriberCountLocked totals subscribers across collections. Callers
// hold s.mu.
func (s *MemoryStore) subscriberCountLocked() int {
	total := 0
	for _, subs := range s.subs {
		total += len(subs)
	}
	return total
}
