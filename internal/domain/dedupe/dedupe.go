// Package dedupe tracks request IDs so repeated session submissions are
// accepted at most once.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultMaxSize bounds the tracker at roughly a day of submissions.
const defaultMaxSize = 50000

// Deduper records seen request IDs to ensure at-most-once persistence.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an ID so it can be retried. Used when a submission
	// was marked seen but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// ringDeduper implements Deduper with a fixed-capacity ring. When the ring
// is full the oldest recorded ID is evicted first, so a long-running
// process never grows without bound. maxSize <= 0 disables eviction and
// the tracker degrades to a plain map.
type ringDeduper struct {
	mu      sync.Mutex
	slots   map[string]int // id -> ring index; -1 in unbounded mode
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// New creates a request-ID tracker.
func New(opts ...Option) Deduper {
	d := &ringDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.slots = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *ringDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.slots[id]; ok {
		return true
	}

	slot := -1
	if d.maxSize > 0 {
		if old := d.ring[d.next]; old != "" {
			delete(d.slots, old)
			d.size.Add(-1)
		}
		d.ring[d.next] = id
		slot = d.next
		d.next = (d.next + 1) % d.maxSize
	}
	d.slots[id] = slot
	d.size.Add(1)
	return false
}

func (d *ringDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.slots[id]
	if !ok {
		return
	}
	if slot >= 0 {
		d.ring[slot] = ""
	}
	delete(d.slots, id)
	d.size.Add(-1)
}

func (d *ringDeduper) Size() int64 {
	return d.size.Load()
}
