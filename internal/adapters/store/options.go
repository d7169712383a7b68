// Package store defines the session store interface and errors.
package store

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock sets the clock used to stamp records that arrive without a
// timestamp. Tests inject a fixed clock here.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber channel depth. Snapshots
// coalesce regardless of depth; a deeper buffer only smooths bursts.
func WithSubscriberBuffer(size int) Option {
	return func(s *MemoryStore) {
		if size > 0 {
			s.subscriberBuffer = size
		}
	}
}
