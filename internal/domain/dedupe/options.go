package dedupe

// Option configures the tracker.
type Option func(*ringDeduper)

// WithMaxSize bounds how many request IDs are remembered before the oldest
// are evicted. Zero or negative disables eviction.
func WithMaxSize(size int) Option {
	return func(d *ringDeduper) {
		d.maxSize = size
	}
}
