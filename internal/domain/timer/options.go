package timer

// Option applies a configuration option to the Timer.
type Option func(*Timer)

// WithSessionSeconds sets the full interval length.
func WithSessionSeconds(seconds int) Option {
	return func(t *Timer) {
		if seconds > 0 {
			t.sessionSeconds = seconds
		}
	}
}

// WithFlushFunc sets the callback that persists finished intervals.
func WithFlushFunc(f FlushFunc) Option {
	return func(t *Timer) {
		if f != nil {
			t.flush = f
		}
	}
}
