package dedupe

// Option applies a configuration option to the tracker.
type Option func(*tracker)

// WithExpectedSize pre-sizes each namespace for about n ids.
func WithExpectedSize(n int) Option {
	return func(t *tracker) {
		if n > 0 {
			t.hint = n
		}
	}
}
