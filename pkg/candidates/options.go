package candidates

import (
	"time"

	"github.com/rs/zerolog"
)

type options struct {
	debounce time.Duration
	cacheTTL time.Duration
	logger   zerolog.Logger
	onResult func(Result)
}

// Option configures a Resolver.
type Option func(*options)

// WithDebounce overrides the quiet period before a lookup is sent.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithCacheTTL sets how long successful lookups are reused. Zero disables
// caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.cacheTTL = ttl
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOnResult registers a callback invoked for each published result, in
// sequence order.
func WithOnResult(fn func(Result)) Option {
	return func(o *options) {
		o.onResult = fn
	}
}
