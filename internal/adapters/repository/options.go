package repository

import (
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/logger"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/metrics"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithCollections overrides collection names. Empty names keep their default.
func WithCollections(c Collections) Option {
	return func(l *Loader) {
		l.collections = c.withDefaults()
	}
}

// WithResolver sets the resolver used to canonicalize universities.
func WithResolver(r *alias.Resolver) Option {
	return func(l *Loader) {
		if r != nil {
			l.resolver = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(l *Loader) {
		if m != nil {
			l.metrics = m
		}
	}
}

// WithClock sets the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// WithFetchTimeout bounds each collection read.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.fetchTimeout = d
		}
	}
}
