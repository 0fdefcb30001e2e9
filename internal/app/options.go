package service

import (
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/adapters/repository"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/logger"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock sets the time source used for "now" in every report.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithResolver sets the alias resolver used to canonicalize universities.
func WithResolver(r *alias.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithAggregator replaces the default cohort aggregator. The aggregator's
// clock then takes precedence over WithClock.
func WithAggregator(a *cohort.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.agg = a
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRunID tags every report with id.
func WithRunID(id string) Option {
	return func(s *Service) {
		s.runID = id
	}
}

// WithCollections overrides the collection names read from the store.
func WithCollections(c repository.Collections) Option {
	return func(s *Service) {
		s.collections = &c
	}
}

// WithFetchTimeout bounds each collection read.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}
