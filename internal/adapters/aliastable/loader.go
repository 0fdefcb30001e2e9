package aliastable

import (
	"context"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/logger"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/metrics"
)

const defaultCacheTTL = time.Hour

// Loader builds an alias.Resolver from a Source, consulting a Cache first
// when one is configured.
type Loader struct {
	source  Source
	cache   Cache
	ttl     time.Duration
	log     logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithCache puts c in front of the source. Entries expire after ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(l *Loader) {
		l.cache = c
		if ttl > 0 {
			l.ttl = ttl
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

// NewLoader returns a loader for source. A nil source means the embedded table.
func NewLoader(source Source, opts ...Option) *Loader {
	if source == nil {
		source = EmbeddedSource{}
	}
	l := &Loader{
		source:  source,
		ttl:     defaultCacheTTL,
		log:     logger.NewNop(),
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolver loads and compiles the table. It never returns a nil resolver:
// when loading fails the error is returned together with alias.Empty(), so
// lookups keep working and fall back to the trimmed raw name.
func (l *Loader) Resolver(ctx context.Context) (*alias.Resolver, error) {
	key := l.source.Name()

	if t, ok := l.cached(ctx, key); ok {
		return l.compile(t), nil
	}

	payload, err := l.source.Fetch(ctx)
	if err != nil {
		return l.degrade(ctx, err), err
	}
	t, err := Decode(payload)
	if err != nil {
		return l.degrade(ctx, err), err
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, payload, l.ttl); err != nil {
			l.log.Warn(ctx, "alias cache write failed", logger.String("source", key), logger.Error(err))
		}
	}
	l.log.Info(ctx, "alias table loaded", logger.String("source", key), logger.Int("rules", t.Len()))
	return l.compile(t), nil
}

func (l *Loader) cached(ctx context.Context, key string) (alias.Table, bool) {
	if l.cache == nil {
		return alias.Table{}, false
	}
	payload, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.log.Warn(ctx, "alias cache read failed", logger.String("source", key), logger.Error(err))
		l.metrics.AliasCacheMiss()
		return alias.Table{}, false
	}
	if !ok {
		l.metrics.AliasCacheMiss()
		return alias.Table{}, false
	}
	t, err := Decode(payload)
	if err != nil {
		l.log.Warn(ctx, "cached alias table rejected", logger.String("source", key), logger.Error(err))
		l.metrics.AliasCacheMiss()
		return alias.Table{}, false
	}
	l.metrics.AliasCacheHit()
	l.log.Debug(ctx, "alias table served from cache", logger.String("source", key))
	return t, true
}

func (l *Loader) compile(t alias.Table) *alias.Resolver {
	r := alias.NewResolver(t)
	exact, contains := r.Rules()
	l.metrics.UpdateAliasRules(exact + contains)
	return r
}

func (l *Loader) degrade(ctx context.Context, err error) *alias.Resolver {
	l.log.Warn(ctx, "alias table unavailable, resolving without rules",
		logger.String("source", l.source.Name()), logger.Error(err))
	l.metrics.AliasLoadFailure(l.source.Name())
	l.metrics.UpdateAliasRules(0)
	return alias.Empty()
}
