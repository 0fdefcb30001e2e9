package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/logger"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const defaultFetchTimeout = 30 * time.Second

// Loader reads every collection and builds a snapshot.
type Loader struct {
	reader       Reader
	collections  Collections
	resolver     *alias.Resolver
	log          logger.Logger
	metrics      *metrics.Manager
	now          func() time.Time
	fetchTimeout time.Duration
}

// NewLoader creates a loader over reader.
func NewLoader(reader Reader, opts ...Option) *Loader {
	l := &Loader{
		reader:       reader,
		collections:  DefaultCollections(),
		resolver:     alias.Empty(),
		log:          logger.NewNop(),
		metrics:      metrics.Default(),
		now:          time.Now,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Collections returns the collection names in use.
func (l *Loader) Collections() Collections {
	return l.collections
}

// Load fetches all collections in parallel and ingests them. Only a
// failure to read members is fatal. Any other collection that fails is
// logged, recorded as an issue and treated as empty.
func (l *Loader) Load(ctx context.Context) (*model.Snapshot, error) {
	var raw Raw
	targets := []struct {
		name     string
		dst      *[]Record
		required bool
	}{
		{l.collections.Members, &raw.Members, true},
		{l.collections.Events, &raw.Events, false},
		{l.collections.Artifacts, &raw.Artifacts, false},
		{l.collections.Interviews, &raw.Interviews, false},
		{l.collections.Jobs, &raw.Jobs, false},
	}
	failed := make([]error, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		g.Go(func() error {
			records, err := l.fetch(gctx, t.name)
			if err != nil {
				if t.required {
					return fmt.Errorf("%w: %w", ErrMembersUnavailable, err)
				}
				failed[i] = err
				return nil
			}
			*t.dst = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.log.Error(ctx, "snapshot load failed", logger.Error(err))
		l.metrics.ErrorByComponent("repository", "members_unavailable")
		return nil, err
	}

	snap := l.Ingest(raw)
	snap.TakenAt = l.now()
	for i, err := range failed {
		if err == nil {
			continue
		}
		name := targets[i].name
		l.log.Warn(ctx, "collection unavailable, continuing without it",
			logger.String("collection", name), logger.Error(err))
		l.metrics.ErrorByComponent("repository", "collection_failed")
		l.metrics.IngestionIssue(string(model.IssueCollectionFailed))
		snap.Issues = append(snap.Issues, model.Issue{
			Collection: name,
			Kind:       model.IssueCollectionFailed,
			Detail:     err.Error(),
		})
	}

	l.metrics.UpdateMembers(len(snap.Members))
	l.log.Info(ctx, "snapshot loaded",
		logger.Int("members", len(snap.Members)),
		logger.Int("events", len(snap.Events)),
		logger.Int("analyses", len(snap.Artifacts)),
		logger.Int("interviews", len(snap.Interviews)),
		logger.Int("jobs", len(snap.Jobs)),
		logger.Int("issues", len(snap.Issues)),
	)
	return snap, nil
}

func (l *Loader) fetch(ctx context.Context, collection string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	start := time.Now()
	records, err := l.reader.FetchAll(ctx, collection)
	l.metrics.FetchDuration(collection, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectionRead, collection, err)
	}
	l.metrics.RecordsFetched(collection, len(records))
	l.log.Debug(ctx, "collection fetched", logger.String("collection", collection), logger.Int("records", len(records)))
	return records, nil
}
