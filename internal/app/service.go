// Package service assembles snapshots into the reports consumed by the CLI.
// Every call reads a fresh snapshot and is a pure function of it and the
// configured clock.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/adapters/repository"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/funnel"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/timeline"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/types"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/logger"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/metrics"
)

// AllEntity names the platform-wide cohort.
const AllEntity = "All"

// Report names used for metrics and logs.
const (
	reportOverview   = "overview"
	reportUniversity = "university"
	reportStudent    = "student"
	reportFunnel     = "funnel"
)

// Service builds reports over a document store.
type Service struct {
	reader       repository.Reader
	loader       *repository.Loader
	resolver     *alias.Resolver
	agg          *cohort.Aggregator
	log          logger.Logger
	metrics      *metrics.Manager
	now          func() time.Time
	runID        string
	collections  *repository.Collections
	fetchTimeout time.Duration
}

// New constructs a Service reading from reader.
func New(reader repository.Reader, opts ...Option) *Service {
	s := &Service{
		reader:   reader,
		resolver: alias.Empty(),
		log:      logger.NewNop(),
		metrics:  metrics.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.agg == nil {
		s.agg = cohort.New(s.now)
	}

	loaderOpts := []repository.Option{
		repository.WithResolver(s.resolver),
		repository.WithLogger(s.log.Named("repository")),
		repository.WithMetrics(s.metrics),
		repository.WithClock(s.agg.Now),
	}
	if s.collections != nil {
		loaderOpts = append(loaderOpts, repository.WithCollections(*s.collections))
	}
	if s.fetchTimeout > 0 {
		loaderOpts = append(loaderOpts, repository.WithFetchTimeout(s.fetchTimeout))
	}
	s.loader = repository.NewLoader(reader, loaderOpts...)
	return s
}

// Snapshot reads and ingests every collection.
func (s *Service) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	if s.reader == nil {
		return nil, ErrNoSource
	}
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if n := len(snap.Issues); n > 0 {
		s.log.Warn(ctx, "snapshot has ingestion issues", logger.Int("issues", n), logger.String("run_id", s.runID))
		for _, is := range snap.Issues {
			s.log.Debug(ctx, "ingestion issue",
				logger.String("collection", is.Collection),
				logger.String("record", is.RecordID),
				logger.String("field", is.Field),
				logger.String("kind", string(is.Kind)),
				logger.String("detail", is.Detail))
		}
	}
	return snap, nil
}

// Overview aggregates the whole platform and every university.
func (s *Service) Overview(ctx context.Context) (types.Overview, error) {
	defer s.observe(reportOverview, time.Now())

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return types.Overview{}, err
	}
	totals := s.agg.Aggregate(AllEntity, snap.Members, snap)
	s.checkFunnel(ctx, AllEntity, totals.Funnel)

	return types.Overview{
		RunID:        s.runID,
		Totals:       totals,
		Universities: s.agg.Overview(snap.Members, snap),
		Issues:       len(snap.Issues),
		GeneratedAt:  totals.GeneratedAt,
	}, nil
}

// UniversityReport aggregates one university. name may be any alias of
// the canonical name.
func (s *Service) UniversityReport(ctx context.Context, name string) (types.UniversityReport, error) {
	defer s.observe(reportUniversity, time.Now())

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return types.UniversityReport{}, err
	}
	canonical, members := s.membersOf(snap, name)
	if len(members) == 0 {
		return types.UniversityReport{}, fmt.Errorf("%w: %q", ErrUniversityNotFound, name)
	}

	m := s.agg.Aggregate(canonical, members, snap)
	s.checkFunnel(ctx, canonical, m.Funnel)

	rows := make([]types.StudentRow, 0, len(members))
	for _, member := range members {
		rows = append(rows, s.row(member, snap))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ToolUses != rows[j].ToolUses {
			return rows[i].ToolUses > rows[j].ToolUses
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})

	return types.UniversityReport{
		RunID:       s.runID,
		University:  canonical,
		Metrics:     m,
		Students:    rows,
		GeneratedAt: m.GeneratedAt,
	}, nil
}

// StudentReport builds the drill-down for one member.
func (s *Service) StudentReport(ctx context.Context, memberID string) (types.StudentReport, error) {
	defer s.observe(reportStudent, time.Now())

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return types.StudentReport{}, err
	}
	member, ok := snap.Member(memberID)
	if !ok {
		return types.StudentReport{}, fmt.Errorf("%w: %q", ErrMemberNotFound, memberID)
	}
	act := snap.ActivityFor(member.ID)
	single := s.agg.Aggregate(member.University, []model.Member{member}, snap)

	interviews := append([]model.Interview(nil), act.Interviews...)
	sort.SliceStable(interviews, func(i, j int) bool {
		a, b := interviews[i].At, interviews[j].At
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})

	return types.StudentReport{
		RunID:       s.runID,
		Student:     s.row(member, snap),
		ToolUsage:   single.ToolUsage,
		Credits:     single.Credits,
		Interviews:  interviews,
		Timeline:    timeline.Synthesize(member, act),
		Evolution:   timeline.Evolve(act.Artifacts),
		GeneratedAt: single.GeneratedAt,
	}, nil
}

// ActivationFunnel builds the onboarding funnel for one university, or for
// the whole platform when university is empty.
func (s *Service) ActivationFunnel(ctx context.Context, university string) (types.FunnelReport, error) {
	defer s.observe(reportFunnel, time.Now())

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return types.FunnelReport{}, err
	}
	entity, members := AllEntity, snap.Members
	if university != "" {
		entity, members = s.membersOf(snap, university)
		if len(members) == 0 {
			return types.FunnelReport{}, fmt.Errorf("%w: %q", ErrUniversityNotFound, university)
		}
	}

	stages := s.agg.ActivationFunnel(members, snap)
	return types.FunnelReport{
		RunID:       s.runID,
		Entity:      entity,
		Stages:      stages,
		Violations:  s.checkFunnel(ctx, entity, stages),
		GeneratedAt: s.agg.Now(),
	}, nil
}

// membersOf finds the members of name, trying its canonical form first.
func (s *Service) membersOf(snap *model.Snapshot, name string) (string, []model.Member) {
	canonical := s.resolver.Resolve(name)
	if members := snap.MembersOf(canonical); len(members) > 0 {
		return canonical, members
	}
	return name, snap.MembersOf(name)
}

func (s *Service) row(m model.Member, snap *model.Snapshot) types.StudentRow {
	act := snap.ActivityFor(m.ID)
	r := types.StudentRow{
		ID:                  m.ID,
		Name:                m.DisplayName,
		Email:               m.Email,
		University:          m.University,
		Interest:            m.Interest,
		Category:            s.agg.Category(m),
		Level:               s.agg.Level(m, snap),
		ToolUses:            act.ToolUses(),
		HasCV:               m.HasCV,
		ProfileCompleted:    m.ProfileCompleted,
		OnboardingCompleted: m.OnboardingCompleted,
		RegisteredAt:        m.RegisteredAt,
		LastActiveAt:        m.LastActiveAt,
	}
	ev := timeline.Evolve(act.Artifacts)
	latest := ev.Improved
	if latest == nil {
		latest = ev.Original
	}
	if latest != nil {
		score := latest.Score
		r.LatestScore = &score
	}
	return r
}

// checkFunnel logs and counts clamped stages. It returns their number.
func (s *Service) checkFunnel(ctx context.Context, entity string, stages []funnel.Stage) int {
	bad := funnel.Violations(stages)
	if len(bad) == 0 {
		return 0
	}
	for _, st := range bad {
		s.log.Warn(ctx, "funnel stage clamped",
			logger.String("entity", entity),
			logger.String("stage", st.Label),
			logger.String("run_id", s.runID))
	}
	s.metrics.InvariantViolations("funnel", len(bad))
	return len(bad)
}

func (s *Service) observe(report string, start time.Time) {
	s.metrics.ReportDuration(report, float64(time.Since(start).Microseconds())/1000)
}
