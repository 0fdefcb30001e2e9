package cohort

import (
	"math"
	"sort"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/activity"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/funnel"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
)

const day = 24 * time.Hour

// Retention window sizes in days.
const (
	retentionCohortAge = 30
	engagementShort    = 7
	engagementLong     = 30
)

// ToolCount is the number of uses of one tool.
type ToolCount struct {
	Tool  model.Tool `json:"tool"`
	Count int        `json:"count"`
}

// KindCount is the number of events of one kind.
type KindCount struct {
	Kind  model.EventKind `json:"kind"`
	Count int             `json:"count"`
}

// LevelCount is the number of members at one activity level.
type LevelCount struct {
	Level activity.Level `json:"level"`
	Count int            `json:"count"`
}

// CategoryCount is one row of the interest breakdown.
type CategoryCount struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Credits sums credit movements.
type Credits struct {
	Purchased float64 `json:"purchased"`
	Spent     float64 `json:"spent"`
	Bonus     float64 `json:"bonus"`
	Refunded  float64 `json:"refunded"`
}

// Retention holds D1/D7/D30 percentages over the eligible cohort.
type Retention struct {
	Day1        float64 `json:"day1"`
	Day7        float64 `json:"day7"`
	Day30       float64 `json:"day30"`
	TotalCohort int     `json:"total_cohort"`
}

// Analyses summarizes scored artifacts.
type Analyses struct {
	Total           int     `json:"total"`
	MembersScored   int     `json:"members_scored"`
	AverageScore    float64 `json:"average_score"`
	AverageErrors   float64 `json:"average_errors"`
	MembersImproved int     `json:"members_improved"`
}

// Interviews summarizes interview sessions.
type Interviews struct {
	Total        int     `json:"total"`
	Members      int     `json:"members"`
	AverageScore float64 `json:"average_score"`
}

// Engagement counts members active within recent windows.
type Engagement struct {
	Last7Days  int `json:"last_7_days"`
	Last30Days int `json:"last_30_days"`
}

// Metrics is the rollup for one cohort.
type Metrics struct {
	Entity string `json:"entity"`

	TotalMembers        int `json:"total_members"`
	WithCV              int `json:"with_cv"`
	ProfileCompleted    int `json:"profile_completed"`
	OnboardingCompleted int `json:"onboarding_completed"`

	ToolUsage  []ToolCount `json:"tool_usage"`
	EventKinds []KindCount `json:"event_kinds"`
	Credits    Credits     `json:"credits"`

	Levels        []LevelCount    `json:"levels"`
	TopCategories []CategoryCount `json:"top_categories"`
	Retention     Retention       `json:"retention"`
	Engagement    Engagement      `json:"engagement"`
	Analyses      Analyses        `json:"analyses"`
	Interviews    Interviews      `json:"interviews"`
	Funnel        []funnel.Stage  `json:"funnel"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Aggregator computes cohort metrics. It keeps no state between calls.
type Aggregator struct {
	now        func() time.Time
	categories []compiledCategory
	topN       int
}

// New constructs an Aggregator with default rules. now supplies the
// reference time for retention and engagement windows and must not be nil.
func New(now func() time.Time, opts ...Option) *Aggregator {
	a := &Aggregator{
		now:        now,
		categories: compileRules(DefaultCategoryRules()),
		topN:       defaultTopN,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now returns the aggregator's notion of the current time.
func (a *Aggregator) Now() time.Time {
	return a.now()
}

// Level classifies a member by tool uses in snap.
func (a *Aggregator) Level(m model.Member, snap *model.Snapshot) activity.Level {
	return activity.Classify(snap.ActivityFor(m.ID).ToolUses())
}

// Category returns the interest category of m.
func (a *Aggregator) Category(m model.Member) string {
	return categorize(a.categories, m.Interest)
}

// Aggregate computes metrics for members. Only activity belonging to the
// given members is counted, so members may be pre-filtered to one entity.
func (a *Aggregator) Aggregate(entity string, members []model.Member, snap *model.Snapshot) Metrics {
	now := a.now()
	m := Metrics{
		Entity:       entity,
		TotalMembers: len(members),
		GeneratedAt:  now,
	}

	toolCounts := make(map[model.Tool]int)
	kindCounts := make(map[model.EventKind]int)
	levelCounts := make(map[activity.Level]int)

	var scoreSum, errorSum, interviewScoreSum float64
	var interviewScored int

	for _, mem := range members {
		if mem.HasCV {
			m.WithCV++
		}
		if mem.ProfileCompleted {
			m.ProfileCompleted++
		}
		if mem.OnboardingCompleted {
			m.OnboardingCompleted++
		}

		act := snap.ActivityFor(mem.ID)
		uses := 0
		for _, e := range act.Events {
			if e.Kind.Valid() {
				kindCounts[e.Kind]++
			}
			if e.IsToolUse() {
				uses++
				toolCounts[e.Tool]++
			}
			addCredits(&m.Credits, e)
		}
		levelCounts[activity.Classify(uses)]++

		if len(act.Artifacts) > 0 {
			m.Analyses.MembersScored++
			for _, r := range act.Artifacts {
				m.Analyses.Total++
				scoreSum += r.Score
				errorSum += float64(r.Errors)
			}
			if improved(act.Artifacts) {
				m.Analyses.MembersImproved++
			}
		}

		if len(act.Interviews) > 0 {
			m.Interviews.Members++
			for _, iv := range act.Interviews {
				m.Interviews.Total++
				if iv.Score != nil {
					interviewScoreSum += *iv.Score
					interviewScored++
				}
			}
		}

		if mem.LastActiveAt != nil {
			since := now.Sub(*mem.LastActiveAt)
			if since >= 0 && since <= engagementShort*day {
				m.Engagement.Last7Days++
			}
			if since >= 0 && since <= engagementLong*day {
				m.Engagement.Last30Days++
			}
		}
	}

	if m.Analyses.Total > 0 {
		m.Analyses.AverageScore = round1(scoreSum / float64(m.Analyses.Total))
		m.Analyses.AverageErrors = round1(errorSum / float64(m.Analyses.Total))
	}
	if interviewScored > 0 {
		m.Interviews.AverageScore = round1(interviewScoreSum / float64(interviewScored))
	}

	for _, t := range model.Tools() {
		m.ToolUsage = append(m.ToolUsage, ToolCount{Tool: t, Count: toolCounts[t]})
	}
	for _, k := range model.EventKinds() {
		m.EventKinds = append(m.EventKinds, KindCount{Kind: k, Count: kindCounts[k]})
	}
	for _, l := range activity.Levels() {
		m.Levels = append(m.Levels, LevelCount{Level: l, Count: levelCounts[l]})
	}

	m.TopCategories = a.TopCategories(members)
	m.Retention = Retain(members, now)
	m.Funnel = a.ActivationFunnel(members, snap)
	return m
}

// TopCategories groups members by interest category and keeps the top N
// by count, ties broken by category name.
func (a *Aggregator) TopCategories(members []model.Member) []CategoryCount {
	counts := make(map[string]int)
	for _, mem := range members {
		counts[a.Category(mem)]++
	}
	rows := make([]CategoryCount, 0, len(counts))
	for name, c := range counts {
		rows = append(rows, CategoryCount{Category: name, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})
	if len(rows) > a.topN {
		rows = rows[:a.topN]
	}
	total := len(members)
	for i := range rows {
		rows[i].Percentage = percentInt(rows[i].Count, total)
	}
	return rows
}

// Retain computes D1/D7/D30 retention for members registered at least 30
// days before now. Members without a registration or last-activity
// timestamp are excluded or never retained respectively.
func Retain(members []model.Member, now time.Time) Retention {
	var r Retention
	cutoff := now.Add(-retentionCohortAge * day)
	var d1, d7, d30 int
	for _, mem := range members {
		if mem.RegisteredAt == nil || mem.RegisteredAt.After(cutoff) {
			continue
		}
		r.TotalCohort++
		if mem.LastActiveAt == nil {
			continue
		}
		gap := mem.LastActiveAt.Sub(*mem.RegisteredAt)
		if gap >= 1*day {
			d1++
		}
		if gap >= 7*day {
			d7++
		}
		if gap >= 30*day {
			d30++
		}
	}
	r.Day1 = percent(d1, r.TotalCohort)
	r.Day7 = percent(d7, r.TotalCohort)
	r.Day30 = percent(d30, r.TotalCohort)
	return r
}

// ActivationFunnel is the default onboarding pipeline.
func (a *Aggregator) ActivationFunnel(members []model.Member, snap *model.Snapshot) []funnel.Stage {
	uses := func(m model.Member) int { return snap.ActivityFor(m.ID).ToolUses() }
	defs := []funnel.Definition[model.Member]{
		{Label: "Registered", Count: func(p []model.Member) int { return len(p) }},
		funnel.Where("CV uploaded", func(m model.Member) bool { return m.HasCV }),
		funnel.Where("Profile completed", func(m model.Member) bool { return m.ProfileCompleted }),
		funnel.Where("Onboarding completed", func(m model.Member) bool { return m.OnboardingCompleted }),
		funnel.Where("Used a tool", func(m model.Member) bool { return uses(m) > 0 }),
		funnel.Where("Power user", func(m model.Member) bool { return activity.Classify(uses(m)) == activity.Power }),
	}
	return funnel.Build(defs, members)
}

func addCredits(c *Credits, e model.Event) {
	amount := math.Abs(e.Credits)
	switch e.Kind {
	case model.KindPurchase:
		c.Purchased += amount
	case model.KindSpend, model.KindConfirm:
		c.Spent += amount
	case model.KindBonus:
		c.Bonus += amount
	case model.KindRefund, model.KindRevert:
		c.Refunded += amount
	}
}

// improved reports whether the latest artifact scores above the first.
func improved(artifacts []model.ScoredArtifact) bool {
	if len(artifacts) < 2 {
		return false
	}
	ordered := model.OrderArtifacts(artifacts)
	return ordered[len(ordered)-1].Score > ordered[0].Score
}

func percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := 100 * float64(n) / float64(total)
	return math.Max(0, math.Min(100, round1(p)))
}

func percentInt(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
