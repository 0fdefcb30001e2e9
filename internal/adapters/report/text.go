package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/funnel"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/types"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02 15:04 MST"
	none        = "-"
)

// WriteText renders any report DTO as aligned plain text. Output depends
// only on the report value.
func WriteText(w io.Writer, v any) error {
	switch r := v.(type) {
	case types.Overview:
		return WriteOverview(w, r)
	case *types.Overview:
		return WriteOverview(w, *r)
	case types.UniversityReport:
		return WriteUniversity(w, r)
	case *types.UniversityReport:
		return WriteUniversity(w, *r)
	case types.StudentReport:
		return WriteStudent(w, r)
	case *types.StudentReport:
		return WriteStudent(w, *r)
	case types.FunnelReport:
		return WriteFunnel(w, r)
	case *types.FunnelReport:
		return WriteFunnel(w, *r)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedReport, v)
	}
}

// WriteOverview renders the platform-wide report.
func WriteOverview(w io.Writer, r types.Overview) error {
	p := newPrinter(w)
	p.header("MyWorkIn overview", r.RunID, r.GeneratedAt)
	p.line("Ingestion issues\t%d", r.Issues)
	p.metrics(r.Totals)

	p.title("Universities")
	p.line("University\tMembers\tWith CV\tCV rate\tEngaged\tEngaged rate\tTool uses\tAvg score")
	for _, u := range r.Universities {
		p.line("%s\t%d\t%d\t%d%%\t%d\t%d%%\t%d\t%s",
			u.Entity, u.Members, u.WithCV, u.CVRate, u.Engaged, u.EngagedRate, u.ToolUses, num(u.AverageScore))
	}
	return p.flush()
}

// WriteUniversity renders the drill-down for one university.
func WriteUniversity(w io.Writer, r types.UniversityReport) error {
	p := newPrinter(w)
	p.header("University: "+r.University, r.RunID, r.GeneratedAt)
	p.metrics(r.Metrics)

	p.title("Students")
	p.line("Name\tEmail\tCategory\tLevel\tTool uses\tCV\tLatest score\tLast active")
	for _, s := range r.Students {
		p.line("%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s",
			orNone(s.Name), orNone(s.Email), s.Category, s.Level.Label(), s.ToolUses,
			yesNo(s.HasCV), optNum(s.LatestScore), date(s.LastActiveAt))
	}
	return p.flush()
}

// WriteStudent renders the drill-down for one member.
func WriteStudent(w io.Writer, r types.StudentReport) error {
	p := newPrinter(w)
	s := r.Student
	p.header("Student: "+orNone(s.Name), r.RunID, r.GeneratedAt)
	p.line("ID\t%s", s.ID)
	p.line("Email\t%s", orNone(s.Email))
	p.line("University\t%s", s.University)
	p.line("Interest\t%s", orNone(s.Interest))
	p.line("Category\t%s", s.Category)
	p.line("Level\t%s", s.Level.Label())
	p.line("Registered\t%s", date(s.RegisteredAt))
	p.line("Last active\t%s", date(s.LastActiveAt))
	p.line("CV uploaded\t%s", yesNo(s.HasCV))
	p.line("Profile completed\t%s", yesNo(s.ProfileCompleted))
	p.line("Onboarding completed\t%s", yesNo(s.OnboardingCompleted))

	p.toolUsage(r.ToolUsage)
	p.credits(r.Credits)

	p.title("Interviews")
	if len(r.Interviews) == 0 {
		p.line("  none")
	}
	for _, iv := range r.Interviews {
		p.line("  %s\t%s\t%s\t%s", date(iv.At), orNone(iv.JobTitle), orNone(iv.Status), optNum(iv.Score))
	}

	ev := r.Evolution
	p.title("CV evolution")
	p.line("  Analyses\t%d", ev.Analyses)
	if ev.Original != nil {
		p.line("  First score\t%s", num(ev.Original.Score))
	}
	if ev.Improved != nil {
		p.line("  Latest score\t%s", num(ev.Improved.Score))
		p.line("  Score change\t%+g", ev.Improvement.ScoreChange)
		p.line("  Error reduction\t%+d", ev.Improvement.ErrorReduction)
		p.line("  Verb improvement\t%+g", ev.Improvement.VerbImprovement)
		p.line("  Overall progress\t%+d", ev.Improvement.OverallProgress)
	}

	p.title("Timeline")
	if len(r.Timeline) == 0 {
		p.line("  none")
	}
	for _, e := range r.Timeline {
		p.line("  %s\t%s\t%s\t%s", e.At.UTC().Format(dateLayout), e.Category, e.Detail, e.Impact)
	}
	return p.flush()
}

// WriteFunnel renders an activation funnel.
func WriteFunnel(w io.Writer, r types.FunnelReport) error {
	p := newPrinter(w)
	p.header("Activation funnel: "+r.Entity, r.RunID, r.GeneratedAt)
	p.stages(r.Stages)
	if r.Violations > 0 {
		p.blank()
		p.line("Clamped stages\t%d", r.Violations)
	}
	return p.flush()
}

type printer struct {
	tw  *tabwriter.Writer
	err error
}

func newPrinter(w io.Writer) *printer {
	return &printer{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.tw, format+"\n", args...)
}

func (p *printer) blank() { p.line("") }

func (p *printer) title(s string) {
	p.blank()
	p.line("%s", s)
}

func (p *printer) flush() error {
	if p.err != nil {
		return p.err
	}
	return p.tw.Flush()
}

func (p *printer) header(title, runID string, at time.Time) {
	p.line("%s", title)
	if runID != "" {
		p.line("Run\t%s", runID)
	}
	p.line("Generated\t%s", at.UTC().Format(stampLayout))
}

func (p *printer) metrics(m cohort.Metrics) {
	p.blank()
	p.line("Members\t%d", m.TotalMembers)
	p.line("With CV\t%d", m.WithCV)
	p.line("Profile completed\t%d", m.ProfileCompleted)
	p.line("Onboarding completed\t%d", m.OnboardingCompleted)

	p.toolUsage(m.ToolUsage)

	p.title("Events by kind")
	for _, k := range m.EventKinds {
		p.line("  %s\t%d", k.Kind, k.Count)
	}

	p.credits(m.Credits)

	p.title("Activity levels")
	for _, l := range m.Levels {
		p.line("  %s\t%d", l.Level.Label(), l.Count)
	}

	p.title("Top interest categories")
	for _, c := range m.TopCategories {
		p.line("  %s\t%d\t%d%%", c.Category, c.Count, c.Percentage)
	}

	p.title(fmt.Sprintf("Retention (cohort %d)", m.Retention.TotalCohort))
	p.line("  D1\t%s%%", pct(m.Retention.Day1))
	p.line("  D7\t%s%%", pct(m.Retention.Day7))
	p.line("  D30\t%s%%", pct(m.Retention.Day30))

	p.title("Engagement")
	p.line("  Last 7 days\t%d", m.Engagement.Last7Days)
	p.line("  Last 30 days\t%d", m.Engagement.Last30Days)

	p.title("CV analyses")
	p.line("  Total\t%d", m.Analyses.Total)
	p.line("  Members scored\t%d", m.Analyses.MembersScored)
	p.line("  Average score\t%s", num(m.Analyses.AverageScore))
	p.line("  Average errors\t%s", num(m.Analyses.AverageErrors))
	p.line("  Members improved\t%d", m.Analyses.MembersImproved)

	p.title("Interviews")
	p.line("  Total\t%d", m.Interviews.Total)
	p.line("  Members\t%d", m.Interviews.Members)
	p.line("  Average score\t%s", num(m.Interviews.AverageScore))

	p.title("Activation funnel")
	p.stages(m.Funnel)
}

func (p *printer) toolUsage(usage []cohort.ToolCount) {
	p.title("Tool usage")
	for _, t := range usage {
		p.line("  %s\t%d", t.Tool.Label(), t.Count)
	}
}

func (p *printer) credits(c cohort.Credits) {
	p.title("Credits")
	p.line("  Purchased\t%s", num(c.Purchased))
	p.line("  Bonus\t%s", num(c.Bonus))
	p.line("  Spent\t%s", num(c.Spent))
	p.line("  Refunded\t%s", num(c.Refunded))
}

func (p *printer) stages(stages []funnel.Stage) {
	p.line("  Stage\tCount\tShare\tDrop-off")
	for _, s := range stages {
		p.line("  %s\t%d\t%s%%\t%d", s.Label, s.Count, pct(s.Percentage), s.DropOff)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// pct rounds a percentage to one decimal.
func pct(v float64) string {
	return num(math.Round(v*10) / 10)
}

func optNum(v *float64) string {
	if v == nil {
		return none
	}
	return num(*v)
}

func date(t *time.Time) string {
	if t == nil {
		return none
	}
	return t.UTC().Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
