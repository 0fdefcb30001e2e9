package repository

import (
	"fmt"
	"math"
	"strings"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/dedupe"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
)

// Raw holds the records of every collection before ingestion.
type Raw struct {
	Members    []Record
	Events     []Record
	Artifacts  []Record
	Interviews []Record
	Jobs       []Record
}

var memberIDKeys = []string{"userId", "uid", "user_id", "memberId"} //nolint:gochecknoglobals // field alias table

var kindAliases = map[string]model.EventKind{ //nolint:gochecknoglobals // read-only lookup
	"purchase": model.KindPurchase, "buy": model.KindPurchase, "compra": model.KindPurchase,
	"spend": model.KindSpend, "use": model.KindSpend, "usage": model.KindSpend, "consume": model.KindSpend,
	"bonus": model.KindBonus, "gift": model.KindBonus, "welcome": model.KindBonus,
	"reserve": model.KindReserve, "reservation": model.KindReserve,
	"confirm": model.KindConfirm, "confirmation": model.KindConfirm,
	"revert": model.KindRevert, "reversal": model.KindRevert,
	"refund": model.KindRefund,
}

var toolAliases = map[string]model.Tool{ //nolint:gochecknoglobals // read-only lookup
	"cv-review": model.ToolCVReview, "cvreview": model.ToolCVReview, "review-cv": model.ToolCVReview, "cv-analysis": model.ToolCVReview,
	"job-match": model.ToolJobMatch, "jobmatch": model.ToolJobMatch, "job-matching": model.ToolJobMatch,
	"interview-simulation": model.ToolInterviewSimulation, "interviewsimulation": model.ToolInterviewSimulation,
	"interview": model.ToolInterviewSimulation, "mock-interview": model.ToolInterviewSimulation,
	"cv-creation": model.ToolCVCreation, "cvcreation": model.ToolCVCreation, "cv-builder": model.ToolCVCreation, "create-cv": model.ToolCVCreation,
}

func closedKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}

// Ingest validates raw records once and converts them into a snapshot.
// Soft problems become snapshot issues; records that cannot be attributed
// to a member are dropped. Each member's university is resolved here.
func (l *Loader) Ingest(raw Raw) *model.Snapshot {
	snap := &model.Snapshot{}
	issues := &snap.Issues
	resolver := l.resolver
	if resolver == nil {
		resolver = alias.Empty()
	}

	seen := dedupe.New(dedupe.WithExpectedSize(len(raw.Members)))
	for _, rec := range raw.Members {
		r := fieldReader{collection: l.collections.Members, record: rec, issues: issues}
		if rec.ID == "" {
			r.issue("id", model.IssueMissingData, "member without id")
			l.metrics.RecordSkipped(l.collections.Members, "missing_id")
			continue
		}
		if l.duplicate(seen, r) {
			continue
		}
		snap.Members = append(snap.Members, l.member(r, resolver))
	}

	for _, rec := range raw.Events {
		r := fieldReader{collection: l.collections.Events, record: rec, issues: issues}
		if l.duplicate(seen, r) {
			continue
		}
		if e, ok := l.event(r); ok {
			snap.Events = append(snap.Events, e)
		}
	}
	for _, rec := range raw.Artifacts {
		r := fieldReader{collection: l.collections.Artifacts, record: rec, issues: issues}
		if l.duplicate(seen, r) {
			continue
		}
		if a, ok := l.artifact(r); ok {
			snap.Artifacts = append(snap.Artifacts, a)
		}
	}
	for _, rec := range raw.Interviews {
		r := fieldReader{collection: l.collections.Interviews, record: rec, issues: issues}
		if l.duplicate(seen, r) {
			continue
		}
		if iv, ok := l.interview(r); ok {
			snap.Interviews = append(snap.Interviews, iv)
		}
	}
	for _, rec := range raw.Jobs {
		r := fieldReader{collection: l.collections.Jobs, record: rec, issues: issues}
		if l.duplicate(seen, r) {
			continue
		}
		snap.Jobs = append(snap.Jobs, model.JobPosting{
			ID:       rec.ID,
			Title:    r.str("title", "position", "jobTitle"),
			Company:  r.str("company", "companyName"),
			Location: r.str("location", "city"),
			PostedAt: r.timestamp("postedAt", "createdAt", "publishedAt"),
		})
	}

	for _, is := range snap.Issues {
		l.metrics.IngestionIssue(string(is.Kind))
	}
	return snap
}

// duplicate reports and skips a record whose id was already ingested in
// the same collection. Records without an id are never duplicates.
func (l *Loader) duplicate(seen dedupe.Tracker, r fieldReader) bool {
	if !seen.SeenAndRecord(r.collection, r.record.ID) {
		return false
	}
	r.issue("id", model.IssueUnknownValue, "duplicate record id")
	l.metrics.RecordSkipped(r.collection, "duplicate")
	return true
}

func (l *Loader) member(r fieldReader, resolver *alias.Resolver) model.Member {
	raw := r.str("university", "universidad", "institution", "school")
	canonical, kind := resolver.Match(raw)
	l.metrics.AliasMatch(string(kind))

	m := model.Member{
		ID:                  r.record.ID,
		Email:               r.str("email"),
		DisplayName:         r.str("displayName", "name", "fullName"),
		RawUniversity:       raw,
		University:          canonical,
		Interest:            r.str("interest", "careerInterest", "career", "interests"),
		RegisteredAt:        r.timestamp("createdAt", "registrationDate", "registeredAt"),
		LastActiveAt:        r.timestamp("lastActive", "lastActiveAt", "lastLogin", "lastLoginAt"),
		ProfileCompleted:    r.boolean("profileCompleted", "isProfileComplete"),
		OnboardingCompleted: r.boolean("onboardingCompleted", "hasCompletedOnboarding"),
		CVFileName:          r.str("cvFileName", "cvName"),
		CVURL:               r.str("cvUrl", "cvURL"),
		CVUploadedAt:        r.timestamp("cvUploadedAt", "cvUpdatedAt"),
	}
	m.HasCV = r.boolean("hasCV", "cvUploaded") || m.CVURL != "" || m.CVFileName != ""
	if m.RegisteredAt == nil {
		r.issue("createdAt", model.IssueMissingData, "member without registration date")
	}
	return m
}

func (l *Loader) event(r fieldReader) (model.Event, bool) {
	memberID := r.str(memberIDKeys...)
	if memberID == "" {
		r.issue("userId", model.IssueMissingData, "event without member")
		l.metrics.RecordSkipped(r.collection, "missing_member")
		return model.Event{}, false
	}
	e := model.Event{
		ID:          r.record.ID,
		MemberID:    memberID,
		Description: r.str("description", "concept"),
		At:          r.timestamp("createdAt", "timestamp", "date"),
	}
	if e.At == nil {
		r.issue("createdAt", model.IssueMissingData, "event without timestamp")
	}

	if raw := r.str("type", "kind"); raw != "" {
		k, ok := kindAliases[closedKey(raw)]
		if !ok {
			r.issue("type", model.IssueUnknownValue, fmt.Sprintf("event kind %q", raw))
		}
		e.Kind = k
	}
	if raw := r.str("tool", "service", "feature"); raw != "" {
		t, ok := toolAliases[closedKey(raw)]
		if !ok {
			r.issue("tool", model.IssueUnknownValue, fmt.Sprintf("tool %q", raw))
		}
		e.Tool = t
	}
	if raw := r.str("status"); raw != "" {
		s := model.EventStatus(strings.ToLower(raw))
		if !s.Valid() {
			r.issue("status", model.IssueUnknownValue, fmt.Sprintf("status %q", raw))
			s = ""
		}
		e.Status = s
	}
	if n, ok := r.number("amount", "credits"); ok {
		e.Credits = n
	}
	return e, true
}

func (l *Loader) artifact(r fieldReader) (model.ScoredArtifact, bool) {
	memberID := r.str(memberIDKeys...)
	if memberID == "" {
		r.issue("userId", model.IssueMissingData, "analysis without member")
		l.metrics.RecordSkipped(r.collection, "missing_member")
		return model.ScoredArtifact{}, false
	}
	a := model.ScoredArtifact{
		ID:       r.record.ID,
		MemberID: memberID,
		At:       r.timestamp("createdAt", "analyzedAt", "timestamp"),
		FileName: r.str("fileName", "cvFileName"),
	}
	if score, ok := r.number("score", "overallScore", "percentage"); ok {
		a.Score = clamp(r, "score", score, 0, 100)
	}
	if list, ok := r.record.Fields["errors"].([]any); ok {
		a.Errors = len(list)
	} else if n, ok := r.number("errorCount", "totalErrors", "errors"); ok {
		a.Errors = int(clamp(r, "errors", math.Round(n), 0, math.MaxInt32))
	}
	if lvl, ok := r.number("verbLevel", "actionVerbsLevel", "impactLevel"); ok {
		a.VerbLevel = clamp(r, "verbLevel", lvl, 0, 10)
	}
	if sections := r.object("sections", "analysis", "categories"); len(sections) > 0 {
		a.Sections = make(map[string]model.Assessment, len(sections))
		for name, v := range sections {
			a.Sections[name] = assessment(v)
		}
	}
	return a, true
}

func assessment(v any) model.Assessment {
	m, ok := v.(map[string]any)
	if !ok {
		if s, ok := v.(string); ok {
			return model.Assessment{Summary: s}
		}
		return model.Assessment{}
	}
	var out model.Assessment
	if n, ok := toFloat(m["score"]); ok {
		out.Score = &n
	}
	for _, k := range []string{"summary", "feedback", "comment"} {
		if s, ok := m[k].(string); ok && s != "" {
			out.Summary = s
			break
		}
	}
	return out
}

func (l *Loader) interview(r fieldReader) (model.Interview, bool) {
	memberID := r.str(memberIDKeys...)
	if memberID == "" {
		r.issue("userId", model.IssueMissingData, "interview without member")
		l.metrics.RecordSkipped(r.collection, "missing_member")
		return model.Interview{}, false
	}
	iv := model.Interview{
		ID:       r.record.ID,
		MemberID: memberID,
		JobTitle: r.str("jobTitle", "position", "role"),
		At:       r.timestamp("createdAt", "startedAt", "timestamp"),
		Status:   strings.ToLower(r.str("status")),
	}
	if score, ok := r.number("score", "overallScore"); ok {
		s := clamp(r, "score", score, 0, 100)
		iv.Score = &s
	}
	return iv, true
}

func clamp(r fieldReader, field string, v, lo, hi float64) float64 {
	if v < lo || v > hi {
		r.issue(field, model.IssueUnknownValue, fmt.Sprintf("%g outside [%g, %g]", v, lo, hi))
		return math.Max(lo, math.Min(hi, v))
	}
	return v
}
