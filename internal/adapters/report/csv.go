package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/funnel"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/timeline"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/types"
)

var studentHeader = []string{ //nolint:gochecknoglobals // fixed column order
	"id", "name", "email", "university", "interest", "category", "level", "tool_uses",
	"has_cv", "profile_completed", "onboarding_completed", "latest_score", "registered_at", "last_active_at",
}

// WriteCSV renders the tabular part of a report: students for a
// university, universities for the overview, stages for a funnel and
// timeline entries for a student.
func WriteCSV(w io.Writer, v any) error {
	switch r := v.(type) {
	case types.UniversityReport:
		return WriteStudentsCSV(w, r.Students)
	case *types.UniversityReport:
		return WriteStudentsCSV(w, r.Students)
	case types.Overview:
		return writeSummariesCSV(w, r.Universities)
	case *types.Overview:
		return writeSummariesCSV(w, r.Universities)
	case types.FunnelReport:
		return writeStagesCSV(w, r.Stages)
	case *types.FunnelReport:
		return writeStagesCSV(w, r.Stages)
	case types.StudentReport:
		return writeTimelineCSV(w, r.Timeline)
	case *types.StudentReport:
		return writeTimelineCSV(w, r.Timeline)
	case []types.StudentRow:
		return WriteStudentsCSV(w, r)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedReport, v)
	}
}

// WriteStudentsCSV writes one row per student under a fixed header.
// Absent scores and timestamps are empty cells.
func WriteStudentsCSV(w io.Writer, rows []types.StudentRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, studentHeader)
	for _, s := range rows {
		score := ""
		if s.LatestScore != nil {
			score = num(*s.LatestScore)
		}
		records = append(records, []string{
			s.ID, s.Name, s.Email, s.University, s.Interest, s.Category, s.Level.String(),
			strconv.Itoa(s.ToolUses),
			strconv.FormatBool(s.HasCV),
			strconv.FormatBool(s.ProfileCompleted),
			strconv.FormatBool(s.OnboardingCompleted),
			score, stamp(s.RegisteredAt), stamp(s.LastActiveAt),
		})
	}
	return writeAll(w, records)
}

func writeSummariesCSV(w io.Writer, rows []cohort.EntitySummary) error {
	records := [][]string{{"university", "members", "with_cv", "cv_rate", "engaged", "engaged_rate", "tool_uses", "average_score"}}
	for _, u := range rows {
		records = append(records, []string{
			u.Entity, strconv.Itoa(u.Members), strconv.Itoa(u.WithCV), strconv.Itoa(u.CVRate),
			strconv.Itoa(u.Engaged), strconv.Itoa(u.EngagedRate), strconv.Itoa(u.ToolUses), num(u.AverageScore),
		})
	}
	return writeAll(w, records)
}

func writeStagesCSV(w io.Writer, stages []funnel.Stage) error {
	records := [][]string{{"stage", "count", "percentage", "drop_off"}}
	for _, s := range stages {
		records = append(records, []string{s.Label, strconv.Itoa(s.Count), num(s.Percentage), strconv.Itoa(s.DropOff)})
	}
	return writeAll(w, records)
}

func writeTimelineCSV(w io.Writer, entries []timeline.Entry) error {
	records := [][]string{{"at", "category", "detail", "impact"}}
	for _, e := range entries {
		at := e.At
		records = append(records, []string{stamp(&at), string(e.Category), e.Detail, e.Impact})
	}
	return writeAll(w, records)
}

func writeAll(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
