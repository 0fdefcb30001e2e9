// Package timeline derives per-member life-cycle narratives and CV
// evolution summaries from a member's activity.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
)

// Category tags a timeline entry.
type Category string

// Timeline categories.
const (
	CategoryRegistration Category = "registration"
	CategoryCVUpload     Category = "cv-upload"
	CategoryCVAnalysis   Category = "cv-analysis"
	CategoryToolUse      Category = "tool-use"
	CategoryPurchase     Category = "purchase"
	CategoryInterview    Category = "interview"
)

// Entry is one milestone on a member's timeline.
type Entry struct {
	At       time.Time `json:"at"`
	Category Category  `json:"category"`
	Detail   string    `json:"detail"`
	Impact   string    `json:"impact,omitempty"`
}

// Synthesize builds the ordered timeline of m. Milestones without a
// timestamp are omitted. Entries with equal timestamps keep their
// insertion order: registration, upload, analyses, events, interviews.
func Synthesize(m model.Member, act model.MemberActivity) []Entry {
	var out []Entry
	add := func(at *time.Time, e Entry) {
		if at == nil {
			return
		}
		e.At = *at
		out = append(out, e)
	}

	add(m.RegisteredAt, Entry{Category: CategoryRegistration, Detail: "Registered on the platform"})
	if m.HasCV {
		detail := "Uploaded a CV"
		if m.CVFileName != "" {
			detail = fmt.Sprintf("Uploaded CV %q", m.CVFileName)
		}
		add(m.CVUploadedAt, Entry{Category: CategoryCVUpload, Detail: detail})
	}

	for _, r := range act.Artifacts {
		e := Entry{
			Category: CategoryCVAnalysis,
			Detail:   fmt.Sprintf("CV analyzed: score %.0f%%", r.Score),
		}
		if r.Errors > 0 {
			e.Impact = fmt.Sprintf("%d issues found", r.Errors)
		}
		add(r.At, e)
	}

	for _, ev := range act.Events {
		switch {
		case ev.IsToolUse():
			add(ev.At, Entry{
				Category: CategoryToolUse,
				Detail:   "Used " + ev.Tool.Label(),
				Impact:   credits(ev.Credits),
			})
		case ev.Kind == model.KindPurchase:
			detail := "Purchased credits"
			if ev.Description != "" {
				detail = ev.Description
			}
			add(ev.At, Entry{Category: CategoryPurchase, Detail: detail, Impact: credits(ev.Credits)})
		}
	}

	for _, iv := range act.Interviews {
		e := Entry{Category: CategoryInterview, Detail: "Interview simulation"}
		if iv.JobTitle != "" {
			e.Detail = "Interview simulation for " + iv.JobTitle
		}
		if iv.Score != nil {
			e.Impact = fmt.Sprintf("score %.0f", *iv.Score)
		}
		add(iv.At, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

func credits(n float64) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%+g credits", n)
}
