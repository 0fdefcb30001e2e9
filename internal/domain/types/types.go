// Package types contains the report shapes shared by the service, the
// renderers and the CLI.
package types

import (
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/activity"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/funnel"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/timeline"
)

// StudentRow is one member line in a university report or CSV export.
type StudentRow struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	University          string         `json:"university"`
	Interest            string         `json:"interest"`
	Category            string         `json:"category"`
	Level               activity.Level `json:"level"`
	ToolUses            int            `json:"tool_uses"`
	HasCV               bool           `json:"has_cv"`
	ProfileCompleted    bool           `json:"profile_completed"`
	OnboardingCompleted bool           `json:"onboarding_completed"`
	LatestScore         *float64       `json:"latest_score,omitempty"`
	RegisteredAt        *time.Time     `json:"registered_at,omitempty"`
	LastActiveAt        *time.Time     `json:"last_active_at,omitempty"`
}

// Overview is the platform-wide report.
type Overview struct {
	RunID        string                 `json:"run_id,omitempty"`
	Totals       cohort.Metrics         `json:"totals"`
	Universities []cohort.EntitySummary `json:"universities"`
	Issues       int                    `json:"issues"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// UniversityReport is the drill-down for one canonical university.
type UniversityReport struct {
	RunID       string         `json:"run_id,omitempty"`
	University  string         `json:"university"`
	Metrics     cohort.Metrics `json:"metrics"`
	Students    []StudentRow   `json:"students"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// StudentReport is the drill-down for one member.
type StudentReport struct {
	RunID       string             `json:"run_id,omitempty"`
	Student     StudentRow         `json:"student"`
	ToolUsage   []cohort.ToolCount `json:"tool_usage"`
	Credits     cohort.Credits     `json:"credits"`
	Interviews  []model.Interview  `json:"interviews"`
	Timeline    []timeline.Entry   `json:"timeline"`
	Evolution   timeline.Evolution `json:"evolution"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// FunnelReport is an activation funnel for one cohort.
type FunnelReport struct {
	RunID       string         `json:"run_id,omitempty"`
	Entity      string         `json:"entity"`
	Stages      []funnel.Stage `json:"stages"`
	Violations  int            `json:"violations"`
	GeneratedAt time.Time      `json:"generated_at"`
}
