// Package model contains the typed records read from the document store.
//
// Records are validated once at ingestion. Optional timestamps are pointers:
// nil means the field was absent or could not be parsed.
package model

import (
	"sort"
	"time"
)

// Member is a registered person on the platform.
type Member struct {
	ID          string
	Email       string
	DisplayName string

	// RawUniversity is the free-text value the member typed.
	RawUniversity string
	// University is the canonical entity resolved from RawUniversity at ingestion.
	University string
	// Interest is the free-text career interest or target role.
	Interest string

	RegisteredAt *time.Time
	LastActiveAt *time.Time

	HasCV               bool
	ProfileCompleted    bool
	OnboardingCompleted bool

	CVFileName   string
	CVURL        string
	CVUploadedAt *time.Time
}

// EventKind is the category of a credit event.
type EventKind string

// Event kinds.
const (
	KindPurchase EventKind = "purchase"
	KindSpend    EventKind = "spend"
	KindBonus    EventKind = "bonus"
	KindReserve  EventKind = "reserve"
	KindConfirm  EventKind = "confirm"
	KindRevert   EventKind = "revert"
	KindRefund   EventKind = "refund"
)

// EventKinds lists every kind in reporting order.
func EventKinds() []EventKind {
	return []EventKind{KindPurchase, KindSpend, KindBonus, KindReserve, KindConfirm, KindRevert, KindRefund}
}

// Valid reports whether k belongs to the closed set.
func (k EventKind) Valid() bool {
	for _, v := range EventKinds() {
		if k == v {
			return true
		}
	}
	return false
}

// Tool identifies a platform tool that consumes credits.
type Tool string

// Tools.
const (
	ToolCVReview            Tool = "cv-review"
	ToolJobMatch            Tool = "job-match"
	ToolInterviewSimulation Tool = "interview-simulation"
	ToolCVCreation          Tool = "cv-creation"
)

// Tools lists every tool in reporting order.
func Tools() []Tool {
	return []Tool{ToolCVReview, ToolJobMatch, ToolInterviewSimulation, ToolCVCreation}
}

// Valid reports whether t belongs to the closed set.
func (t Tool) Valid() bool {
	for _, v := range Tools() {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns a human readable tool name.
func (t Tool) Label() string {
	switch t {
	case ToolCVReview:
		return "CV review"
	case ToolJobMatch:
		return "Job match"
	case ToolInterviewSimulation:
		return "Interview simulation"
	case ToolCVCreation:
		return "CV creation"
	default:
		return string(t)
	}
}

// EventStatus is the optional lifecycle status of a credit event.
type EventStatus string

// Event statuses.
const (
	StatusPending   EventStatus = "pending"
	StatusConfirmed EventStatus = "confirmed"
	StatusReverted  EventStatus = "reverted"
	StatusCompleted EventStatus = "completed"
)

// Valid reports whether s is empty or belongs to the closed set.
func (s EventStatus) Valid() bool {
	switch s {
	case "", StatusPending, StatusConfirmed, StatusReverted, StatusCompleted:
		return true
	}
	return false
}

// Event is a timestamped credit action performed by a member.
type Event struct {
	ID          string
	MemberID    string
	Kind        EventKind
	Tool        Tool
	Credits     float64
	Description string
	At          *time.Time
	Status      EventStatus
}

// IsToolUse reports whether the event counts as one use of a tool.
// Reservations are provisional and reverts/refunds undo a use, so only
// spend and confirm events with a tool count.
func (e Event) IsToolUse() bool {
	if e.Tool == "" {
		return false
	}
	return e.Kind == KindSpend || e.Kind == KindConfirm
}

// Assessment is one category-keyed sub-result of a scored artifact.
type Assessment struct {
	Score   *float64 `json:"score,omitempty"`
	Summary string   `json:"summary,omitempty"`
}

// ScoredArtifact is an analysis result (e.g. a CV review) for a member.
type ScoredArtifact struct {
	ID       string     `json:"id"`
	MemberID string     `json:"member_id"`
	At       *time.Time `json:"at,omitempty"`

	// Score is a percentage in [0,100].
	Score float64 `json:"score"`
	// Errors is the number of issues found.
	Errors int `json:"errors"`
	// VerbLevel is the action-verb/impact level in [0,10].
	VerbLevel float64 `json:"verb_level"`

	FileName string                `json:"file_name,omitempty"`
	Sections map[string]Assessment `json:"sections,omitempty"`
}

// OrderArtifacts returns a copy of artifacts with timed ones ascending by
// timestamp, followed by untimed ones in their original order.
func OrderArtifacts(artifacts []ScoredArtifact) []ScoredArtifact {
	out := make([]ScoredArtifact, len(artifacts))
	copy(out, artifacts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].At, out[j].At
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})
	return out
}

// Interview is a simulated interview session.
type Interview struct {
	ID       string     `json:"id"`
	MemberID string     `json:"member_id"`
	JobTitle string     `json:"job_title,omitempty"`
	At       *time.Time `json:"at,omitempty"`
	Score    *float64   `json:"score,omitempty"`
	Status   string     `json:"status,omitempty"`
}

// JobPosting is a job offer published on the platform.
type JobPosting struct {
	ID       string
	Title    string
	Company  string
	Location string
	PostedAt *time.Time
}

// IssueKind classifies a soft ingestion problem.
type IssueKind string

// Issue kinds.
const (
	IssueMissingData        IssueKind = "missing_data"
	IssueMalformedTimestamp IssueKind = "malformed_timestamp"
	IssueUnknownValue       IssueKind = "unknown_value"
	IssueCollectionFailed   IssueKind = "collection_failed"
)

// Issue records a recoverable data problem found during ingestion.
type Issue struct {
	Collection string
	RecordID   string
	Field      string
	Kind       IssueKind
	Detail     string
}
