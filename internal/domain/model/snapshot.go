package model

import (
	"sort"
	"sync"
	"time"
)

// Snapshot is an in-memory copy of every collection the engine reads.
type Snapshot struct {
	Members    []Member
	Events     []Event
	Artifacts  []ScoredArtifact
	Interviews []Interview
	Jobs       []JobPosting
	Issues     []Issue
	TakenAt    time.Time

	once  sync.Once
	index *activityIndex
}

// MemberActivity groups the records that belong to one member.
type MemberActivity struct {
	Events     []Event
	Artifacts  []ScoredArtifact
	Interviews []Interview
}

// ToolUses returns the number of tool-use events.
func (a MemberActivity) ToolUses() int {
	n := 0
	for _, e := range a.Events {
		if e.IsToolUse() {
			n++
		}
	}
	return n
}

type activityIndex struct {
	byMember map[string]*MemberActivity
}

// ActivityFor returns the events, artifacts and interviews of a member.
// Record order within each slice follows the snapshot order. The index is
// built on first use, so the record slices must not change afterwards.
func (s *Snapshot) ActivityFor(memberID string) MemberActivity {
	if s == nil {
		return MemberActivity{}
	}
	s.once.Do(s.buildIndex)
	if a, ok := s.index.byMember[memberID]; ok {
		return *a
	}
	return MemberActivity{}
}

func (s *Snapshot) buildIndex() {
	idx := &activityIndex{byMember: make(map[string]*MemberActivity)}
	get := func(id string) *MemberActivity {
		a, ok := idx.byMember[id]
		if !ok {
			a = &MemberActivity{}
			idx.byMember[id] = a
		}
		return a
	}
	for _, e := range s.Events {
		a := get(e.MemberID)
		a.Events = append(a.Events, e)
	}
	for _, r := range s.Artifacts {
		a := get(r.MemberID)
		a.Artifacts = append(a.Artifacts, r)
	}
	for _, iv := range s.Interviews {
		a := get(iv.MemberID)
		a.Interviews = append(a.Interviews, iv)
	}
	s.index = idx
}

// Member returns the member with the given id.
func (s *Snapshot) Member(id string) (Member, bool) {
	if s == nil {
		return Member{}, false
	}
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// MembersOf returns the members whose canonical university equals name.
// An empty name returns every member.
func (s *Snapshot) MembersOf(name string) []Member {
	if s == nil {
		return nil
	}
	if name == "" {
		out := make([]Member, len(s.Members))
		copy(out, s.Members)
		return out
	}
	var out []Member
	for _, m := range s.Members {
		if m.University == name {
			out = append(out, m)
		}
	}
	return out
}

// Universities returns the distinct canonical universities, sorted by name.
func (s *Snapshot) Universities() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, m := range s.Members {
		seen[m.University] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
