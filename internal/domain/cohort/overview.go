package cohort

import (
	"sort"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/activity"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
)

// EntitySummary is one row of the per-university overview.
type EntitySummary struct {
	Entity       string  `json:"entity"`
	Members      int     `json:"members"`
	WithCV       int     `json:"with_cv"`
	Engaged      int     `json:"engaged"`
	ToolUses     int     `json:"tool_uses"`
	AverageScore float64 `json:"average_score"`
	CVRate       int     `json:"cv_rate"`
	EngagedRate  int     `json:"engaged_rate"`
}

// Overview returns one summary per canonical entity, sorted by member
// count descending and then by name. Engaged counts members at the Active
// level or above.
func (a *Aggregator) Overview(members []model.Member, snap *model.Snapshot) []EntitySummary {
	type acc struct {
		EntitySummary
		scoreSum float64
		scored   int
	}
	byEntity := make(map[string]*acc)
	for _, mem := range members {
		row, ok := byEntity[mem.University]
		if !ok {
			row = &acc{EntitySummary: EntitySummary{Entity: mem.University}}
			byEntity[mem.University] = row
		}
		row.Members++
		if mem.HasCV {
			row.WithCV++
		}
		act := snap.ActivityFor(mem.ID)
		uses := act.ToolUses()
		row.ToolUses += uses
		if activity.Classify(uses) >= activity.Active {
			row.Engaged++
		}
		for _, r := range act.Artifacts {
			row.scoreSum += r.Score
			row.scored++
		}
	}

	out := make([]EntitySummary, 0, len(byEntity))
	for _, row := range byEntity {
		s := row.EntitySummary
		if row.scored > 0 {
			s.AverageScore = round1(row.scoreSum / float64(row.scored))
		}
		s.CVRate = percentInt(s.WithCV, s.Members)
		s.EngagedRate = percentInt(s.Engaged, s.Members)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Members != out[j].Members {
			return out[i].Members > out[j].Members
		}
		return out[i].Entity < out[j].Entity
	})
	return out
}
