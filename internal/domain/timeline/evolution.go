package timeline

import (
	"math"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
)

// Improvement holds before/after deltas between the first and last
// artifact. Positive values are improvements.
type Improvement struct {
	ScoreChange     float64 `json:"score_change"`
	ErrorReduction  int     `json:"error_reduction"`
	VerbImprovement float64 `json:"verb_improvement"`
	// OverallProgress is the unweighted mean of the three deltas, rounded.
	OverallProgress int `json:"overall_progress"`
}

// Evolution summarizes how a member's CV changed over time.
type Evolution struct {
	Original    *model.ScoredArtifact `json:"original,omitempty"`
	Improved    *model.ScoredArtifact `json:"improved,omitempty"`
	Analyses    int                   `json:"analyses"`
	Improvement Improvement           `json:"improvement"`
}

// Evolve orders artifacts by timestamp and compares the first with the
// last. Untimed artifacts follow the timed ones in input order. With fewer
// than two artifacts Improved is nil and every delta is zero.
func Evolve(artifacts []model.ScoredArtifact) Evolution {
	ordered := model.OrderArtifacts(artifacts)

	ev := Evolution{Analyses: len(ordered)}
	if len(ordered) == 0 {
		return ev
	}
	first := ordered[0]
	ev.Original = &first
	if len(ordered) < 2 {
		return ev
	}
	last := ordered[len(ordered)-1]
	ev.Improved = &last

	imp := Improvement{
		ScoreChange:     last.Score - first.Score,
		ErrorReduction:  first.Errors - last.Errors,
		VerbImprovement: last.VerbLevel - first.VerbLevel,
	}
	sum := imp.ScoreChange + float64(imp.ErrorReduction) + imp.VerbImprovement
	imp.OverallProgress = int(math.Round(sum / 3))
	ev.Improvement = imp
	return ev
}
