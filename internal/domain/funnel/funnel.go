// Package funnel computes ordered drop-off pipelines over a population.
package funnel

// Stage is one checkpoint of a funnel.
type Stage struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	// Percentage of the first stage's count, in [0,100].
	Percentage float64 `json:"percentage"`
	// DropOff is the first stage's count minus this stage's count.
	DropOff int `json:"drop_off"`
	// Clamped is set when the raw count was negative or exceeded the first
	// stage, which points at an upstream data bug.
	Clamped bool `json:"clamped,omitempty"`
}

// Definition names a stage and how to count it over the population.
type Definition[T any] struct {
	Label string
	Count func(population []T) int
}

// Where builds a definition counting the members that satisfy pred.
func Where[T any](label string, pred func(T) bool) Definition[T] {
	return Definition[T]{
		Label: label,
		Count: func(population []T) int {
			n := 0
			for _, item := range population {
				if pred(item) {
					n++
				}
			}
			return n
		},
	}
}

// Build evaluates every definition against the full population and returns
// the stages in definition order.
func Build[T any](defs []Definition[T], population []T) []Stage {
	labels := make([]string, len(defs))
	counts := make([]int, len(defs))
	for i, d := range defs {
		labels[i] = d.Label
		if d.Count != nil {
			counts[i] = d.Count(population)
		}
	}
	return FromCounts(labels, counts)
}

// FromCounts builds stages from precomputed counts. Missing counts are zero.
func FromCounts(labels []string, counts []int) []Stage {
	stages := make([]Stage, len(labels))
	if len(labels) == 0 {
		return stages
	}

	root := countAt(counts, 0)
	rootClamped := false
	if root < 0 {
		root = 0
		rootClamped = true
	}

	for i, label := range labels {
		c := countAt(counts, i)
		st := Stage{Label: label}
		if i == 0 {
			st.Count = root
			st.Clamped = rootClamped
			if root > 0 {
				st.Percentage = 100
			}
			stages[i] = st
			continue
		}
		if c < 0 {
			c = 0
			st.Clamped = true
		}
		if c > root {
			c = root
			st.Clamped = true
		}
		st.Count = c
		st.DropOff = root - c
		if root > 0 {
			st.Percentage = 100 * float64(c) / float64(root)
		}
		stages[i] = st
	}
	return stages
}

// Violations returns the stages that had to be clamped.
func Violations(stages []Stage) []Stage {
	var out []Stage
	for _, s := range stages {
		if s.Clamped {
			out = append(out, s)
		}
	}
	return out
}

func countAt(counts []int, i int) int {
	if i < len(counts) {
		return counts[i]
	}
	return 0
}
