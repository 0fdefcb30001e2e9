package funnel_test

import (
	"math/rand"
	"testing"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/funnel"
	. "github.com/smartystreets/goconvey/convey"
)

type member struct {
	verified  bool
	onboarded bool
}

func population(total, verified, onboarded int) []member {
	out := make([]member, total)
	for i := range out {
		out[i].verified = i < verified
		out[i].onboarded = i < onboarded
	}
	return out
}

func TestBuild(t *testing.T) {
	Convey("Given a three-stage funnel", t, func() {
		defs := []funnel.Definition[member]{
			{Label: "Registered", Count: func(p []member) int { return len(p) }},
			funnel.Where("Verified", func(m member) bool { return m.verified }),
			funnel.Where("Onboarded", func(m member) bool { return m.onboarded }),
		}

		Convey("When the population is 100/40/10", func() {
			stages := funnel.Build(defs, population(100, 40, 10))

			Convey("Then percentages and drop-offs follow the root stage", func() {
				So(len(stages), ShouldEqual, 3)
				So(stages[0].Label, ShouldEqual, "Registered")
				So(stages[1].Label, ShouldEqual, "Verified")
				So(stages[2].Label, ShouldEqual, "Onboarded")

				So(stages[0].Percentage, ShouldEqual, 100.0)
				So(stages[1].Percentage, ShouldEqual, 40.0)
				So(stages[2].Percentage, ShouldEqual, 10.0)

				So(stages[0].DropOff, ShouldEqual, 0)
				So(stages[1].DropOff, ShouldEqual, 60)
				So(stages[2].DropOff, ShouldEqual, 90)
				So(funnel.Violations(stages), ShouldBeEmpty)
			})
		})

		Convey("When the population is empty", func() {
			stages := funnel.Build(defs, nil)

			Convey("Then every stage is zero and no percentage is NaN", func() {
				for _, s := range stages {
					So(s.Count, ShouldEqual, 0)
					So(s.Percentage, ShouldEqual, 0.0)
					So(s.DropOff, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestFromCounts(t *testing.T) {
	Convey("Given invalid stage counts", t, func() {
		stages := funnel.FromCounts([]string{"a", "b", "c"}, []int{10, 15, -2})

		Convey("Then they are clamped and flagged", func() {
			So(stages[1].Count, ShouldEqual, 10)
			So(stages[1].Percentage, ShouldEqual, 100.0)
			So(stages[1].DropOff, ShouldEqual, 0)
			So(stages[1].Clamped, ShouldBeTrue)

			So(stages[2].Count, ShouldEqual, 0)
			So(stages[2].Percentage, ShouldEqual, 0.0)
			So(stages[2].Clamped, ShouldBeTrue)
			So(len(funnel.Violations(stages)), ShouldEqual, 2)
		})
	})

	Convey("Given fewer counts than labels", t, func() {
		stages := funnel.FromCounts([]string{"a", "b"}, []int{5})
		So(stages[1].Count, ShouldEqual, 0)
		So(stages[1].DropOff, ShouldEqual, 5)
	})

	Convey("Given no labels", t, func() {
		So(funnel.FromCounts(nil, nil), ShouldBeEmpty)
	})

	Convey("Given random non-increasing count sequences", t, func() {
		rng := rand.New(rand.NewSource(7))
		for run := 0; run < 200; run++ {
			n := 1 + rng.Intn(6)
			counts := make([]int, n)
			labels := make([]string, n)
			counts[0] = rng.Intn(500)
			for i := 1; i < n; i++ {
				counts[i] = rng.Intn(counts[0] + 1)
			}
			stages := funnel.FromCounts(labels, counts)

			So(stages[0].DropOff, ShouldEqual, 0)
			if counts[0] == 0 {
				for _, s := range stages {
					So(s.Percentage, ShouldEqual, 0.0)
				}
				continue
			}
			So(stages[0].Percentage, ShouldEqual, 100.0)
			for i := 1; i < n; i++ {
				So(stages[i].DropOff, ShouldEqual, counts[0]-counts[i])
				So(stages[i].Percentage, ShouldBeBetweenOrEqual, 0.0, 100.0)
			}
		}
	})
}
