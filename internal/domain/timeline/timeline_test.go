package timeline_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

var base = time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

func at(hours int) *time.Time {
	t := base.Add(time.Duration(hours) * time.Hour)
	return &t
}

func TestSynthesize(t *testing.T) {
	Convey("Given a member with activity from several collections", t, func() {
		score := 72.0
		m := model.Member{
			ID:           "m1",
			RegisteredAt: at(0),
			HasCV:        true,
			CVFileName:   "cv.pdf",
			CVUploadedAt: at(5),
		}
		act := model.MemberActivity{
			Events: []model.Event{
				{Kind: model.KindSpend, Tool: model.ToolJobMatch, Credits: -1, At: at(30)},
				{Kind: model.KindPurchase, Credits: 20, At: at(2)},
				{Kind: model.KindReserve, Tool: model.ToolCVReview, Credits: -1, At: at(3)},
				{Kind: model.KindSpend, Tool: model.ToolCVReview, Credits: -1, At: nil},
			},
			Artifacts: []model.ScoredArtifact{
				{Score: 64, Errors: 3, At: at(10)},
			},
			Interviews: []model.Interview{
				{JobTitle: "Analyst", Score: &score, At: at(20)},
			},
		}

		Convey("When synthesizing the timeline", func() {
			entries := timeline.Synthesize(m, act)

			Convey("Then entries are ordered by timestamp", func() {
				var cats []timeline.Category
				for _, e := range entries {
					cats = append(cats, e.Category)
				}
				So(cats, ShouldResemble, []timeline.Category{
					timeline.CategoryRegistration,
					timeline.CategoryPurchase,
					timeline.CategoryCVUpload,
					timeline.CategoryCVAnalysis,
					timeline.CategoryInterview,
					timeline.CategoryToolUse,
				})
			})

			Convey("Then untimed and non-use events are omitted", func() {
				So(len(entries), ShouldEqual, 6)
			})

			Convey("Then details carry readable context", func() {
				So(entries[2].Detail, ShouldEqual, `Uploaded CV "cv.pdf"`)
				So(entries[3].Impact, ShouldEqual, "3 issues found")
				So(entries[4].Detail, ShouldEqual, "Interview simulation for Analyst")
				So(entries[5].Detail, ShouldEqual, "Used Job match")
				So(entries[5].Impact, ShouldEqual, "-1 credits")
			})
		})

		Convey("When the member has no timestamps at all", func() {
			entries := timeline.Synthesize(model.Member{ID: "m2", HasCV: true}, model.MemberActivity{})

			Convey("Then the timeline is empty", func() {
				So(entries, ShouldBeEmpty)
			})
		})
	})

	Convey("Given events in random order", t, func() {
		r := rand.New(rand.NewSource(11))
		var events []model.Event
		for i := 0; i < 50; i++ {
			events = append(events, model.Event{Kind: model.KindSpend, Tool: model.ToolCVReview, At: at(r.Intn(500))})
		}
		entries := timeline.Synthesize(model.Member{}, model.MemberActivity{Events: events})

		Convey("Then the output is non-decreasing by timestamp", func() {
			So(len(entries), ShouldEqual, 50)
			for i := 1; i < len(entries); i++ {
				So(entries[i].At.Before(entries[i-1].At), ShouldBeFalse)
			}
		})
	})
}

func TestEvolve(t *testing.T) {
	Convey("Given a single artifact", t, func() {
		ev := timeline.Evolve([]model.ScoredArtifact{{Score: 55, Errors: 4, VerbLevel: 3, At: at(0)}})

		Convey("Then there is nothing to compare against", func() {
			So(ev.Original, ShouldNotBeNil)
			So(ev.Improved, ShouldBeNil)
			So(ev.Analyses, ShouldEqual, 1)
			So(ev.Improvement, ShouldResemble, timeline.Improvement{})
		})
	})

	Convey("Given artifacts out of order", t, func() {
		ev := timeline.Evolve([]model.ScoredArtifact{
			{ID: "last", Score: 82, Errors: 1, VerbLevel: 7, At: at(48)},
			{ID: "first", Score: 60, Errors: 6, VerbLevel: 4, At: at(0)},
			{ID: "middle", Score: 70, Errors: 3, VerbLevel: 5, At: at(24)},
		})

		Convey("Then the earliest and latest artifacts are compared", func() {
			So(ev.Analyses, ShouldEqual, 3)
			So(ev.Original.ID, ShouldEqual, "first")
			So(ev.Improved.ID, ShouldEqual, "last")
			So(ev.Improvement.ScoreChange, ShouldEqual, 22.0)
			So(ev.Improvement.ErrorReduction, ShouldEqual, 5)
			So(ev.Improvement.VerbImprovement, ShouldEqual, 3.0)
			So(ev.Improvement.OverallProgress, ShouldEqual, 10)
		})
	})

	Convey("Given artifacts without timestamps", t, func() {
		ev := timeline.Evolve([]model.ScoredArtifact{
			{ID: "a", Score: 40, Errors: 9, VerbLevel: 2},
			{ID: "b", Score: 70, Errors: 4, VerbLevel: 5},
		})

		Convey("Then they are compared in input order", func() {
			So(ev.Analyses, ShouldEqual, 2)
			So(ev.Original.ID, ShouldEqual, "a")
			So(ev.Improved.ID, ShouldEqual, "b")
			So(ev.Improvement.ScoreChange, ShouldEqual, 30.0)
			So(ev.Improvement.ErrorReduction, ShouldEqual, 5)
			So(ev.Improvement.VerbImprovement, ShouldEqual, 3.0)
		})
	})

	Convey("Given timed and untimed artifacts mixed", t, func() {
		ev := timeline.Evolve([]model.ScoredArtifact{
			{ID: "untimed", Score: 90},
			{ID: "late", Score: 65, At: at(10)},
			{ID: "early", Score: 50, At: at(1)},
		})

		Convey("Then untimed artifacts come after the timed ones", func() {
			So(ev.Analyses, ShouldEqual, 3)
			So(ev.Original.ID, ShouldEqual, "early")
			So(ev.Improved.ID, ShouldEqual, "untimed")
			So(ev.Improvement.ScoreChange, ShouldEqual, 40.0)
		})
	})

	Convey("Given a regression", t, func() {
		ev := timeline.Evolve([]model.ScoredArtifact{
			{Score: 80, Errors: 1, VerbLevel: 6, At: at(0)},
			{Score: 70, Errors: 4, VerbLevel: 5, At: at(1)},
		})

		Convey("Then deltas are negative", func() {
			So(ev.Improvement.ScoreChange, ShouldEqual, -10.0)
			So(ev.Improvement.ErrorReduction, ShouldEqual, -3)
			So(ev.Improvement.OverallProgress, ShouldEqual, -5)
		})
	})

	Convey("Given no artifacts", t, func() {
		ev := timeline.Evolve(nil)
		So(ev.Original, ShouldBeNil)
		So(ev.Analyses, ShouldEqual, 0)
	})
}
