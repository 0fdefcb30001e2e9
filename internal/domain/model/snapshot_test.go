package model_test

import (
	"testing"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotActivityFor(t *testing.T) {
	Convey("Given a snapshot with records for two members", t, func() {
		at := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
		snap := &model.Snapshot{
			Members: []model.Member{
				{ID: "a", University: "Universidad de Lima"},
				{ID: "b", University: "Universidad del Pacífico"},
				{ID: "c", University: "Universidad de Lima"},
			},
			Events: []model.Event{
				{ID: "e1", MemberID: "a", Kind: model.KindSpend, Tool: model.ToolCVReview, At: &at},
				{ID: "e2", MemberID: "a", Kind: model.KindReserve, Tool: model.ToolJobMatch, At: &at},
				{ID: "e3", MemberID: "b", Kind: model.KindPurchase, Credits: 10, At: &at},
				{ID: "e4", MemberID: "a", Kind: model.KindConfirm, Tool: model.ToolJobMatch, At: &at},
			},
			Artifacts:  []model.ScoredArtifact{{ID: "r1", MemberID: "a", Score: 70}},
			Interviews: []model.Interview{{ID: "i1", MemberID: "b"}},
		}

		Convey("When asking for member a", func() {
			act := snap.ActivityFor("a")

			Convey("Then only a's records are returned in snapshot order", func() {
				So(len(act.Events), ShouldEqual, 3)
				So(act.Events[0].ID, ShouldEqual, "e1")
				So(act.Events[2].ID, ShouldEqual, "e4")
				So(len(act.Artifacts), ShouldEqual, 1)
				So(act.Interviews, ShouldBeEmpty)
			})

			Convey("And reservations are not counted as tool uses", func() {
				So(act.ToolUses(), ShouldEqual, 2)
			})
		})

		Convey("When asking for an unknown member", func() {
			act := snap.ActivityFor("zzz")
			So(act.Events, ShouldBeEmpty)
			So(act.ToolUses(), ShouldEqual, 0)
		})

		Convey("When filtering by university", func() {
			So(len(snap.MembersOf("Universidad de Lima")), ShouldEqual, 2)
			So(len(snap.MembersOf("")), ShouldEqual, 3)
			So(snap.MembersOf("Nowhere"), ShouldBeEmpty)
		})

		Convey("When listing universities", func() {
			So(snap.Universities(), ShouldResemble, []string{"Universidad de Lima", "Universidad del Pacífico"})
		})

		Convey("When looking a member up", func() {
			m, ok := snap.Member("c")
			So(ok, ShouldBeTrue)
			So(m.ID, ShouldEqual, "c")
			_, ok = snap.Member("nope")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestClosedSets(t *testing.T) {
	Convey("Given the closed value sets", t, func() {
		So(model.KindRefund.Valid(), ShouldBeTrue)
		So(model.EventKind("gift").Valid(), ShouldBeFalse)
		So(model.ToolInterviewSimulation.Valid(), ShouldBeTrue)
		So(model.Tool("resume").Valid(), ShouldBeFalse)
		So(model.EventStatus("").Valid(), ShouldBeTrue)
		So(model.EventStatus("lost").Valid(), ShouldBeFalse)
		So(model.ToolCVReview.Label(), ShouldEqual, "CV review")
	})
}

func TestOrderArtifacts(t *testing.T) {
	Convey("Given timed and untimed artifacts", t, func() {
		early := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
		late := early.Add(48 * time.Hour)
		in := []model.ScoredArtifact{
			{ID: "u1"},
			{ID: "late", At: &late},
			{ID: "u2"},
			{ID: "early", At: &early},
		}

		Convey("When ordering them", func() {
			out := model.OrderArtifacts(in)

			Convey("Then timed come first by time and untimed keep input order", func() {
				var ids []string
				for _, a := range out {
					ids = append(ids, a.ID)
				}
				So(ids, ShouldResemble, []string{"early", "late", "u1", "u2"})
				So(in[0].ID, ShouldEqual, "u1")
			})
		})
	})
}
