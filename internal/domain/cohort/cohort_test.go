package cohort_test

import (
	"testing"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/activity"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)

func ago(days int) *time.Time {
	t := now.Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}

func after(base *time.Time, days int) *time.Time {
	t := base.Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

func uses(memberID string, tool model.Tool, n int) []model.Event {
	out := make([]model.Event, n)
	for i := range out {
		out[i] = model.Event{MemberID: memberID, Kind: model.KindSpend, Tool: tool, Credits: -1, At: ago(1)}
	}
	return out
}

func fixture() ([]model.Member, *model.Snapshot) {
	members := []model.Member{
		{ID: "m1", University: "UL", Interest: "Desarrollo de software", HasCV: true, ProfileCompleted: true, OnboardingCompleted: true, RegisteredAt: ago(60)},
		{ID: "m2", University: "UL", Interest: "Marketing digital", HasCV: true, ProfileCompleted: true, RegisteredAt: ago(45)},
		{ID: "m3", University: "UL", Interest: "Finanzas corporativas", HasCV: true, RegisteredAt: ago(40)},
		{ID: "m4", University: "UPC", Interest: "Data Science", RegisteredAt: ago(10)},
		{ID: "m5", University: "UPC", Interest: "", RegisteredAt: nil},
	}
	members[0].LastActiveAt = after(members[0].RegisteredAt, 35)
	members[1].LastActiveAt = after(members[1].RegisteredAt, 8)
	members[2].LastActiveAt = after(members[2].RegisteredAt, 0)
	members[3].LastActiveAt = ago(2)

	var events []model.Event
	events = append(events, uses("m1", model.ToolCVReview, 6)...)
	events = append(events, uses("m1", model.ToolJobMatch, 6)...)
	events = append(events, uses("m2", model.ToolInterviewSimulation, 3)...)
	events = append(events, uses("m4", model.ToolCVCreation, 1)...)
	events = append(events,
		model.Event{MemberID: "m1", Kind: model.KindPurchase, Credits: 50, At: ago(50)},
		model.Event{MemberID: "m2", Kind: model.KindBonus, Credits: 5, At: ago(40)},
		model.Event{MemberID: "m2", Kind: model.KindReserve, Tool: model.ToolCVReview, Credits: -2, At: ago(3)},
		model.Event{MemberID: "m2", Kind: model.KindRevert, Tool: model.ToolCVReview, Credits: 2, At: ago(3)},
		model.Event{MemberID: "ghost", Kind: model.KindPurchase, Credits: 999, At: ago(3)},
	)

	score := 80.0
	snap := &model.Snapshot{
		Members: members,
		Events:  events,
		Artifacts: []model.ScoredArtifact{
			{MemberID: "m1", Score: 60, Errors: 8, At: ago(30)},
			{MemberID: "m1", Score: 80, Errors: 2, At: ago(5)},
			{MemberID: "m2", Score: 70, Errors: 4, At: ago(20)},
		},
		Interviews: []model.Interview{{MemberID: "m2", Score: &score, At: ago(4)}, {MemberID: "m2", At: ago(2)}},
	}
	return members, snap
}

func TestAggregate(t *testing.T) {
	Convey("Given a cohort snapshot and a fixed clock", t, func() {
		members, snap := fixture()
		agg := cohort.New(func() time.Time { return now })

		Convey("When aggregating every member", func() {
			m := agg.Aggregate("", members, snap)

			Convey("Then flag totals are counted", func() {
				So(m.TotalMembers, ShouldEqual, 5)
				So(m.WithCV, ShouldEqual, 3)
				So(m.ProfileCompleted, ShouldEqual, 2)
				So(m.OnboardingCompleted, ShouldEqual, 1)
				So(m.GeneratedAt, ShouldEqual, now)
			})

			Convey("Then tool usage follows the fixed tool order", func() {
				So(m.ToolUsage, ShouldResemble, []cohort.ToolCount{
					{Tool: model.ToolCVReview, Count: 6},
					{Tool: model.ToolJobMatch, Count: 6},
					{Tool: model.ToolInterviewSimulation, Count: 3},
					{Tool: model.ToolCVCreation, Count: 1},
				})
			})

			Convey("Then activity of non-members is ignored", func() {
				So(m.Credits.Purchased, ShouldEqual, 50.0)
				So(m.Credits.Bonus, ShouldEqual, 5.0)
				So(m.Credits.Spent, ShouldEqual, 16.0)
				So(m.Credits.Refunded, ShouldEqual, 2.0)
				So(m.EventKinds[0], ShouldResemble, cohort.KindCount{Kind: model.KindPurchase, Count: 1})
			})

			Convey("Then members are bucketed by activity level", func() {
				So(m.Levels, ShouldResemble, []cohort.LevelCount{
					{Level: activity.Inactive, Count: 2},
					{Level: activity.New, Count: 1},
					{Level: activity.Active, Count: 1},
					{Level: activity.Power, Count: 1},
				})
			})

			Convey("Then retention only looks at members registered 30+ days ago", func() {
				So(m.Retention.TotalCohort, ShouldEqual, 3)
				So(m.Retention.Day1, ShouldEqual, 66.7)
				So(m.Retention.Day7, ShouldEqual, 66.7)
				So(m.Retention.Day30, ShouldEqual, 33.3)
			})

			Convey("Then engagement windows use the injected clock", func() {
				So(m.Engagement.Last7Days, ShouldEqual, 1)
				So(m.Engagement.Last30Days, ShouldEqual, 2)
			})

			Convey("Then analyses and interviews are summarized", func() {
				So(m.Analyses.Total, ShouldEqual, 3)
				So(m.Analyses.MembersScored, ShouldEqual, 2)
				So(m.Analyses.AverageScore, ShouldEqual, 70.0)
				So(m.Analyses.MembersImproved, ShouldEqual, 1)
				So(m.Interviews.Total, ShouldEqual, 2)
				So(m.Interviews.Members, ShouldEqual, 1)
				So(m.Interviews.AverageScore, ShouldEqual, 80.0)
			})

			Convey("Then the activation funnel starts at the population", func() {
				So(len(m.Funnel), ShouldEqual, 6)
				So(m.Funnel[0].Count, ShouldEqual, 5)
				So(m.Funnel[1].Count, ShouldEqual, 3)
				So(m.Funnel[4].Label, ShouldEqual, "Used a tool")
				So(m.Funnel[4].Count, ShouldEqual, 3)
				So(m.Funnel[5].Count, ShouldEqual, 1)
				So(m.Funnel[5].DropOff, ShouldEqual, 4)
			})
		})

		Convey("When aggregating twice", func() {
			a := agg.Aggregate("UL", members[:3], snap)
			b := agg.Aggregate("UL", members[:3], snap)

			Convey("Then results are identical", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When a member's analyses carry no timestamps", func() {
			untimed := &model.Snapshot{
				Members: members[:1],
				Artifacts: []model.ScoredArtifact{
					{MemberID: "m1", Score: 40},
					{MemberID: "m1", Score: 70},
				},
			}
			m := agg.Aggregate("UL", members[:1], untimed)

			Convey("Then they are compared in snapshot order", func() {
				So(m.Analyses.Total, ShouldEqual, 2)
				So(m.Analyses.MembersImproved, ShouldEqual, 1)
			})
		})

		Convey("When aggregating an empty cohort", func() {
			m := agg.Aggregate("Nobody", nil, snap)

			Convey("Then every figure is zero", func() {
				So(m.TotalMembers, ShouldEqual, 0)
				So(m.Retention, ShouldResemble, cohort.Retention{})
				So(m.TopCategories, ShouldBeEmpty)
				for _, s := range m.Funnel {
					So(s.Percentage, ShouldEqual, 0.0)
				}
			})
		})
	})
}

func TestTopCategories(t *testing.T) {
	Convey("Given members with free-text interests", t, func() {
		agg := cohort.New(func() time.Time { return now })
		interests := []string{
			"Ingeniería de Software", "software", "DATA analytics", "Sistemas",
			"Marketing", "publicidad", "Finanzas", "Derecho", "Estadística", "",
		}
		var members []model.Member
		for _, in := range interests {
			members = append(members, model.Member{Interest: in})
		}

		Convey("When computing the breakdown", func() {
			rows := agg.TopCategories(members)

			Convey("Then the top three are kept with rounded percentages", func() {
				So(len(rows), ShouldEqual, 3)
				So(rows[0], ShouldResemble, cohort.CategoryCount{Category: "Technology", Count: 4, Percentage: 40})
				So(rows[1], ShouldResemble, cohort.CategoryCount{Category: "Marketing", Count: 2, Percentage: 20})
				So(rows[2], ShouldResemble, cohort.CategoryCount{Category: "Other", Count: 2, Percentage: 20})
			})

			Convey("Then the top counts never exceed the population", func() {
				sum := 0
				for _, r := range rows {
					sum += r.Count
				}
				So(sum, ShouldBeLessThanOrEqualTo, len(members))
			})
		})

		Convey("When custom rules are configured", func() {
			custom := cohort.New(func() time.Time { return now }, cohort.WithTopN(1), cohort.WithCategoryRules([]cohort.CategoryRule{
				{Category: "Legal", Keywords: []string{"DERECHO"}},
			}))
			rows := custom.TopCategories(members)

			Convey("Then unmatched interests fall into Other", func() {
				So(rows, ShouldResemble, []cohort.CategoryCount{{Category: "Other", Count: 9, Percentage: 90}})
			})
		})
	})
}

func TestRetain(t *testing.T) {
	Convey("Given no eligible members", t, func() {
		r := cohort.Retain([]model.Member{{RegisteredAt: ago(3)}, {}}, now)

		Convey("Then retention is zero rather than a division error", func() {
			So(r, ShouldResemble, cohort.Retention{Day1: 0, Day7: 0, Day30: 0, TotalCohort: 0})
		})
	})

	Convey("Given an eligible member without last activity", t, func() {
		r := cohort.Retain([]model.Member{{RegisteredAt: ago(31)}}, now)
		So(r.TotalCohort, ShouldEqual, 1)
		So(r.Day1, ShouldEqual, 0.0)
	})
}

func TestOverview(t *testing.T) {
	Convey("Given members across universities", t, func() {
		members, snap := fixture()
		agg := cohort.New(func() time.Time { return now })

		Convey("When building the overview", func() {
			rows := agg.Overview(members, snap)

			Convey("Then rows are sorted by size and carry per-entity rollups", func() {
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Entity, ShouldEqual, "UL")
				So(rows[0].Members, ShouldEqual, 3)
				So(rows[0].WithCV, ShouldEqual, 3)
				So(rows[0].Engaged, ShouldEqual, 2)
				So(rows[0].ToolUses, ShouldEqual, 15)
				So(rows[0].AverageScore, ShouldEqual, 70.0)
				So(rows[0].CVRate, ShouldEqual, 100)
				So(rows[0].EngagedRate, ShouldEqual, 67)
				So(rows[1].Entity, ShouldEqual, "UPC")
				So(rows[1].ToolUses, ShouldEqual, 1)
			})
		})

		Convey("When two entities tie on size", func() {
			rows := agg.Overview([]model.Member{{ID: "x", University: "B"}, {ID: "y", University: "A"}}, snap)
			So(rows[0].Entity, ShouldEqual, "A")
			So(rows[1].Entity, ShouldEqual, "B")
		})
	})
}
