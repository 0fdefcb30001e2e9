package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("campus"),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names carry the namespace and constant labels", func() {
				manager.AliasMatch("exact")
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				var env string
				for _, f := range families {
					names = append(names, f.GetName())
					if f.GetName() == "campus_analytics_alias_matches_total" {
						for _, lp := range f.GetMetric()[0].GetLabel() {
							if lp.GetName() == "env" {
								env = lp.GetValue()
							}
						}
					}
				}
				So(names, ShouldContain, "campus_analytics_alias_matches_total")
				So(env, ShouldEqual, "test")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording ingestion metrics", func() {
			m.RecordsFetched("users", 12)
			m.RecordsFetched("users", 0)
			m.RecordSkipped("creditHistory", "missing_member")
			m.IngestionIssue("malformed_timestamp")
			m.IngestionIssue("malformed_timestamp")
			m.UpdateMembers(12)

			Convey("Then counters reflect the calls", func() {
				So(testutil.ToFloat64(m.recordsFetched.WithLabelValues("users")), ShouldEqual, 12.0)
				So(testutil.ToFloat64(m.recordsSkipped.WithLabelValues("creditHistory", "missing_member")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.ingestionIssues.WithLabelValues("malformed_timestamp")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.membersTotal), ShouldEqual, 12.0)
			})
		})

		Convey("When recording alias metrics", func() {
			m.AliasMatch("contains")
			m.AliasLoadFailure("http")
			m.AliasCacheHit()
			m.AliasCacheMiss()
			m.AliasCacheMiss()
			m.UpdateAliasRules(40)

			Convey("Then counters reflect the calls", func() {
				So(testutil.ToFloat64(m.aliasMatches.WithLabelValues("contains")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.aliasLoadFailures.WithLabelValues("http")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.aliasCacheHits), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.aliasCacheMisses), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.aliasRules), ShouldEqual, 40.0)
			})
		})

		Convey("When recording report metrics", func() {
			m.ReportDuration("overview", 12.5)
			m.InvariantViolations("funnel", 2)
			m.InvariantViolations("funnel", 0)
			m.MarkRun(1700000000)
			m.ErrorByComponent("repository", "collection_failed")

			Convey("Then counters reflect the calls", func() {
				So(testutil.ToFloat64(m.reportsGenerated.WithLabelValues("overview")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.invariantViolations.WithLabelValues("funnel")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.lastRunUnix), ShouldEqual, 1700000000.0)
				So(testutil.ToFloat64(m.errorRateByComponent.WithLabelValues("repository", "collection_failed")), ShouldEqual, 1.0)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When recording", func() {
			m.AliasCacheHit()
			m.RecordsFetched("users", 3)

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(m.aliasCacheHits), ShouldEqual, 0.0)
				So(testutil.ToFloat64(m.recordsFetched.WithLabelValues("users")), ShouldEqual, 0.0)
			})
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the process-wide manager", t, func() {
		So(Default(), ShouldNotBeNil)
		So(func() { Default().MarkRun(0) }, ShouldNotPanic)
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded metrics", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))
		m.AliasMatch("exact")
		path := filepath.Join(t.TempDir(), "myworkin.prom")

		Convey("When writing the textfile", func() {
			err := m.WriteTextfile(path)

			Convey("Then the exposition contains the metric", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(strings.Contains(string(data), `myworkin_analytics_alias_matches_total{kind="exact"} 1`), ShouldBeTrue)
			})
		})

		Convey("When the registry cannot be gathered", func() {
			bare := NewManager(WithPrometheusRegistry(registererOnly{prometheus.NewRegistry()}))
			err := bare.WriteTextfile(path)

			Convey("Then an export error is returned", func() {
				So(errors.Is(err, ErrExportFailed), ShouldBeTrue)
			})
		})
	})
}

type registererOnly struct {
	prometheus.Registerer
}
