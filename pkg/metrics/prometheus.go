// Package metrics provides Prometheus metrics for the MyWorkIn analytics engine.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the analytics engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ingestion Metrics - document store reads
	recordsFetched  *prometheus.CounterVec
	recordsSkipped  *prometheus.CounterVec
	ingestionIssues *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	membersTotal    prometheus.Gauge

	// Alias Metrics - university canonicalization
	aliasMatches      *prometheus.CounterVec
	aliasLoadFailures *prometheus.CounterVec
	aliasRules        prometheus.Gauge
	aliasCacheHits    prometheus.Counter
	aliasCacheMisses  prometheus.Counter

	// Report Metrics
	reportDuration      *prometheus.HistogramVec
	reportsGenerated    *prometheus.CounterVec
	invariantViolations *prometheus.CounterVec
	lastRunUnix         prometheus.Gauge

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager on its own registry, without the default Go metrics.
var globalManager = NewManager(WithPrometheusRegistry(prometheus.NewRegistry())) //nolint:gochecknoglobals // fallback for unwired callers

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "myworkin",
		subsystem:        "analytics",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	// Ingestion Metrics
	m.recordsFetched = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "records_fetched_total",
			Help:        "Total number of records read from the document store by collection",
			ConstLabels: labels,
		},
		[]string{"collection"},
	)

	m.recordsSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "records_skipped_total",
			Help:        "Total number of records dropped during ingestion by collection and reason",
			ConstLabels: labels,
		},
		[]string{"collection", "reason"},
	)

	m.ingestionIssues = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "ingestion_issues_total",
			Help:        "Total number of recoverable data problems found during ingestion",
			ConstLabels: labels,
		},
		[]string{"kind"},
	)

	m.fetchDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "fetch_duration_milliseconds",
			Help:        "Duration of collection reads in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"collection"},
	)

	m.membersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "members",
		Help:        "Number of members in the last loaded snapshot",
		ConstLabels: labels,
	})

	// Alias Metrics
	m.aliasMatches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "alias_matches_total",
			Help:        "Total number of university name resolutions by match kind",
			ConstLabels: labels,
		},
		[]string{"kind"},
	)

	m.aliasLoadFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "alias_load_failures_total",
			Help:        "Total number of failed alias table loads by source",
			ConstLabels: labels,
		},
		[]string{"source"},
	)

	m.aliasRules = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "alias_rules",
		Help:        "Number of rules in the active alias table",
		ConstLabels: labels,
	})

	m.aliasCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "alias_cache_hits_total",
		Help:        "Total number of alias tables served from cache",
		ConstLabels: labels,
	})

	m.aliasCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "alias_cache_misses_total",
		Help:        "Total number of alias table cache misses",
		ConstLabels: labels,
	})

	// Report Metrics
	m.reportDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "report_duration_milliseconds",
			Help:        "Duration of report generation in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"report"},
	)

	m.reportsGenerated = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "reports_generated_total",
			Help:        "Total number of reports generated by report type",
			ConstLabels: labels,
		},
		[]string{"report"},
	)

	m.invariantViolations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "invariant_violations_total",
			Help:        "Total number of clamped values in computed metrics by component",
			ConstLabels: labels,
		},
		[]string{"component"},
	)

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time of the last completed report run",
		ConstLabels: labels,
	})

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component and type",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)
}

// RecordsFetched adds n records read from collection.
func (m *Manager) RecordsFetched(collection string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.recordsFetched.WithLabelValues(collection).Add(float64(n))
}

// RecordSkipped counts a record dropped during ingestion.
func (m *Manager) RecordSkipped(collection, reason string) {
	if !m.enabled {
		return
	}
	m.recordsSkipped.WithLabelValues(collection, reason).Inc()
}

// IngestionIssue counts a recoverable data problem.
func (m *Manager) IngestionIssue(kind string) {
	if !m.enabled {
		return
	}
	m.ingestionIssues.WithLabelValues(kind).Inc()
}

// FetchDuration records how long a collection read took.
func (m *Manager) FetchDuration(collection string, ms float64) {
	if !m.enabled {
		return
	}
	m.fetchDuration.WithLabelValues(collection).Observe(ms)
}

// UpdateMembers sets the member count of the last snapshot.
func (m *Manager) UpdateMembers(n int) {
	if !m.enabled {
		return
	}
	m.membersTotal.Set(float64(n))
}

// AliasMatch counts one resolution of the given kind.
func (m *Manager) AliasMatch(kind string) {
	if !m.enabled {
		return
	}
	m.aliasMatches.WithLabelValues(kind).Inc()
}

// AliasLoadFailure counts a failed alias table load.
func (m *Manager) AliasLoadFailure(source string) {
	if !m.enabled {
		return
	}
	m.aliasLoadFailures.WithLabelValues(source).Inc()
}

// UpdateAliasRules sets the size of the active alias table.
func (m *Manager) UpdateAliasRules(n int) {
	if !m.enabled {
		return
	}
	m.aliasRules.Set(float64(n))
}

// AliasCacheHit counts a cache hit.
func (m *Manager) AliasCacheHit() {
	if !m.enabled {
		return
	}
	m.aliasCacheHits.Inc()
}

// AliasCacheMiss counts a cache miss.
func (m *Manager) AliasCacheMiss() {
	if !m.enabled {
		return
	}
	m.aliasCacheMisses.Inc()
}

// ReportDuration records a report generation and its duration.
func (m *Manager) ReportDuration(report string, ms float64) {
	if !m.enabled {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(ms)
	m.reportsGenerated.WithLabelValues(report).Inc()
}

// InvariantViolations adds n clamped values found by component.
func (m *Manager) InvariantViolations(component string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.invariantViolations.WithLabelValues(component).Add(float64(n))
}

// MarkRun sets the last run timestamp.
func (m *Manager) MarkRun(unix int64) {
	if !m.enabled {
		return
	}
	m.lastRunUnix.Set(float64(unix))
}

// ErrorByComponent counts an error with component and type labels.
func (m *Manager) ErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// WriteTextfile writes the manager's registry in the text exposition
// format, for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	g, ok := m.registry.(prometheus.Gatherer)
	if !ok {
		return fmt.Errorf("%w: registry cannot be gathered", ErrExportFailed)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// Default returns the process-wide manager used when none is injected.
func Default() *Manager {
	return globalManager
}
