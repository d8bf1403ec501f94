// Package metrics holds the Prometheus collectors for the importer and the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ash_covid19"

// Metrics holds the Prometheus counters, histograms, and gauges.
type Metrics struct {
	// Import job metrics.
	ImportRuns       *prometheus.CounterVec   // labels: job, outcome={success,failure}
	ImportDuration   *prometheus.HistogramVec // labels: job
	LastSuccess      *prometheus.GaugeVec     // labels: job
	RowsExtracted    *prometheus.CounterVec   // labels: job, status={ok,skipped,invalid}
	RecordsRejected  *prometheus.CounterVec   // labels: job
	RecordsPersisted *prometheus.CounterVec   // labels: job
	ReconcileChanges *prometheus.CounterVec   // labels: job, change={added,deleted}

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={resolved,pending,error}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	// API metrics.
	HTTPRequests *prometheus.CounterVec // labels: method, route, status
}

func newMetrics() *Metrics {
	return &Metrics{
		ImportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Import job runs by job and outcome.",
		}, []string{"job", "outcome"}),
		ImportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duration of one import job run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"job"}),
		LastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "import_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run of each job.",
		}, []string{"job"}),
		RowsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_extracted_total",
			Help:      "Source rows seen by extractors, by outcome.",
		}, []string{"job", "status"}),
		RecordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Extracted rows that failed record validation.",
		}, []string{"job"}),
		RecordsPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_persisted_total",
			Help:      "Records written by upsert or reconcile.",
		}, []string{"job"}),
		ReconcileChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_changes_total",
			Help:      "Natural keys added or deleted by snapshot reconciles.",
		}, []string{"job", "change"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Local search requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	return m, reg
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ImportRuns,
		m.ImportDuration,
		m.LastSuccess,
		m.RowsExtracted,
		m.RecordsRejected,
		m.RecordsPersisted,
		m.ReconcileChanges,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.HTTPRequests,
	}
}
