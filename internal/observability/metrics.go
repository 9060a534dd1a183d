// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Import metrics
	FillsInserted    *prometheus.CounterVec
	FillsSkipped     *prometheus.CounterVec
	ImportRowErrors  prometheus.Counter
	ImportsProcessed *prometheus.CounterVec

	// Sync metrics
	SyncRuns       *prometheus.CounterVec
	SyncDuration   prometheus.Histogram
	LastSyncedUnix prometheus.Gauge

	// Analytics metrics
	TradesDerived     prometheus.Counter
	AnalyticsRequests *prometheus.CounterVec
	ReportsGenerated  prometheus.Counter

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trading_journal"
	}

	return &Metrics{
		FillsInserted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "fills_inserted_total",
			Help:      "Total number of fills inserted by source",
		}, []string{"source"}),
		FillsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "fills_skipped_total",
			Help:      "Total number of fills skipped as duplicates by source",
		}, []string{"source"}),
		ImportRowErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "row_errors_total",
			Help:      "Total number of rejected CSV rows",
		}),
		ImportsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "batches_total",
			Help:      "Total number of import batches by source and status",
		}, []string{"source", "status"}),

		SyncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Total number of account sync runs by status",
		}, []string{"status"}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Account sync duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		LastSyncedUnix: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp",
			Help:      "Unix timestamp of the last successful sync",
		}),

		TradesDerived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "trades_derived_total",
			Help:      "Total number of round trips derived from fills",
		}),
		AnalyticsRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "requests_total",
			Help:      "Total number of analytics computations by section",
		}, []string{"section"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordImport records the outcome of one fill batch.
func RecordImport(source string, inserted, skipped int) {
	DefaultMetrics.FillsInserted.WithLabelValues(source).Add(float64(inserted))
	DefaultMetrics.FillsSkipped.WithLabelValues(source).Add(float64(skipped))
}

// RecordImportBatch records an import batch completing with a status.
func RecordImportBatch(source, status string) {
	DefaultMetrics.ImportsProcessed.WithLabelValues(source, status).Inc()
}

// RecordRowErrors adds rejected CSV rows.
func RecordRowErrors(n int) {
	DefaultMetrics.ImportRowErrors.Add(float64(n))
}

// RecordSyncRun records one account sync attempt. A successful run
// also stamps the last-synced gauge.
func RecordSyncRun(status string, seconds float64) {
	DefaultMetrics.SyncRuns.WithLabelValues(status).Inc()
	DefaultMetrics.SyncDuration.Observe(seconds)
	if status == "ok" {
		DefaultMetrics.LastSyncedUnix.SetToCurrentTime()
	}
}

// RecordTradesDerived adds derived round trips.
func RecordTradesDerived(n int) {
	DefaultMetrics.TradesDerived.Add(float64(n))
}

// RecordAnalytics increments the per-section analytics counter.
func RecordAnalytics(section string) {
	DefaultMetrics.AnalyticsRequests.WithLabelValues(section).Inc()
}

// RecordReportGenerated counts one completed report computation.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
