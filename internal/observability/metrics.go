// Package observability provides Prometheus metrics and logger setup.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the collectors.
type Metrics struct {
	// Scan metrics
	SymbolsScanned    prometheus.Counter
	SymbolsFailed     prometheus.Counter
	WhaleTradesFound  prometheus.Counter
	SweepsDetected    prometheus.Counter
	ScanRunsTotal     *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	FetchLatency      *prometheus.HistogramVec
	FetchRetries      prometheus.Counter

	// Stream metrics
	StreamTradesReceived prometheus.Counter
	StreamQuotesReceived prometheus.Counter
	StreamReconnects     prometheus.Counter
	ArchiveBatchesFlush  *prometheus.CounterVec
	ArchiveFlushErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulScan  prometheus.Gauge
	LastArchivedTradeMs prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "deanfi_collectors"
	}

	return &Metrics{
		SymbolsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "symbols_scanned_total",
			Help:      "Total number of symbols scanned",
		}),
		SymbolsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "symbols_failed_total",
			Help:      "Total number of symbols that failed to scan",
		}),
		WhaleTradesFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "whale_trades_found_total",
			Help:      "Total number of whale trades retained",
		}),
		SweepsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "sweeps_detected_total",
			Help:      "Total number of sweep groups detected",
		}),
		ScanRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of scan runs by status",
		}, []string{"status"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Scan run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "fetch_latency_seconds",
			Help:      "Market data fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		FetchRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "fetch_retries_total",
			Help:      "Total number of fetch retries after transient errors",
		}),

		StreamTradesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "trades_received_total",
			Help:      "Total number of trade events received from the stream",
		}),
		StreamQuotesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "quotes_received_total",
			Help:      "Total number of quote events received from the stream",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of stream reconnects",
		}),
		ArchiveBatchesFlush: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "batches_flushed_total",
			Help:      "Total number of archive batches flushed by kind",
		}, []string{"kind"}),
		ArchiveFlushErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "flush_errors_total",
			Help:      "Total number of archive flush errors by kind",
		}, []string{"kind"}),

		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of the last successful scan run",
		}),
		LastArchivedTradeMs: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_archived_trade_timestamp_ms",
			Help:      "Timestamp of the most recent archived print, Unix milliseconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSymbolScanned increments the scanned symbols counter.
func RecordSymbolScanned() {
	DefaultMetrics.SymbolsScanned.Inc()
}

// RecordSymbolFailed increments the failed symbols counter.
func RecordSymbolFailed() {
	DefaultMetrics.SymbolsFailed.Inc()
}

// RecordWhaleTrades adds to the retained whale trade counter.
func RecordWhaleTrades(n int) {
	DefaultMetrics.WhaleTradesFound.Add(float64(n))
}

// RecordSweeps adds to the sweep counter.
func RecordSweeps(n int) {
	DefaultMetrics.SweepsDetected.Add(float64(n))
}

// RecordScanRun records a scan run outcome.
func RecordScanRun(status string, durationSeconds float64) {
	DefaultMetrics.ScanRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ScanDuration.Observe(durationSeconds)
}

// RecordStreamTrade increments the stream trade counter.
func RecordStreamTrade() {
	DefaultMetrics.StreamTradesReceived.Inc()
}

// RecordStreamQuote increments the stream quote counter.
func RecordStreamQuote() {
	DefaultMetrics.StreamQuotesReceived.Inc()
}

// RecordArchiveFlush records one archive batch flush.
func RecordArchiveFlush(kind string, err error) {
	DefaultMetrics.ArchiveBatchesFlush.WithLabelValues(kind).Inc()
	if err != nil {
		DefaultMetrics.ArchiveFlushErrors.WithLabelValues(kind).Inc()
	}
}
