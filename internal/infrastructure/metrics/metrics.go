package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/storeledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Statement metrics
	StatementsBuilt   *prometheus.CounterVec
	StatementDuration *prometheus.HistogramVec
	StatementLines    prometheus.Histogram
	StatementCache    *prometheus.CounterVec

	// Report metrics
	ReportsBuilt   *prometheus.CounterVec
	ReportDuration *prometheus.HistogramVec

	// Record metrics
	RecordsPosted   *prometheus.CounterVec
	MalformedFields *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers all Prometheus metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Statement metrics
		StatementsBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeledger_statements_built_total",
				Help: "Total number of account statements computed",
			},
			[]string{"kind"},
		),
		StatementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storeledger_statement_duration_seconds",
				Help:    "Duration of statement computation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		StatementLines: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storeledger_statement_lines",
			Help:    "Number of lines per computed statement",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
		}),
		StatementCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeledger_statement_cache_total",
				Help: "Statement cache lookups by result",
			},
			[]string{"result"},
		),

		// Report metrics
		ReportsBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeledger_reports_built_total",
				Help: "Total number of financial reports computed",
			},
			[]string{"report"},
		),
		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storeledger_report_duration_seconds",
				Help:    "Duration of financial report computation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),

		// Record metrics
		RecordsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeledger_records_posted_total",
				Help: "Total records posted by source type",
			},
			[]string{"source_type"},
		),
		MalformedFields: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeledger_malformed_records_total",
				Help: "Records whose fields were absorbed as zero or excluded while computing",
			},
			[]string{"source_type", "field"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storeledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "storeledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

// StatementBuilt implements usecase.MetricsRecorder.
func (m *Metrics) StatementBuilt(kind domain.EntityKind, lines int, duration time.Duration) {
	label := string(kind)
	if label == "" {
		label = "unknown"
	}
	m.StatementsBuilt.WithLabelValues(label).Inc()
	m.StatementDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.StatementLines.Observe(float64(lines))
}

// ReportBuilt implements usecase.MetricsRecorder.
func (m *Metrics) ReportBuilt(report string, duration time.Duration) {
	m.ReportsBuilt.WithLabelValues(report).Inc()
	m.ReportDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// RecordPosted implements usecase.MetricsRecorder.
func (m *Metrics) RecordPosted(st domain.SourceType) {
	m.RecordsPosted.WithLabelValues(string(st)).Inc()
}

// MalformedRecords implements usecase.MetricsRecorder.
func (m *Metrics) MalformedRecords(diags []domain.Diagnostic) {
	for _, d := range diags {
		m.MalformedFields.WithLabelValues(string(d.SourceType), d.Field).Inc()
	}
}

// StatementCacheHit implements usecase.MetricsRecorder.
func (m *Metrics) StatementCacheHit(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StatementCache.WithLabelValues(result).Inc()
}
