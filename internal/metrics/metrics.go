package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ScannerMetrics instruments the bytecode cache and the analysis
// pipeline. All methods are nil-safe so components can run without
// metrics in tests.
type ScannerMetrics struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CodeFetches      prometheus.Counter
	FetchFaults      *prometheus.CounterVec
	PatternsDetected *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	AnalysisFailures prometheus.Counter
}

func NewScannerMetrics() *ScannerMetrics {
	return &ScannerMetrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scamscan_bytecode_cache_hits_total",
			Help: "Total number of bytecode cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scamscan_bytecode_cache_misses_total",
			Help: "Total number of bytecode cache misses",
		}),
		CodeFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scamscan_code_fetches_total",
			Help: "Total number of eth_getCode calls issued",
		}),
		FetchFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scamscan_fetch_faults_total",
			Help: "Chain reader faults by classified kind",
		}, []string{"fault"}),
		PatternsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scamscan_patterns_detected_total",
			Help: "Detected scam patterns by category",
		}, []string{"category"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scamscan_analysis_duration_seconds",
			Help:    "Duration of a full per-contract analysis",
			Buckets: prometheus.DefBuckets,
		}),
		AnalysisFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scamscan_analysis_failures_total",
			Help: "Per-contract analyses that ended in failed status",
		}),
	}
}

func (m *ScannerMetrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.CodeFetches,
		m.FetchFaults,
		m.PatternsDetected,
		m.AnalysisDuration,
		m.AnalysisFailures,
	)
}

func (m *ScannerMetrics) CacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *ScannerMetrics) CacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *ScannerMetrics) CodeFetch() {
	if m != nil {
		m.CodeFetches.Inc()
	}
}

func (m *ScannerMetrics) FetchFault(fault string) {
	if m != nil {
		m.FetchFaults.WithLabelValues(fault).Inc()
	}
}

func (m *ScannerMetrics) PatternDetected(category string) {
	if m != nil {
		m.PatternsDetected.WithLabelValues(category).Inc()
	}
}

func (m *ScannerMetrics) ObserveAnalysis(seconds float64) {
	if m != nil {
		m.AnalysisDuration.Observe(seconds)
	}
}

func (m *ScannerMetrics) AnalysisFailed() {
	if m != nil {
		m.AnalysisFailures.Inc()
	}
}
