package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polyscan_extraction_seconds",
		Help:    "Time spent extracting facts from a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polyscan_analysis_seconds",
		Help:    "Time spent in the cross-reference analyses.",
		Buckets: prometheus.DefBuckets,
	})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polyscan_scan_seconds",
		Help:    "End-to-end duration of one scan invocation.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscan_files_scanned_total",
		Help: "Total number of files dispatched to an extractor.",
	})

	ScanErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscan_scan_errors_total",
		Help: "Total number of per-file errors captured during scans.",
	})

	IssuesFound = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "polyscan_issues",
		Help: "Number of issues found by the latest scan, by kind.",
	}, []string{"kind"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscan_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscan_rescans_total",
		Help: "Total number of rescans triggered in watch mode.",
	})
)
