package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phanalist_parsing_seconds",
		Help:    "Time spent parsing a PHP file.",
		Buckets: prometheus.DefBuckets,
	})

	ParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phanalist_parse_failures_total",
		Help: "Total number of files that failed to parse and were analysed as empty.",
	})

	FilesAnalysedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phanalist_files_analysed_total",
		Help: "Total number of files analysed.",
	})

	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phanalist_violations_total",
		Help: "Total number of violations reported, by rule code.",
	}, []string{"rule"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phanalist_scan_seconds",
		Help:    "Time spent on a full scan.",
		Buckets: prometheus.DefBuckets,
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "phanalist_queue_depth",
		Help: "Current number of discovered files waiting to be analysed.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phanalist_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
