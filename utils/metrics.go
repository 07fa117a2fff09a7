package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesProcessed counts source files by outcome (ok, failed).
	FilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_files_processed_total",
		Help: "Roster source files processed, by result.",
	}, []string{"result"})

	// EntriesWritten counts schedule entries upserted.
	EntriesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roster_entries_written_total",
		Help: "Schedule entries written by imports.",
	})

	// EntriesSkipped counts dropped units by reason.
	EntriesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_entries_skipped_total",
		Help: "Roster units skipped during import, by reason.",
	}, []string{"reason"})

	// ImportDuration observes whole-import latency.
	ImportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roster_import_duration_seconds",
		Help:    "Duration of roster imports.",
		Buckets: prometheus.DefBuckets,
	})

	// CacheLookups counts month cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_cache_lookups_total",
		Help: "Month query cache lookups, by result.",
	}, []string{"result"})
)
