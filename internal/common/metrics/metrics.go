// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobRetryDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_job_retry_decisions_total",
			Help: "Failed jobs handed back for retry or escalated as BPMN errors",
		},
		[]string{"task_type", "error_code", "decision"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Record store
var (
	StoreFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_fetch_duration_seconds",
			Help:    "Duration of record store fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset", "filter"},
	)

	StoreFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fetch_errors_total",
			Help: "Total number of failed record store fetches",
		},
		[]string{"dataset"},
	)
)

// Engine
var (
	IntentResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_resolved_total",
			Help: "Queries resolved per intent kind",
		},
		[]string{"intent"},
	)

	FallbackTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_tier_total",
			Help: "Fallback tier that produced the answer",
		},
		[]string{"tier"},
	)

	SourceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_lookups_total",
			Help: "FAQ source lookups by source and result (hit, miss, error)",
		},
		[]string{"source", "result"},
	)
)
