// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_extractions_total",
			Help: "Total number of skill extractions by outcome",
		},
		[]string{"domain", "outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_extraction_duration_seconds",
			Help: "Duration of skill extraction in seconds",
		},
		[]string{"domain"},
	)

	SkillsExtracted = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_skills_extracted",
			Help:    "Number of skills returned per extraction",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
		[]string{"domain"},
	)

	ContaminationBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_contamination_blocked_total",
			Help: "Total number of skill matches blocked by contamination guards",
		},
		[]string{"domain", "guard"},
	)

	ContaminationFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_contamination_flagged_total",
			Help: "Total number of skill matches flagged but passed through",
		},
		[]string{"domain", "guard"},
	)

	GateViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_gate_violations_total",
			Help: "Total number of requirement gate violations recorded",
		},
		[]string{"gate"},
	)

	FinalScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_final_scores",
			Help:    "Distribution of blended final match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_cache_hits_total",
			Help: "Extraction cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_cache_misses_total",
			Help: "Extraction cache misses",
		},
		[]string{"backend"},
	)

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

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
