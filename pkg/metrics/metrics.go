package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recruitment_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// CacheRequests counts facade reads by result (hit|miss).
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_cache_requests_total",
			Help: "Cache lookups by result",
		},
		[]string{"result"},
	)

	// CacheErrors counts backend failures the facade degraded into misses, by operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_cache_errors_total",
			Help: "Cache backend errors swallowed by the facade",
		},
		[]string{"op"},
	)

	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// TasksProcessed counts finished background tasks by name and terminal status.
	TasksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_tasks_processed_total",
			Help: "Background tasks completed by outcome",
		},
		[]string{"task", "status"},
	)

	// TaskQueueDepth tracks tasks waiting for a worker.
	TaskQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recruitment_task_queue_depth",
			Help: "Number of queued background tasks",
		},
	)

	// InquiriesCreated counts employer inquiries received, split by urgency flag.
	InquiriesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_inquiries_created_total",
			Help: "Employer inquiries received",
		},
		[]string{"urgent"},
	)
)
