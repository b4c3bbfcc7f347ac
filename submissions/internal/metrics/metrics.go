package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingest endpoint outcomes: status is "ok", "rejected", "rate_limited", "unconfigured" or "error".
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_submissions_total",
			Help: "Total number of submission attempts by outcome",
		},
		[]string{"status"},
	)

	SubmissionBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_submission_bytes_total",
			Help: "Total bytes of submission payloads received",
		},
	)

	// Query endpoint outcomes.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_queries_total",
			Help: "Total number of submission list requests by outcome",
		},
		[]string{"status"},
	)

	// Store operation latency by backend and operation (append, list).
	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "survey_store_duration_seconds",
			Help:    "Duration of record store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_store_errors_total",
			Help: "Total number of record store failures",
		},
		[]string{"backend", "operation"},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_rate_limit_hits_total",
			Help: "Total number of submissions rejected by the rate limiter",
		},
	)

	PublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_publish_errors_total",
			Help: "Total number of failed submission announcements",
		},
	)
)
