// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InterviewsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interviews_started_total",
			Help: "Interviews started, by question source",
		},
		[]string{"question_source"}, // "generated" or "fallback"
	)

	InterviewsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interviews_completed_total",
			Help: "Interviews that reached the Completed state",
		},
	)

	ResponsesEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "responses_evaluated_total",
			Help: "Evaluated answers, by modality and outcome",
		},
		[]string{"modality", "outcome"}, // outcome: "ok" or "degraded"
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_duration_seconds",
			Help:    "Wall time of a full answer evaluation including media processing",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"modality"},
	)

	MediaRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_rejected_total",
			Help: "Uploads rejected by validation, by reason",
		},
		[]string{"reason"}, // "format" or "size"
	)
)
