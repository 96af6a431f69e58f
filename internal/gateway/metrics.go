package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCompletion    = "completion"
	outcomeNotConfigured = "not_configured"
	outcomeThrottled     = "throttled"
	outcomeAuth          = "auth"
	outcomeFallback      = "fallback"
)

var (
	repliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neeva",
			Subsystem: "gateway",
			Name:      "replies_total",
			Help:      "Replies returned by the gateway, by how they were produced.",
		},
		[]string{"outcome"},
	)

	attemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neeva",
			Subsystem: "gateway",
			Name:      "attempts_total",
			Help:      "Completion requests issued, including retries.",
		},
	)

	completionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "neeva",
			Subsystem: "gateway",
			Name:      "completion_duration_seconds",
			Help:      "Latency of a single completion request.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
