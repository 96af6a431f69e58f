package writequeue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// queueDepth is only written from the owning worker goroutine.
var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neeva",
			Subsystem: "writequeue",
			Name:      "submissions_total",
			Help:      "Write jobs accepted for execution.",
		},
		[]string{"shard"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neeva",
			Subsystem: "writequeue",
			Name:      "queue_full_total",
			Help:      "Enqueue attempts rejected because the shard stayed full.",
		},
		[]string{"shard"},
	)

	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neeva",
			Subsystem: "writequeue",
			Name:      "failures_total",
			Help:      "Write jobs that finished with an error.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neeva",
			Subsystem: "writequeue",
			Name:      "run_duration_seconds",
			Help:      "Write job latency including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "neeva",
			Subsystem: "writequeue",
			Name:      "queue_depth",
			Help:      "Current depth of each shard queue.",
		},
		[]string{"shard"},
	)
)

func labelFor(i int) string { return strconv.Itoa(i) }
