package synchronizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK       = "ok"
	resultError    = "error"
	resultRejected = "rejected"
)

var writesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "neeva",
		Subsystem: "synchronizer",
		Name:      "writes_total",
		Help:      "Background writes by collection and result.",
	},
	[]string{"collection", "result"},
)
