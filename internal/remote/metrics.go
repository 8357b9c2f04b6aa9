package remote

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_requests_total",
			Help: "Total number of requests sent to the remote users collection",
		},
		[]string{"op", "outcome"},
	)
	remoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_request_duration_seconds",
			Help:    "Duration of requests sent to the remote users collection",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	remoteRequestTotal.WithLabelValues(op, outcome).Inc()
	remoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
