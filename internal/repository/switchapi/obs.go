package switchapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "switchapi_requests_total",
		Help: "Calls to the switch backend by operation and HTTP status (\"error\" when no response).",
	}, []string{"op", "code"})
	mLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "switchapi_request_duration_seconds",
		Help:    "Latency of calls to the switch backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

func observe(op Op, status int, start time.Time) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	mRequests.WithLabelValues(string(op), code).Inc()
	mLatency.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
}
