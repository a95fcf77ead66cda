package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequestSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_request_seconds",
		Help:    "Latency of successful chat completion requests.",
		Buckets: prometheus.DefBuckets,
	})

	metricRequestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_request_errors_total",
		Help: "Failed or malformed chat completion requests.",
	})
)
