package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "engine_active_sessions",
		Help: "Sessions with a live runner goroutine.",
	})

	metricFragments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_fragments_total",
		Help: "Transcript fragments accepted into a session runner.",
	})

	metricFragmentsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_fragments_dropped_total",
		Help: "Fragments dropped for unknown sessions or full queues.",
	})

	metricTurnSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_turn_seconds",
		Help:    "Wall time of a full turn from listen start to act spoken.",
		Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80},
	})
)
