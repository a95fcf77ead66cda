package sttws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sttws_connects_total",
		Help: "Accepted transcript websocket streams.",
	})

	metricInvalid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sttws_invalid_messages_total",
		Help: "Messages that failed to parse as transcript fragments.",
	})
)
