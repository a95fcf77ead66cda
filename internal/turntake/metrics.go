package turntake

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricStateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "turntake_state_transitions_total",
		Help: "Turn-taking state machine transitions",
	}, []string{"from", "to"})

	metricTurnsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turntake_turns_completed_total",
		Help: "Turns finalized by grace-timer expiry",
	})

	metricTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turntake_timeouts_total",
		Help: "Turns ended by the absolute silence bound",
	})

	metricGraceResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turntake_grace_resets_total",
		Help: "Grace waits cancelled by resumed speech",
	})

	metricBargeIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turntake_barge_ins_total",
		Help: "Playback interruptions triggered by user speech",
	})
)
