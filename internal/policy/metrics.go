package policy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricActs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_acts_total",
		Help: "Dialogue acts emitted, by act.",
	}, []string{"act"})

	metricRepairCases = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_repair_cases_total",
		Help: "Repair cases observed at decision time, by case.",
	}, []string{"case"})

	metricNudgeExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "policy_nudge_exhausted_total",
		Help: "Times the nudge repertoire had no available topic left.",
	})
)
