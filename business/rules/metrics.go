package rules

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RuleCheckVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_rule_check_verdicts_total",
			Help: "Count of rule check verdicts by check and verdict.",
		},
		[]string{"check", "verdict"},
	)

	RuleEngineFailOpenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_rule_engine_fail_open_total",
			Help: "Evaluations that displayed the assistant because the engine itself failed.",
		},
	)
)

func init() {
	prometheus.MustRegister(RuleCheckVerdictsTotal, RuleEngineFailOpenTotal)
}
