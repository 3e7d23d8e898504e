package suggestion

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SuggestionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_suggestion_cache_total",
			Help: "Suggestion set resolutions by result (hit, expired, miss).",
		},
		[]string{"result"},
	)

	SuggestionWriteFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_suggestion_write_failures_total",
			Help: "Swallowed persistence failures by kind (suggestion, view).",
		},
		[]string{"kind"},
	)

	RotationResetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_suggestion_rotation_resets_total",
			Help: "Times an identity exhausted every suggestion and rotation restarted.",
		},
	)
)

func init() {
	prometheus.MustRegister(SuggestionCacheTotal, SuggestionWriteFailuresTotal, RotationResetsTotal)
}
