package voice

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	VoiceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_voice_requests_total",
			Help: "Voice generation requests by result (cache_hit, synthesized, error).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(VoiceRequestsTotal)
}
