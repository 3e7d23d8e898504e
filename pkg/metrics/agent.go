package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the suggestions HTTP handler
	SuggestionsLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "agent_suggestions_latency_seconds",
		Help:    "Latency of the suggestions handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of suggestion loads served
	SuggestionsRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_suggestions_requests_total",
		Help: "Total number of suggestion requests",
	})

	DisplayChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_display_checks_total",
		Help: "Display decisions served, by page type and outcome",
	}, []string{"page_type", "display"})
)

func Init() {
	prometheus.MustRegister(
		SuggestionsLatency,
		SuggestionsRequests,
		DisplayChecks,
	)
}
