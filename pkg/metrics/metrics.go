package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application-level counters, as opposed to the
// per-request HTTP vectors owned by the router.
type Metrics struct {
	// LLM pipeline metrics
	LLMRequests    *prometheus.CounterVec
	LLMLatency     *prometheus.HistogramVec
	FallbackServed *prometheus.CounterVec

	// Voice reminder metrics
	CallsPlaced    prometheus.Counter
	CallsFailed    prometheus.Counter
	CallsResponded *prometheus.CounterVec
}

// New creates the application metrics and registers them on the given
// registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Upstream model calls by pipeline and outcome",
		}, []string{"pipeline", "outcome"}),
		LLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Upstream model call duration",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
		}, []string{"pipeline"}),
		FallbackServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_results_total",
			Help:      "Deterministic fallback results served by pipeline",
		}, []string{"pipeline"}),
		CallsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_calls_placed_total",
			Help:      "Reminder calls accepted by the telephony provider",
		}),
		CallsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_calls_failed_total",
			Help:      "Reminder call placements that errored",
		}),
		CallsResponded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_call_responses_total",
			Help:      "Gathered caller responses by outcome",
		}, []string{"response"}),
	}

	reg.MustRegister(
		m.LLMRequests,
		m.LLMLatency,
		m.FallbackServed,
		m.CallsPlaced,
		m.CallsFailed,
		m.CallsResponded,
	)
	return m
}

// NewNop returns metrics bound to a throwaway registry, for tests.
func NewNop() *Metrics {
	return New("test", prometheus.NewRegistry())
}
