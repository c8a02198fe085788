package metrics

import "github.com/prometheus/client_golang/prometheus"

// RoutingMetrics exposes counters/histograms for routing model calls.
type RoutingMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	tokensTotal   *prometheus.CounterVec
}

func NewRoutingMetrics(reg prometheus.Registerer) *RoutingMetrics {
	m := &RoutingMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ais",
			Subsystem: "routing",
			Name:      "requests_total",
			Help:      "Total routing model calls by outcome",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ais",
			Subsystem: "routing",
			Name:      "latency_seconds",
			Help:      "Latency of routing model calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		tokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ais",
			Subsystem: "routing",
			Name:      "tokens_total",
			Help:      "Token usage reported by the routing model",
		}, []string{"direction"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.latency, m.tokensTotal)
	return m
}

// ObserveRequest records one routing call with its outcome and latency.
func (m *RoutingMetrics) ObserveRequest(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.latency.WithLabelValues(outcome).Observe(seconds)
}

// ObserveTokens records token usage for one routing call.
func (m *RoutingMetrics) ObserveTokens(input, output int32) {
	if m == nil {
		return
	}
	if input > 0 {
		m.tokensTotal.WithLabelValues("input").Add(float64(input))
	}
	if output > 0 {
		m.tokensTotal.WithLabelValues("output").Add(float64(output))
	}
}
