package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestLatency tracks handler latency per route.
	RequestLatency = Histogram(
		"fitness_api_request_latency_seconds",
		"Latency of API requests in seconds",
		prometheus.DefBuckets,
		"route", "method",
	)

	// RequestTotal counts API requests by route and response status.
	RequestTotal = Counter(
		"fitness_api_requests_total",
		"Total number of API requests",
		"route", "method", "status",
	)

	// GatewayCalls counts upstream structured completions by tool and outcome.
	GatewayCalls = Counter(
		"fitness_gateway_calls_total",
		"Total number of AI gateway calls",
		"tool", "outcome",
	)

	// GatewayLatency tracks upstream round trip time per tool.
	GatewayLatency = Histogram(
		"fitness_gateway_latency_seconds",
		"Latency of AI gateway calls in seconds",
		[]float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		"tool",
	)
)

func Counter(name, help string, labelKeys ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labelKeys,
	)
}

func Histogram(name, help string, buckets []float64, labelKeys ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labelKeys,
	)
}

func Inc(c *prometheus.CounterVec, labels prometheus.Labels) {
	c.With(labels).Inc()
}

func Observe(h *prometheus.HistogramVec, labels prometheus.Labels, v float64) {
	h.With(labels).Observe(v)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
