// Package metrics provides Prometheus collectors for the HTTP API and the
// simulation engine. All collectors register with the default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	SimulationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "simulation_runs_total",
			Help: "Completed Monte Carlo simulation runs",
		},
	)

	SimulationPeriodsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "simulation_periods_total",
			Help: "Total periods produced across all simulation runs",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(SimulationsTotal)
	prometheus.MustRegister(SimulationPeriodsTotal)
}
