// Package observability holds the Prometheus instrumentation for the route
// weather engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "routecast"

// Metrics holds the Prometheus counters and histograms for the engine.
type Metrics struct {
	RouteRequests *prometheus.CounterVec // labels: outcome={success,error}

	// Per-waypoint weather lookup metrics.
	WeatherLookups       *prometheus.CounterVec // labels: outcome={success,error,timeout}
	WeatherLookupSeconds prometheus.Histogram

	// Collaborator caching.
	CacheLookups *prometheus.CounterVec // labels: kind={weather,geocode,route}, result={hit,miss}

	SevereRoutes prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RouteRequests,
		m.WeatherLookups,
		m.WeatherLookupSeconds,
		m.CacheLookups,
		m.SevereRoutes,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RouteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_requests_total",
			Help:      "Route weather requests by outcome.",
		}, []string{"outcome"}),
		WeatherLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_lookups_total",
			Help:      "Per-waypoint weather lookups by outcome.",
		}, []string{"outcome"}),
		WeatherLookupSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_lookup_duration_seconds",
			Help:      "Duration of a single waypoint weather lookup.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 8, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Collaborator cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		SevereRoutes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "severe_routes_total",
			Help:      "Computed routes containing severe weather.",
		}),
	}
}
