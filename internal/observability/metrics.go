package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the weather proxy.
type Metrics struct {
	// Upstream provider metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,not_found,rejected_credential,status_error,transport_error,decode_error,breaker_open}
	UpstreamDuration prometheus.Histogram
	BreakerOpen      prometheus.Gauge

	// Proxy surface metrics.
	ProxyResponses *prometheus.CounterVec // labels: route, code
	CacheLookups   *prometheus.CounterVec // labels: result={hit,miss}

	// Reading event metrics.
	ReadingsPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all proxy metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.BreakerOpen,
		m.ProxyResponses,
		m.CacheLookups,
		m.ReadingsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "upstream_requests_total",
			Help:      "OpenWeatherMap requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_proxy",
			Name:      "upstream_duration_seconds",
			Help:      "OpenWeatherMap request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		BreakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_proxy",
			Name:      "upstream_breaker_open",
			Help:      "1 when the upstream circuit breaker is open, 0 otherwise.",
		}),
		ProxyResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "responses_total",
			Help:      "Proxy responses by route and status code.",
		}, []string{"route", "code"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "cache_lookups_total",
			Help:      "Upstream revalidation cache lookups by result.",
		}, []string{"result"}),
		ReadingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "readings_published_total",
			Help:      "Readings handed to the event publisher.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_proxy",
			Name:      "publish_errors_total",
			Help:      "Reading events the publisher failed to deliver.",
		}),
	}
}
