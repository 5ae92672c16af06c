package providers

import (
	"steamdash/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveUpstream(source, outcome string, duration time.Duration)
	IncRefresh(outcome string)
	SetAuthFailures(count int)
	AddEnrichedGames(count int)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	upstreamTotal       *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	refreshTotal        *prometheus.CounterVec
	authFailures        prometheus.Gauge
	enrichedGames       prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveUpstream(source, outcome string, duration time.Duration) {
	m.upstreamTotal.WithLabelValues(source, outcome).Inc()
	m.upstreamDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRefresh(outcome string) {
	m.refreshTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) SetAuthFailures(count int) {
	m.authFailures.Set(float64(count))
}

func (m *MetricsProvider) AddEnrichedGames(count int) {
	m.enrichedGames.Add(float64(count))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamdash_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steamdash_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steamdash_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steamdash_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		upstreamTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamdash_upstream_requests_total",
			Help: "Outbound Steam requests by source and outcome",
		}, []string{"source", "outcome"}),

		upstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steamdash_upstream_duration_seconds",
			Help:    "Outbound Steam request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}, []string{"source"}),

		refreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamdash_refresh_total",
			Help: "Fetch cycles by outcome",
		}, []string{"outcome"}),

		authFailures: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "steamdash_consecutive_auth_failures",
			Help: "Consecutive failures of the authenticated source",
		}),

		enrichedGames: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steamdash_enriched_games_total",
			Help: "Games processed by achievement enrichment",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "steamdash_persistence_duration_seconds",
			Help:    "Duration of settings persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveUpstream(_, _ string, _ time.Duration)     {}
func (n *noopMetrics) IncRefresh(_ string)                              {}
func (n *noopMetrics) SetAuthFailures(_ int)                            {}
func (n *noopMetrics) AddEnrichedGames(_ int)                           {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
