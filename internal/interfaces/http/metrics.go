package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_model/go"
)

// MetricsRegistry holds the Prometheus metrics for the PropLab API. Metrics
// live in a private registry so independent server instances never fight over
// registration.
type MetricsRegistry struct {
	registry *prometheus.Registry

	// Request metrics
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	RateLimited     prometheus.Counter

	// Simulation metrics
	BacktestDuration prometheus.Histogram
	BacktestBets     prometheus.Histogram

	// Result cache metrics
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	CacheHitRatio prometheus.Gauge
}

// NewMetricsRegistry creates and registers all PropLab metrics.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proplab_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"path", "status"},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proplab_requests_total",
				Help: "Total number of HTTP requests by path and status",
			},
			[]string{"path", "status"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proplab_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		BacktestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "proplab_backtest_duration_seconds",
				Help:    "Duration of backtest simulations in seconds",
				Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1.0, 5.0, 15.0},
			},
		),

		BacktestBets: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "proplab_backtest_settled_bets",
				Help:    "Settled bets per backtest run",
				Buckets: []float64{0, 10, 30, 100, 500, 1000, 5000},
			},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proplab_result_cache_hits_total",
				Help: "Total number of backtest result cache hits",
			},
		),

		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proplab_result_cache_misses_total",
				Help: "Total number of backtest result cache misses",
			},
		),

		CacheHitRatio: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "proplab_result_cache_hit_ratio",
				Help: "Current result cache hit ratio (0.0 to 1.0)",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestDuration,
		m.RequestsTotal,
		m.RateLimited,
		m.BacktestDuration,
		m.BacktestBets,
		m.CacheHits,
		m.CacheMisses,
		m.CacheHitRatio,
	)

	return m
}

// RecordRequest records one served request.
func (m *MetricsRegistry) RecordRequest(path, status string, seconds float64) {
	m.RequestDuration.WithLabelValues(path, status).Observe(seconds)
	m.RequestsTotal.WithLabelValues(path, status).Inc()
}

// RecordBacktest records the duration and size of one simulation.
func (m *MetricsRegistry) RecordBacktest(seconds float64, settledBets int) {
	m.BacktestDuration.Observe(seconds)
	m.BacktestBets.Observe(float64(settledBets))
}

// RecordCacheHit records a result cache hit.
func (m *MetricsRegistry) RecordCacheHit() {
	m.CacheHits.Inc()
	m.updateCacheHitRatio()
}

// RecordCacheMiss records a result cache miss.
func (m *MetricsRegistry) RecordCacheMiss() {
	m.CacheMisses.Inc()
	m.updateCacheHitRatio()
}

// RecordRateLimited counts a request rejected with 429.
func (m *MetricsRegistry) RecordRateLimited() {
	m.RateLimited.Inc()
}

// updateCacheHitRatio recomputes the ratio gauge from the hit and miss
// counters.
func (m *MetricsRegistry) updateCacheHitRatio() {
	var hits, misses io_prometheus_client.Metric
	if err := m.CacheHits.Write(&hits); err != nil {
		return
	}
	if err := m.CacheMisses.Write(&misses); err != nil {
		return
	}

	total := hits.GetCounter().GetValue() + misses.GetCounter().GetValue()
	if total > 0 {
		m.CacheHitRatio.Set(hits.GetCounter().GetValue() / total)
	}
}

// Handler exposes the metrics endpoint for this registry only.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
