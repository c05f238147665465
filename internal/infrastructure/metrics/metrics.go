package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Forecast metrics
	ForecastsComputed *prometheus.CounterVec
	ForecastDuration  *prometheus.HistogramVec
	ForecastCache     *prometheus.CounterVec

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ForecastsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_forecasts_computed_total",
				Help: "Total forecast computations by kind",
			},
			[]string{"kind"},
		),
		ForecastDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runway_forecast_duration_seconds",
				Help:    "Duration of forecast computations",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"kind"},
		),
		ForecastCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_forecast_cache_total",
				Help: "Dashboard cache lookups by result",
			},
			[]string{"result"},
		),

		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_store_operations_total",
				Help: "Total storage backend operations",
			},
			[]string{"backend", "operation"},
		),
		StoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runway_store_duration_seconds",
				Help:    "Storage backend operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_store_errors_total",
				Help: "Total storage backend errors",
			},
			[]string{"backend", "operation"},
		),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runway_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "runway_rate_limit_hits_total",
			Help: "Total rate limited requests",
		}),
	}
}

// ObserveForecast implements usecase.ForecastObserver.
func (m *Metrics) ObserveForecast(kind string, duration time.Duration) {
	m.ForecastsComputed.WithLabelValues(kind).Inc()
	m.ForecastDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveCache implements usecase.ForecastObserver.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ForecastCache.WithLabelValues(result).Inc()
}

// ObserveStore records one storage backend call.
func (m *Metrics) ObserveStore(backend, operation string, started time.Time, err error) {
	m.StoreOperations.WithLabelValues(backend, operation).Inc()
	m.StoreDuration.WithLabelValues(backend, operation).Observe(time.Since(started).Seconds())
	if err != nil {
		m.StoreErrors.WithLabelValues(backend, operation).Inc()
	}
}

// ObserveAuthFailure implements the auth middleware's failure hook.
func (m *Metrics) ObserveAuthFailure(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// ObserveRateLimited implements the rate limit middleware's hook.
func (m *Metrics) ObserveRateLimited() {
	m.RateLimitHits.Inc()
}
