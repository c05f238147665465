package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.ForecastsComputed == nil || m.StoreOperations == nil || m.AuthFailures == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.ObserveForecast("dashboard", 5*time.Millisecond)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestObservers(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveForecast("projection", time.Millisecond)
	m.ObserveForecast("projection", time.Millisecond)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)
	m.ObserveStore("sheets", "list", time.Now(), nil)
	m.ObserveStore("sheets", "list", time.Now(), errors.New("quota"))
	m.ObserveAuthFailure("forbidden")
	m.ObserveRateLimited()

	if got := testutil.ToFloat64(m.ForecastsComputed.WithLabelValues("projection")); got != 2 {
		t.Fatalf("expected 2 projections, got %v", got)
	}
	if got := testutil.ToFloat64(m.ForecastCache.WithLabelValues("miss")); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
	if got := testutil.ToFloat64(m.ForecastCache.WithLabelValues("hit")); got != 1 {
		t.Fatalf("expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.StoreOperations.WithLabelValues("sheets", "list")); got != 2 {
		t.Fatalf("expected 2 store operations, got %v", got)
	}
	if got := testutil.ToFloat64(m.StoreErrors.WithLabelValues("sheets", "list")); got != 1 {
		t.Fatalf("expected 1 store error, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuthFailures.WithLabelValues("forbidden")); got != 1 {
		t.Fatalf("expected 1 auth failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.RateLimitHits); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %v", got)
	}
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration to panic")
		}
	}()
	New(registry)
}
