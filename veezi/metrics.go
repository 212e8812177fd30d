package veezi

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "veezi_client"

// metrics holds the optional prometheus collectors of a client. A nil
// *metrics is valid and records nothing.
type metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "requests_total",
		Help:      "Outbound Veezi API requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "request_duration_seconds",
		Help:      "Latency of outbound Veezi API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "cache_hits_total",
		Help:      "Response cache hits by route.",
	}, []string{"route"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "cache_misses_total",
		Help:      "Response cache misses by route.",
	}, []string{"route"})

	m := &metrics{}
	var err error
	if m.requests, err = registerCounterVec(reg, requests); err != nil {
		return nil, err
	}
	if m.duration, err = registerHistogramVec(reg, duration); err != nil {
		return nil, err
	}
	if m.cacheHits, err = registerCounterVec(reg, hits); err != nil {
		return nil, err
	}
	if m.cacheMisses, err = registerCounterVec(reg, misses); err != nil {
		return nil, err
	}
	return m, nil
}

// registerCounterVec registers cv, reusing an identical collector when several
// clients share one registry.
func registerCounterVec(reg prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return cv, nil
}

func registerHistogramVec(reg prometheus.Registerer, hv *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(hv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return hv, nil
}

func (m *metrics) observeRequest(route Route, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(route.String(), code).Inc()
	m.duration.WithLabelValues(route.String()).Observe(elapsed.Seconds())
}

func (m *metrics) cacheHit(route Route) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(route.String()).Inc()
}

func (m *metrics) cacheMiss(route Route) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(route.String()).Inc()
}
