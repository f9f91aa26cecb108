// Package metrics holds the prometheus collectors for token lifecycle and
// HTTP traffic. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "tokenauth"

	labelLabel   = "label"
	labelOutcome = "outcome"
	labelMethod  = "method"
	labelRoute   = "route"
	labelCode    = "code"
)

// Validation outcomes. Rejection kinds are only visible here and in logs.
const (
	OutcomeValid     = "valid"
	OutcomeMissing   = "missing"
	OutcomeInvalid   = "invalid"
	OutcomeExpired   = "expired"
	OutcomeOrphaned  = "orphaned"
	OutcomeError     = "error"
	OutcomeMalformed = "malformed"
)

type Metrics struct {
	registry *prometheus.Registry

	tokensIssued     *prometheus.CounterVec
	tokensPruned     prometheus.Counter
	tokensRevoked    prometheus.Counter
	validations      *prometheus.CounterVec
	rateLimited      *prometheus.CounterVec
	requestDurations *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "issued_total",
			Help:      "Number of API tokens issued, by label.",
		}, []string{labelLabel}),
		tokensPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "pruned_total",
			Help:      "Number of expired API tokens removed while issuing.",
		}),
		tokensRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "revoked_total",
			Help:      "Number of API tokens revoked.",
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "validations_total",
			Help:      "Bearer token validations, by outcome.",
		}, []string{labelOutcome}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{labelRoute}),
		requestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request latencies.",
			Buckets:   prometheus.DefBuckets,
		}, []string{labelMethod, labelRoute, labelCode}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.tokensIssued,
		m.tokensPruned,
		m.tokensRevoked,
		m.validations,
		m.rateLimited,
		m.requestDurations,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TokenIssued(label string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(label).Inc()
}

func (m *Metrics) TokensPruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensPruned.Add(float64(n))
}

func (m *Metrics) TokenRevoked() {
	if m == nil {
		return
	}
	m.tokensRevoked.Inc()
}

func (m *Metrics) Validation(outcome string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(route).Inc()
}

// ObserveRequest records one served request. route must be the matched route
// template, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDurations.WithLabelValues(method, route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
