package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	loginAttemptsTotal *prometheus.CounterVec
	storeWritesTotal   *prometheus.CounterVec
	identityCallsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors shared by both services.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accomnote_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accomnote_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accomnote_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"})

		storeWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accomnote_store_writes_total",
			Help: "Writes to the hierarchical store by record kind.",
		}, []string{"kind"})

		identityCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accomnote_identity_calls_total",
			Help: "Calls to the identity provider by action and outcome.",
		}, []string{"action", "outcome"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, loginAttemptsTotal, storeWritesTotal, identityCallsTotal)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// LoginAttempts exposes the login outcome counter.
func LoginAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return loginAttemptsTotal
}

// StoreWrites exposes the store write counter.
func StoreWrites() *prometheus.CounterVec {
	RegisterMetrics()
	return storeWritesTotal
}

// IdentityCalls exposes the identity provider call counter.
func IdentityCalls() *prometheus.CounterVec {
	RegisterMetrics()
	return identityCallsTotal
}
