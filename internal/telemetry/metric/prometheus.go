package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Session metrics
	SessionsWaiting   prometheus.Gauge
	SessionsCreated   prometheus.Counter
	SessionsMatched   prometheus.Counter
	SessionsCompleted prometheus.Counter
	SessionsExpired   prometheus.Counter

	// Match attempt outcomes: hit, miss, throttled.
	MatchAttempts *prometheus.CounterVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Watcher metrics
	WatchersActive prometheus.Gauge
}

// NewRegistry creates a metrics registry with all application metrics
// registered, alongside the standard Go and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		SessionsWaiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "airsig",
			Subsystem: "sessions",
			Name:      "waiting",
			Help:      "Sessions currently waiting for a match",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airsig",
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Total pairing sessions created",
		}),
		SessionsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airsig",
			Subsystem: "sessions",
			Name:      "matched_total",
			Help:      "Total sessions claimed by a receiver",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airsig",
			Subsystem: "sessions",
			Name:      "completed_total",
			Help:      "Total sessions completed",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airsig",
			Subsystem: "sessions",
			Name:      "expired_total",
			Help:      "Total sessions that lapsed unmatched",
		}),
		MatchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airsig",
			Subsystem: "match",
			Name:      "attempts_total",
			Help:      "Match attempts by outcome",
		}, []string{"outcome"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airsig",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "airsig",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WatchersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "airsig",
			Subsystem: "watch",
			Name:      "active",
			Help:      "Active session event streams",
		}),
	}

	reg.MustRegister(
		r.SessionsWaiting,
		r.SessionsCreated,
		r.SessionsMatched,
		r.SessionsCompleted,
		r.SessionsExpired,
		r.MatchAttempts,
		r.RequestsTotal,
		r.RequestDuration,
		r.WatchersActive,
	)

	return r
}

// Prometheus exposes the underlying registry for components that
// register their own collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveMatch records a match attempt outcome (hit, miss, throttled).
func (r *Registry) ObserveMatch(outcome string) {
	r.MatchAttempts.WithLabelValues(outcome).Inc()
}
