// Package metric provides Prometheus metrics for AirSig.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: metric registry and HTTP handler
//
// Metrics include:
//
//   - Request latency histograms
//   - Session lifecycle counters and gauges
//   - Match attempt outcomes
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
