// Package observability provides structured logging, Prometheus metrics,
// health probes, OpenTelemetry tracing, and graceful shutdown for the metrics
// engine.
//
// # Logging
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithBackend("mongodb").WithError(err).Warn("query failed")
//
// # Metrics
//
// NewMetrics registers every collector with the supplied registry. Backend
// query outcome and latency are recorded per store; the load classification
// gauges are refreshed by the analyzer binary.
//
// # Health
//
// The HealthChecker probes the time-series store directly and any backend
// registered as a Pinger. One unreachable store degrades readiness; it fails
// only when every store is down, since partial reports remain servable.
package observability
