// Package storage defines the capabilities the metrics engine consumes from
// its four backing stores, plus their shared configuration.
//
// # Overview
//
// Each store is exposed as a narrow interface covering exactly what the
// aggregation core needs:
//
//   - DocumentStore: aggregation pipelines over creation events (MongoDB)
//   - SearchIndex: bucket aggregations over access events (Elasticsearch)
//   - CounterCache: live usage counters (Redis)
//
// The time-series movement store is consumed directly as *sql.DB; it needs no
// abstraction beyond database/sql.
//
// Concrete drivers live in pkg/storage/backends. Tests substitute fakes for
// these interfaces so the core never needs a live backend.
//
// # Error Taxonomy
//
//	storage.ErrUnavailable  — store unreachable or timed out; callers may
//	                          degrade to a partial report
//	storage.ErrQueryRejected — store rejected the query; programming defect,
//	                          never retried
//
// An empty result is not an error: a window containing no events produces a
// zero-valued report.
//
// # Related Packages
//
//   - pkg/metrics: builds queries and normalizes results
//   - pkg/storage/backends: driver-backed implementations
package storage
