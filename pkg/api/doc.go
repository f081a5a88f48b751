// Package api implements the HTTP surface of the metrics engine.
//
// # Overview
//
// The API exposes read endpoints that reconcile the four backing stores into
// unified reports, plus write endpoints that record raw events into the store
// each event type belongs to.
//
// # Endpoints
//
// Report queries (all accept optional RFC 3339 start/end query parameters):
//
//	GET /api/v1/metrics/creation   - creation report from the document store
//	GET /api/v1/metrics/access     - access patterns from the search index
//	GET /api/v1/metrics/movement   - movement report from the time-series store
//	GET /api/v1/metrics/usage      - live counters plus historical usage
//	GET /api/v1/metrics/snapshot   - all four reports, partial on failure
//	GET /api/v1/metrics/load       - hourly load classification (trailing 24h default)
//
// Event writes:
//
//	POST /api/v1/events/access     - {"user_id", "data_id", "action"}
//	POST /api/v1/events/movement   - {"data_id", "source", "destination"}
//	POST /api/v1/events/creation   - {"data_id", "source"}
//
// # Error Mapping
//
// An unreachable backend returns 503, a rejected query 500, and a malformed
// window or body 400. Snapshot requests return 200 with per-backend errors in
// the body instead.
//
// # Related Packages
//
//   - pkg/metrics: Service and Recorder driven by these handlers
//   - pkg/httputil: Response and middleware helpers
package api
