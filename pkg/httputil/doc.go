// Package httputil provides shared HTTP plumbing for the API layer.
//
// # Overview
//
// Response writers keep every handler's JSON output uniform (`{"error": "..."}`
// for failures), request helpers decode bodies and query parameters with
// consistent error reporting, and the middleware set covers request IDs,
// structured request logging, panic recovery, content-type enforcement, and
// body size limits.
//
// # Usage Example
//
// Parse a time window and respond:
//
//	start, err := httputil.ParseQueryTime(r, "start", defaultStart)
//	if err != nil {
//		httputil.WriteBadRequest(w, err.Error())
//		return
//	}
//	httputil.WriteSuccess(w, report)
//
// # Related Packages
//
//   - pkg/api: HTTP handlers built on these helpers
//   - pkg/observability: Logger carried by the logging middleware
package httputil
