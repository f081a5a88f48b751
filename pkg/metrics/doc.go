// Package metrics aggregates operational metrics describing how units of data
// are created, accessed, moved, and consumed.
//
// # Overview
//
// Four backing stores each hold one slice of the picture:
//
//   - MongoDB: creation events, grouped by (date, hour, source)
//   - Elasticsearch: access events, bucketed by hour, user, and action
//   - TimescaleDB: movement events in 1-hour buckets
//   - Redis: live usage counters
//
// One adapter per store translates a TimeWindow into that store's native
// query and normalizes the raw result into a unified report. The Service
// fronts the adapters with per-call timeouts and failure isolation: in a
// multi-report snapshot, an unreachable backend costs only its own report.
//
// # Usage Example
//
// Fetch a single report:
//
//	window, _ := metrics.NewTimeWindow(start, end)
//	report, err := service.GetCreationMetrics(ctx, window)
//	fmt.Printf("Total: %d across %d sources\n",
//		report.TotalCount, len(report.BySource))
//
// Classify hourly load:
//
//	analysis, err := service.AnalyzeLoad(ctx, window)
//	for _, p := range analysis.Summary.PeakHours {
//		fmt.Printf("hour %d: %d events (%s)\n", p.Hour, p.Count, p.Status)
//	}
//
// # Error Handling
//
// Adapter failures carry the backend name (BackendError) and wrap
// storage.ErrUnavailable or storage.ErrQueryRejected. Empty windows are not
// failures: they yield zero-valued reports.
//
// # Related Packages
//
//   - pkg/storage: backend capabilities the adapters consume
//   - pkg/loadpattern: hourly load classification
package metrics
