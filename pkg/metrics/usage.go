package metrics

import (
	"context"
	"time"

	"github.com/dataobs/lens/pkg/observability"
	"github.com/dataobs/lens/pkg/storage"
)

// Live usage counter keys. Writes are owned by the event write paths; the
// values may move between reads inside a single request.
const (
	counterTotalRecords = "usage:total_records"
	counterBySource     = "usage:by_source"
)

const aggUsageOverTime = "usage_over_time"

// UsageMetrics merges the live counter snapshot with a historical hourly
// aggregation over the same window
type UsageMetrics struct {
	counters storage.CounterCache
	search   storage.SearchIndex
	index    string
	logger   *observability.Logger
}

// NewUsageMetrics creates a new usage metrics adapter
func NewUsageMetrics(counters storage.CounterCache, search storage.SearchIndex, index string, logger *observability.Logger) *UsageMetrics {
	return &UsageMetrics{counters: counters, search: search, index: index, logger: logger}
}

// usageQuery buckets access events in the window into an hourly histogram
func usageQuery(window TimeWindow) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"timestamp": map[string]interface{}{
					"gte": window.Start.Format(time.RFC3339),
					"lte": window.End.Format(time.RFC3339),
				},
			},
		},
		"aggs": map[string]interface{}{
			aggUsageOverTime: map[string]interface{}{
				"date_histogram": map[string]interface{}{
					"field":          "timestamp",
					"fixed_interval": "1h",
				},
			},
		},
	}
}

// Fetch builds the usage report. Each half fails soft: if the counter cache or
// the search index is unreachable, that half keeps its zero-valued defaults
// and the other half is still populated. These numbers back a display; a
// partial signal beats no signal.
func (m *UsageMetrics) Fetch(ctx context.Context, window TimeWindow) (*UsageReport, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	report := &UsageReport{
		Current:    UsageCurrent{BySource: make(map[string]int64)},
		Historical: UsageHistorical{OverTime: make(map[string]int64)},
	}

	if total, err := m.counters.Get(ctx, counterTotalRecords); err != nil {
		m.logger.WithError(err).Warn("usage: live total counter unavailable, defaulting to zero")
	} else {
		report.Current.TotalRecords = total
	}

	if bySource, err := m.counters.HGetAll(ctx, counterBySource); err != nil {
		m.logger.WithError(err).Warn("usage: live source counters unavailable, defaulting to empty")
	} else if bySource != nil {
		report.Current.BySource = bySource
	}

	if aggs, err := m.search.SearchAggregations(ctx, m.index, usageQuery(window)); err != nil {
		m.logger.WithError(err).Warn("usage: historical aggregation unavailable, defaulting to empty")
	} else {
		for _, b := range aggs[aggUsageOverTime] {
			report.Historical.OverTime[bucketLabel(b)] = b.DocCount
		}
	}

	return report, nil
}
