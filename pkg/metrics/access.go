package metrics

import (
	"context"
	"time"

	"github.com/dataobs/lens/pkg/storage"
)

// Aggregation names issued against the access index. The normalizer looks
// results up under the same names.
const (
	aggAccessByHour   = "access_by_hour"
	aggAccessByUser   = "access_by_user"
	aggAccessByAction = "access_by_action"
)

// AccessMetrics queries the search index for access patterns
type AccessMetrics struct {
	search storage.SearchIndex
	index  string
}

// NewAccessMetrics creates a new access metrics adapter
func NewAccessMetrics(search storage.SearchIndex, index string) *AccessMetrics {
	return &AccessMetrics{search: search, index: index}
}

// accessQuery runs three independent bucketizations over the same inclusive
// window in one search: an hourly histogram, a user frequency table, and an
// action frequency table. Three full-window scans is the expected cost of this
// query shape.
func accessQuery(window TimeWindow) map[string]interface{} {
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
			aggAccessByHour: map[string]interface{}{
				"date_histogram": map[string]interface{}{
					"field":          "timestamp",
					"fixed_interval": "1h",
				},
			},
			aggAccessByUser: map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "user_id.keyword",
				},
			},
			aggAccessByAction: map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "action.keyword",
				},
			},
		},
	}
}

// Fetch runs the three bucketizations and re-keys the buckets by their labels
func (m *AccessMetrics) Fetch(ctx context.Context, window TimeWindow) (*AccessReport, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	aggs, err := m.search.SearchAggregations(ctx, m.index, accessQuery(window))
	if err != nil {
		return nil, classifyErr(BackendElastic, err)
	}

	report := &AccessReport{
		ByHour:   make(map[string]int64),
		ByUser:   make(map[string]int64),
		ByAction: make(map[string]int64),
	}

	for _, b := range aggs[aggAccessByHour] {
		report.ByHour[bucketLabel(b)] = b.DocCount
	}
	for _, b := range aggs[aggAccessByUser] {
		report.ByUser[b.Key] = b.DocCount
	}
	for _, b := range aggs[aggAccessByAction] {
		report.ByAction[b.Key] = b.DocCount
	}

	return report, nil
}

// bucketLabel prefers the human-readable form of a date bucket key
func bucketLabel(b storage.Bucket) string {
	if b.KeyAsString != "" {
		return b.KeyAsString
	}
	return b.Key
}
