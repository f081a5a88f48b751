package metrics

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dataobs/lens/pkg/observability"
	"github.com/dataobs/lens/pkg/storage"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

// TestUsageFetch tests merging of live counters and historical buckets
func TestUsageFetch(t *testing.T) {
	counters := newStubCounterCache()
	counters.values["usage:total_records"] = 120
	counters.hashes["usage:by_source"] = map[string]int64{"web": 80, "etl": 40}

	search := &stubSearchIndex{aggs: storage.AggregationResult{
		"usage_over_time": {
			{Key: "1718445600000", KeyAsString: "2024-06-15T10:00:00.000Z", DocCount: 15},
			{Key: "1718449200000", KeyAsString: "2024-06-15T11:00:00.000Z", DocCount: 3},
		},
	}}

	m := NewUsageMetrics(counters, search, "data_access", testLogger())
	report, err := m.Fetch(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if report.Current.TotalRecords != 120 {
		t.Errorf("TotalRecords = %d, want 120", report.Current.TotalRecords)
	}
	if report.Current.BySource["web"] != 80 {
		t.Errorf("BySource = %v", report.Current.BySource)
	}
	if report.Historical.OverTime["2024-06-15T10:00:00.000Z"] != 15 {
		t.Errorf("OverTime = %v", report.Historical.OverTime)
	}
}

// TestUsageFetchCountersDown tests the soft-fail of the live half
func TestUsageFetchCountersDown(t *testing.T) {
	counters := newStubCounterCache()
	counters.err = errors.New("connection refused")

	search := &stubSearchIndex{aggs: storage.AggregationResult{
		"usage_over_time": {
			{KeyAsString: "2024-06-15T10:00:00.000Z", DocCount: 15},
		},
	}}

	m := NewUsageMetrics(counters, search, "data_access", testLogger())
	report, err := m.Fetch(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("Fetch() error = %v, want soft failure", err)
	}

	if report.Current.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0 default", report.Current.TotalRecords)
	}
	if len(report.Current.BySource) != 0 {
		t.Errorf("BySource = %v, want empty", report.Current.BySource)
	}
	if report.Current.BySource == nil {
		t.Error("BySource is nil, want initialized map")
	}
	// the historical half is still served
	if report.Historical.OverTime["2024-06-15T10:00:00.000Z"] != 15 {
		t.Errorf("OverTime = %v", report.Historical.OverTime)
	}
}

// TestUsageFetchHistoricalDown tests the soft-fail of the historical half
func TestUsageFetchHistoricalDown(t *testing.T) {
	counters := newStubCounterCache()
	counters.values["usage:total_records"] = 42

	search := &stubSearchIndex{searchErr: errors.New("connection refused")}

	m := NewUsageMetrics(counters, search, "data_access", testLogger())
	report, err := m.Fetch(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("Fetch() error = %v, want soft failure", err)
	}

	if report.Current.TotalRecords != 42 {
		t.Errorf("TotalRecords = %d, want 42", report.Current.TotalRecords)
	}
	if len(report.Historical.OverTime) != 0 {
		t.Errorf("OverTime = %v, want empty", report.Historical.OverTime)
	}
}
