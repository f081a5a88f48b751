package loadpattern

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workdayHourly builds a 24-hour mapping with elevated work-hour counts
func workdayHourly() map[string]int64 {
	hourly := make(map[string]int64, 24)
	for hour := 0; hour < 24; hour++ {
		count := int64(10)
		if hour >= 9 && hour <= 17 {
			count = 100
		}
		hourly[strconv.Itoa(hour)] = count
	}
	return hourly
}

func TestAnalyzeWorkdayShape(t *testing.T) {
	c := NewClassifier()

	analysis, err := c.Analyze(workdayHourly())
	require.NoError(t, err)
	require.NotNil(t, analysis)

	// (9*100 + 15*10) / 24
	assert.Equal(t, 43.75, analysis.Summary.AverageLoad)
	assert.Equal(t, 100.0, analysis.Summary.WorkHoursAvg)
	assert.Equal(t, 10.0, analysis.Summary.OffHoursAvg)

	assert.Equal(t, 9, analysis.Summary.HighLoadHours)
	assert.Equal(t, 15, analysis.Summary.LowLoadHours)

	require.Len(t, analysis.Patterns, 24)
	for _, p := range analysis.Patterns {
		if p.Hour >= 9 && p.Hour <= 17 {
			assert.Equal(t, StatusHigh, p.Status, "hour %d", p.Hour)
			assert.Equal(t, ActionScaleUp, p.Action, "hour %d", p.Hour)
			assert.True(t, p.IsWorkHour, "hour %d", p.Hour)
			assert.InDelta(t, 100.0/43.75, p.LoadRatio, 1e-9)
			assert.InDelta(t, 110.0, p.ExpectedThreshold, 1e-9)
		} else {
			assert.Equal(t, StatusLow, p.Status, "hour %d", p.Hour)
			assert.Equal(t, ActionScaleDown, p.Action, "hour %d", p.Hour)
			assert.False(t, p.IsWorkHour, "hour %d", p.Hour)
			assert.InDelta(t, 9.0, p.ExpectedThreshold, 1e-9)
		}
	}
}

func TestAnalyzeOrdering(t *testing.T) {
	c := NewClassifier()

	analysis, err := c.Analyze(workdayHourly())
	require.NoError(t, err)

	// patterns sorted by count descending
	for i := 1; i < len(analysis.Patterns); i++ {
		assert.GreaterOrEqual(t, analysis.Patterns[i-1].Count, analysis.Patterns[i].Count)
	}

	require.Len(t, analysis.Summary.PeakHours, 3)
	require.Len(t, analysis.Summary.QuietHours, 3)
	for _, p := range analysis.Summary.PeakHours {
		assert.Equal(t, int64(100), p.Count)
	}
	for _, p := range analysis.Summary.QuietHours {
		assert.Equal(t, int64(10), p.Count)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	c := NewClassifier()
	hourly := workdayHourly()

	first, err := c.Analyze(hourly)
	require.NoError(t, err)
	second, err := c.Analyze(hourly)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeEmpty(t *testing.T) {
	c := NewClassifier()

	analysis, err := c.Analyze(map[string]int64{})
	assert.NoError(t, err)
	assert.Nil(t, analysis)
}

func TestAnalyzeSparseHours(t *testing.T) {
	c := NewClassifier()

	// only two hours carry data; the rest are absent, not zero
	analysis, err := c.Analyze(map[string]int64{"9": 30, "22": 10})
	require.NoError(t, err)
	require.Len(t, analysis.Patterns, 2)

	assert.Equal(t, 20.0, analysis.Summary.AverageLoad)
	// with fewer than 6 hours, the peak and quiet windows overlap
	assert.Len(t, analysis.Summary.PeakHours, 2)
	assert.Len(t, analysis.Summary.QuietHours, 2)
}

func TestAnalyzeBadKeys(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name   string
		hourly map[string]int64
	}{
		{name: "non-integer key", hourly: map[string]int64{"morning": 5}},
		{name: "hour above 23", hourly: map[string]int64{"24": 5}},
		{name: "negative hour", hourly: map[string]int64{"-1": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Analyze(tt.hourly)
			assert.Error(t, err)
		})
	}
}

func TestAnalyzeAllZeroCounts(t *testing.T) {
	c := NewClassifier()

	analysis, err := c.Analyze(map[string]int64{"1": 0, "2": 0})
	require.NoError(t, err)
	require.Len(t, analysis.Patterns, 2)

	for _, p := range analysis.Patterns {
		assert.Equal(t, StatusNormal, p.Status)
		assert.Equal(t, ActionMaintain, p.Action)
		assert.Zero(t, p.LoadRatio)
	}
}

func TestAnalyzeCustomThresholds(t *testing.T) {
	c := NewClassifierWithThresholds(Thresholds{
		WorkHourStart: 0,
		WorkHourEnd:   23,
		WorkHours:     1.0,
		OffHours:      1.0,
		HighLoad:      2.0,
		LowLoad:       0.5,
	})

	analysis, err := c.Analyze(map[string]int64{"1": 10, "2": 10, "3": 40})
	require.NoError(t, err)

	// avg = 20; 40/20 = 2.0 is high, 10/20 = 0.5 is low
	statuses := map[int]Status{}
	for _, p := range analysis.Patterns {
		statuses[p.Hour] = p.Status
	}
	assert.Equal(t, StatusHigh, statuses[3])
	assert.Equal(t, StatusLow, statuses[1])
	assert.Equal(t, StatusLow, statuses[2])
}
