package loadpattern

import (
	"fmt"
	"sort"
	"strconv"
)

// Status classifies an hour's load relative to the overall average
type Status string

const (
	StatusHigh   Status = "high"
	StatusNormal Status = "normal"
	StatusLow    Status = "low"
)

// Action is the scaling recommendation paired with a status
type Action string

const (
	ActionScaleUp   Action = "scale_up"
	ActionMaintain  Action = "maintain"
	ActionScaleDown Action = "scale_down"
)

// Thresholds holds the relative multipliers driving classification
type Thresholds struct {
	WorkHourStart int     // first work hour, inclusive
	WorkHourEnd   int     // last work hour, inclusive
	WorkHours     float64 // expected-threshold multiplier inside work hours
	OffHours      float64 // expected-threshold multiplier outside work hours
	HighLoad      float64 // load ratio at or above which an hour is high
	LowLoad       float64 // load ratio at or below which an hour is low
}

// DefaultThresholds returns the standard multipliers
func DefaultThresholds() Thresholds {
	return Thresholds{
		WorkHourStart: 9,
		WorkHourEnd:   17,
		WorkHours:     1.1,
		OffHours:      0.9,
		HighLoad:      1.1,
		LowLoad:       0.9,
	}
}

// Pattern is the classification of a single hour
type Pattern struct {
	Hour      int     `json:"hour"`
	Count     int64   `json:"count"`
	LoadRatio float64 `json:"load_ratio"`
	Status    Status  `json:"status"`
	Action    Action  `json:"action"`
	IsWorkHour bool   `json:"is_work_hour"`

	// ExpectedThreshold is an explanatory bound from the work/off-hours
	// partition baseline. It never drives Status: classification compares
	// against the global average.
	ExpectedThreshold float64 `json:"expected_threshold"`
}

// Summary aggregates the per-hour patterns
type Summary struct {
	AverageLoad   float64   `json:"average_load"`
	WorkHoursAvg  float64   `json:"work_hours_avg"`
	OffHoursAvg   float64   `json:"off_hours_avg"`
	PeakHours     []Pattern `json:"peak_hours"`  // top 3 busiest hours
	QuietHours    []Pattern `json:"quiet_hours"` // 3 quietest hours
	HighLoadHours int       `json:"high_load_hours"`
	LowLoadHours  int       `json:"low_load_hours"`
}

// Analysis is the full classifier output. Patterns are ordered by count
// descending.
type Analysis struct {
	Patterns []Pattern `json:"patterns"`
	Summary  Summary   `json:"summary"`
}

// Classifier derives load patterns from dynamic, self-calibrating averages
// instead of fixed absolute limits
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with the default thresholds
func NewClassifier() *Classifier {
	return &Classifier{thresholds: DefaultThresholds()}
}

// NewClassifierWithThresholds creates a classifier with custom thresholds
func NewClassifierWithThresholds(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Analyze classifies each hour of the hour-of-day -> count mapping. Hours
// absent from the mapping carry no data and are excluded, not treated as
// zero. An empty mapping yields a nil analysis and no error. Keys must parse
// as integers in [0,23].
//
// Analyze is deterministic: the same mapping always produces the identical
// pattern sequence and summary.
func (c *Classifier) Analyze(hourly map[string]int64) (*Analysis, error) {
	if len(hourly) == 0 {
		return nil, nil
	}

	counts, err := parseHours(hourly)
	if err != nil {
		return nil, err
	}

	// Hours iterate in ascending order so the stable sort below gives one
	// canonical ordering among equal counts.
	hours := make([]int, 0, len(counts))
	var total int64
	for hour, count := range counts {
		hours = append(hours, hour)
		total += count
	}
	sort.Ints(hours)

	avgLoad := float64(total) / float64(len(counts))
	workAvg, offAvg := c.partitionAverages(counts, avgLoad)

	patterns := make([]Pattern, 0, len(hours))
	for _, hour := range hours {
		count := counts[hour]
		isWorkHour := c.isWorkHour(hour)

		baseline := offAvg
		threshold := baseline * c.thresholds.OffHours
		if isWorkHour {
			baseline = workAvg
			threshold = baseline * c.thresholds.WorkHours
		}

		// Classification deliberately uses the global average, not the
		// partition baseline; the baseline only informs ExpectedThreshold.
		var loadRatio float64
		status, action := StatusNormal, ActionMaintain
		if avgLoad > 0 {
			loadRatio = float64(count) / avgLoad
			status, action = c.classify(loadRatio)
		}

		patterns = append(patterns, Pattern{
			Hour:              hour,
			Count:             count,
			LoadRatio:         loadRatio,
			Status:            status,
			Action:            action,
			IsWorkHour:        isWorkHour,
			ExpectedThreshold: threshold,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Count > patterns[j].Count
	})

	summary := Summary{
		AverageLoad:  avgLoad,
		WorkHoursAvg: workAvg,
		OffHoursAvg:  offAvg,
		PeakHours:    patterns[:min(3, len(patterns))],
		QuietHours:   patterns[max(0, len(patterns)-3):],
	}
	for _, p := range patterns {
		switch p.Status {
		case StatusHigh:
			summary.HighLoadHours++
		case StatusLow:
			summary.LowLoadHours++
		}
	}

	return &Analysis{Patterns: patterns, Summary: summary}, nil
}

// parseHours validates the mapping keys and converts them to integer hours
func parseHours(hourly map[string]int64) (map[int]int64, error) {
	counts := make(map[int]int64, len(hourly))
	for key, count := range hourly {
		hour, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("hour key %q is not an integer", key)
		}
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("hour key %d outside [0,23]", hour)
		}
		counts[hour] = count
	}
	return counts, nil
}

// partitionAverages computes separate work-hours and off-hours means. A
// partition with no samples falls back to the global average, which avoids a
// zero division and avoids biasing toward a partition with no data.
func (c *Classifier) partitionAverages(counts map[int]int64, avgLoad float64) (workAvg, offAvg float64) {
	var workTotal, offTotal int64
	var workN, offN int

	for hour, count := range counts {
		if c.isWorkHour(hour) {
			workTotal += count
			workN++
		} else {
			offTotal += count
			offN++
		}
	}

	workAvg = avgLoad
	if workN > 0 {
		workAvg = float64(workTotal) / float64(workN)
	}
	offAvg = avgLoad
	if offN > 0 {
		offAvg = float64(offTotal) / float64(offN)
	}
	return workAvg, offAvg
}

func (c *Classifier) classify(loadRatio float64) (Status, Action) {
	switch {
	case loadRatio >= c.thresholds.HighLoad:
		return StatusHigh, ActionScaleUp
	case loadRatio <= c.thresholds.LowLoad:
		return StatusLow, ActionScaleDown
	default:
		return StatusNormal, ActionMaintain
	}
}

func (c *Classifier) isWorkHour(hour int) bool {
	return hour >= c.thresholds.WorkHourStart && hour <= c.thresholds.WorkHourEnd
}
