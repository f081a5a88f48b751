package metrics

import "time"

// TrendPoint is one (date, hour, source) group from the creation store, kept
// in the order the store returned it so charts can consume it directly.
type TrendPoint struct {
	Date   string `json:"date"`
	Hour   int    `json:"hour"`
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// CreationReport summarizes data creation events over a window.
// TotalCount is always derived from BySource, so the two cannot drift.
type CreationReport struct {
	TotalCount int64            `json:"total_count"`
	BySource   map[string]int64 `json:"by_source"`
	ByHour     map[string]int64 `json:"by_hour"` // keyed by hour of day, "0".."23"
	TrendData  []TrendPoint     `json:"trend_data"`
}

// Movement is one hourly (source, destination, status) group of movement events
type Movement struct {
	HourBucket    time.Time `json:"hour_bucket"`
	Source        string    `json:"source"`
	Destination   string    `json:"destination"`
	Status        string    `json:"status"`
	MovementCount int64     `json:"movement_count"`
}

// MovementSummary holds distributions derived from the grouped movement rows.
// A status or source that never occurs in the window is omitted, not zero-filled.
type MovementSummary struct {
	TotalMovements int64            `json:"total_movements"`
	ByStatus       map[string]int64 `json:"by_status"`
	BySource       map[string]int64 `json:"by_source"`
}

// MovementReport summarizes data movement events over a window
type MovementReport struct {
	Movements []Movement      `json:"movements"`
	Summary   MovementSummary `json:"summary"`
}

// AccessReport summarizes access events over a window. ByHour is keyed by the
// bucket timestamp label, ByUser and ByAction by the respective term.
type AccessReport struct {
	ByHour   map[string]int64 `json:"by_hour"`
	ByUser   map[string]int64 `json:"by_user"`
	ByAction map[string]int64 `json:"by_action"`
}

// UsageCurrent is the live counter snapshot. It is eventually consistent with
// the event stores and may disagree with the historical half of the report.
type UsageCurrent struct {
	TotalRecords int64            `json:"total_records"`
	BySource     map[string]int64 `json:"by_source"`
}

// UsageHistorical is a point-in-time hourly aggregation over the requested window
type UsageHistorical struct {
	OverTime map[string]int64 `json:"over_time"`
}

// UsageReport merges the live counter snapshot with the historical aggregation
type UsageReport struct {
	Current    UsageCurrent    `json:"current"`
	Historical UsageHistorical `json:"historical"`
}
