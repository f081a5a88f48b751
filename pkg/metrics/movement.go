package metrics

import (
	"context"
	"database/sql"
)

// movementQuery groups movement events into 1-hour buckets by
// (source, destination, status). The window is inclusive on both ends
// (BETWEEN). All further aggregation happens in normalizeMovements; the store
// returns flat rows only.
const movementQuery = `
	SELECT
		time_bucket('1 hour', timestamp) AS hour,
		source,
		destination,
		status,
		COUNT(*) AS movement_count
	FROM data_movements
	WHERE timestamp BETWEEN $1 AND $2
	GROUP BY hour, source, destination, status
	ORDER BY hour
`

// MovementMetrics queries the time-series store for data movement events
type MovementMetrics struct {
	db *sql.DB
}

// NewMovementMetrics creates a new movement metrics adapter
func NewMovementMetrics(db *sql.DB) *MovementMetrics {
	return &MovementMetrics{db: db}
}

// Fetch runs the hourly grouping query and normalizes the rows into a MovementReport
func (m *MovementMetrics) Fetch(ctx context.Context, window TimeWindow) (*MovementReport, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, movementQuery, window.Start, window.End)
	if err != nil {
		return nil, classifyErr(BackendTimescale, err)
	}
	defer rows.Close()

	movements := make([]Movement, 0)
	for rows.Next() {
		var mv Movement
		if err := rows.Scan(&mv.HourBucket, &mv.Source, &mv.Destination, &mv.Status, &mv.MovementCount); err != nil {
			return nil, classifyErr(BackendTimescale, err)
		}
		movements = append(movements, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(BackendTimescale, err)
	}

	return normalizeMovements(movements), nil
}

// normalizeMovements derives the summary distributions from the grouped rows.
// Movement counts are accumulated per status and per source; a key that never
// occurs is omitted rather than zero-filled.
func normalizeMovements(movements []Movement) *MovementReport {
	summary := MovementSummary{
		ByStatus: make(map[string]int64),
		BySource: make(map[string]int64),
	}

	for _, mv := range movements {
		summary.TotalMovements += mv.MovementCount
		summary.ByStatus[mv.Status] += mv.MovementCount
		summary.BySource[mv.Source] += mv.MovementCount
	}

	return &MovementReport{Movements: movements, Summary: summary}
}
