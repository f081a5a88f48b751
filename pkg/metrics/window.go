package metrics

import (
	"fmt"
	"time"
)

// TimeWindow is the [start, end] range over which a report is computed. Both
// ends are inclusive; each adapter documents how the range maps onto its
// backend's native query semantics.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow builds a validated window
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	w := TimeWindow{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

// Validate enforces start <= end
func (w TimeWindow) Validate() error {
	if w.End.Before(w.Start) {
		return fmt.Errorf("window end %s precedes start %s",
			w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// TrailingWindow returns the window covering the trailing duration up to now
func TrailingWindow(d time.Duration) TimeWindow {
	now := time.Now().UTC()
	return TimeWindow{Start: now.Add(-d), End: now}
}
