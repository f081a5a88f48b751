// Package loadpattern classifies hourly load using dynamic thresholds derived
// from the data itself rather than fixed constants.
//
// Each hour's status compares its count against the overall average: a load
// ratio at or above 1.1 is high (scale up), at or below 0.9 is low (scale
// down). Separately, every hour carries an expected threshold computed from
// the work-hours (9-17) or off-hours partition average — an explanatory bound
// that does not participate in the status decision.
//
//	analysis, err := classifier.Analyze(report.ByHour)
//	if analysis != nil {
//		fmt.Printf("avg %.1f, %d high-load hours\n",
//			analysis.Summary.AverageLoad, analysis.Summary.HighLoadHours)
//	}
package loadpattern
