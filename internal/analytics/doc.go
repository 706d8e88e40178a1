// Package analytics compares workflow runs over time.
//
// Runs are grouped by workflow name and rolled up into ComparisonMetrics:
// duration statistics, mean success rate, the most common errors, a
// duration trend from the older and newer half of the runs and the steps
// that are slow or unreliable. TrackSuccessRates fits a least-squares line
// through the per-run success rates. GenerateComparisonReport combines both
// with a list of recommendations.
//
// The thresholds are exported constants and are part of the observable
// behaviour of reports; changing them changes what gets flagged.
package analytics
