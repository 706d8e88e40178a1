package analytics

import (
	"wfbench/internal/api"
)

const (
	// MinRatePoints is the number of runs needed for a success-rate trend
	MinRatePoints = 3
	// SlopeThreshold is the per-run change in success rate that counts as a trend
	SlopeThreshold = 1.0
)

// TrackSuccessRates orders runs by timestamp and fits a least-squares line
// through their success rates against run index.
func TrackSuccessRates(runs []api.WorkflowRun) api.SuccessRateTrend {
	sorted := sortedByTime(runs)
	trend := api.SuccessRateTrend{
		Points: make([]api.SuccessRatePoint, 0, len(sorted)),
		Trend:  api.RateStable,
	}

	var sum float64
	for _, run := range sorted {
		rate := SuccessRate(&run.Result)
		sum += rate
		trend.Points = append(trend.Points, api.SuccessRatePoint{
			RunID:       run.ID,
			Timestamp:   run.Timestamp,
			SuccessRate: rate,
		})
	}
	if len(sorted) > 0 {
		trend.Average = sum / float64(len(sorted))
	}
	if len(sorted) < MinRatePoints {
		return trend
	}

	trend.Slope = slope(trend.Points)
	switch {
	case trend.Slope > SlopeThreshold:
		trend.Trend = api.RateUp
	case trend.Slope < -SlopeThreshold:
		trend.Trend = api.RateDown
	}
	return trend
}

// slope is the ordinary least-squares slope of success rate over x = 0..n-1.
func slope(points []api.SuccessRatePoint) float64 {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.SuccessRate
		sumXY += x * p.SuccessRate
		sumXX += x * x
	}
	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}
