package api

import "time"

// PerformanceTrend classifies how workflow duration changes over time.
type PerformanceTrend string

const (
	TrendImproving        PerformanceTrend = "improving"
	TrendStable           PerformanceTrend = "stable"
	TrendDegrading        PerformanceTrend = "degrading"
	TrendInsufficientData PerformanceTrend = "insufficient_data"
)

// RateTrend classifies the direction of the success-rate series.
type RateTrend string

const (
	RateUp     RateTrend = "up"
	RateDown   RateTrend = "down"
	RateStable RateTrend = "stable"
)

// ErrorFrequency counts one distinct error message across runs.
type ErrorFrequency struct {
	Error string `json:"error"`
	Count int    `json:"count"`
}

// BottleneckStep is a step whose mean duration or failure rate crossed the
// bottleneck thresholds.
type BottleneckStep struct {
	StepName string `json:"stepName"`
	// AverageDuration is in milliseconds
	AverageDuration float64 `json:"averageDuration"`
	// FailureRate is a percentage of all occurrences
	FailureRate float64 `json:"failureRate"`
	Occurrences int     `json:"occurrences"`
}

// ComparisonMetrics is the per-workflow rollup over a set of runs.
type ComparisonMetrics struct {
	WorkflowName    string  `json:"workflowName"`
	TotalRuns       int     `json:"totalRuns"`
	AverageDuration float64 `json:"averageDuration"`
	MinDuration     int64   `json:"minDuration"`
	MaxDuration     int64   `json:"maxDuration"`
	// AverageSuccessRate is the mean per-run passed/totalSteps percentage
	AverageSuccessRate float64          `json:"averageSuccessRate"`
	TotalFailures      int              `json:"totalFailures"`
	CommonErrors       []ErrorFrequency `json:"commonErrors"`
	PerformanceTrend   PerformanceTrend `json:"performanceTrend"`
	BottleneckSteps    []BottleneckStep `json:"bottleneckSteps"`
}

// SuccessRatePoint is one run in a success-rate series.
type SuccessRatePoint struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	SuccessRate float64   `json:"successRate"`
}

// SuccessRateTrend is the regression summary over a run series.
type SuccessRateTrend struct {
	Points  []SuccessRatePoint `json:"points"`
	Average float64            `json:"average"`
	Slope   float64            `json:"slope"`
	Trend   RateTrend          `json:"trend"`
}

// ComparisonSummary holds totals over every run in a report.
type ComparisonSummary struct {
	TotalWorkflows int `json:"totalWorkflows"`
	TotalRuns      int `json:"totalRuns"`
	// OverallSuccessRate is sum(passed)/sum(totalSteps)*100 across all runs
	OverallSuccessRate float64 `json:"overallSuccessRate"`
	// AverageDuration is the mean run duration in milliseconds
	AverageDuration float64 `json:"averageDuration"`
}

// ComparisonReport is the cross-run analytics report.
type ComparisonReport struct {
	GeneratedAt     time.Time           `json:"generatedAt"`
	Summary         ComparisonSummary   `json:"summary"`
	Workflows       []ComparisonMetrics `json:"workflows"`
	Recommendations []string            `json:"recommendations"`
}
