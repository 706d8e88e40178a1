package analytics

import (
	"math"
	"sort"

	"wfbench/internal/api"
)

const (
	// BottleneckDurationMs is the mean step duration above which a step is a bottleneck
	BottleneckDurationMs = 1000.0
	// BottleneckFailureRate is the step failure percentage above which a step is a bottleneck
	BottleneckFailureRate = 5.0
	// MaxBottlenecks caps the bottleneck list per workflow
	MaxBottlenecks = 10
	// MaxCommonErrors caps the common error list per workflow
	MaxCommonErrors = 5
	// MinTrendRuns is the number of runs needed to classify a duration trend
	MinTrendRuns = 4
	// TrendThreshold is the percentage change between run halves that counts as a trend
	TrendThreshold = 10.0
)

// GroupRuns groups runs by workflow name. Groups are returned in the order
// each name is first seen; runs keep their input order within a group.
func GroupRuns(runs []api.WorkflowRun) [][]api.WorkflowRun {
	index := make(map[string]int)
	var groups [][]api.WorkflowRun
	for _, run := range runs {
		name := runName(run)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], run)
	}
	return groups
}

func runName(run api.WorkflowRun) string {
	if run.WorkflowName != "" {
		return run.WorkflowName
	}
	return run.Result.WorkflowName
}

// CompareWorkflows computes one ComparisonMetrics per distinct workflow name.
func CompareWorkflows(runs []api.WorkflowRun) []api.ComparisonMetrics {
	groups := GroupRuns(runs)
	metrics := make([]api.ComparisonMetrics, 0, len(groups))
	for _, group := range groups {
		metrics = append(metrics, computeMetrics(runName(group[0]), group))
	}
	return metrics
}

func computeMetrics(name string, runs []api.WorkflowRun) api.ComparisonMetrics {
	m := api.ComparisonMetrics{
		WorkflowName: name,
		TotalRuns:    len(runs),
		MinDuration:  math.MaxInt64,
	}

	var totalDuration int64
	var totalRate float64
	for _, run := range runs {
		d := run.Result.Duration
		totalDuration += d
		if d < m.MinDuration {
			m.MinDuration = d
		}
		if d > m.MaxDuration {
			m.MaxDuration = d
		}
		totalRate += SuccessRate(&run.Result)
		m.TotalFailures += run.Result.Failed
	}
	if len(runs) == 0 {
		m.MinDuration = 0
	} else {
		m.AverageDuration = float64(totalDuration) / float64(len(runs))
		m.AverageSuccessRate = totalRate / float64(len(runs))
	}

	m.CommonErrors = commonErrors(runs)
	m.PerformanceTrend = performanceTrend(runs)
	m.BottleneckSteps = bottlenecks(runs)
	return m
}

// SuccessRate returns passed/totalSteps as a percentage, 0 for empty results.
func SuccessRate(result *api.WorkflowResult) float64 {
	if result == nil || result.TotalSteps == 0 {
		return 0
	}
	return float64(result.Passed) / float64(result.TotalSteps) * 100
}

// commonErrors counts every error message across runs and returns the most
// frequent ones. Equal counts keep first-seen order.
func commonErrors(runs []api.WorkflowRun) []api.ErrorFrequency {
	counts := make(map[string]int)
	var order []string
	for _, run := range runs {
		for _, msg := range run.Result.Errors {
			if _, seen := counts[msg]; !seen {
				order = append(order, msg)
			}
			counts[msg]++
		}
	}

	out := make([]api.ErrorFrequency, 0, len(order))
	for _, msg := range order {
		out = append(out, api.ErrorFrequency{Error: msg, Count: counts[msg]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > MaxCommonErrors {
		out = out[:MaxCommonErrors]
	}
	return out
}

// performanceTrend compares the mean duration of the older and newer half
// of the runs. Shorter durations are an improvement.
func performanceTrend(runs []api.WorkflowRun) api.PerformanceTrend {
	if len(runs) < MinTrendRuns {
		return api.TrendInsufficientData
	}

	sorted := sortedByTime(runs)
	mid := len(sorted) / 2
	firstAvg := meanDuration(sorted[:mid])
	secondAvg := meanDuration(sorted[mid:])
	if firstAvg == 0 {
		return api.TrendStable
	}

	improvement := (firstAvg - secondAvg) / firstAvg * 100
	switch {
	case improvement > TrendThreshold:
		return api.TrendImproving
	case improvement < -TrendThreshold:
		return api.TrendDegrading
	default:
		return api.TrendStable
	}
}

func meanDuration(runs []api.WorkflowRun) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total int64
	for _, run := range runs {
		total += run.Result.Duration
	}
	return float64(total) / float64(len(runs))
}

func sortedByTime(runs []api.WorkflowRun) []api.WorkflowRun {
	sorted := append([]api.WorkflowRun(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

type stepStats struct {
	name        string
	occurrences int
	timed       int
	failures    int
	duration    int64
}

// failedStep reports whether step ran and failed, optional failures included.
func failedStep(step api.StepResult) bool {
	if step.Status == api.StepFailed {
		return true
	}
	return step.Status == api.StepSkipped && step.Optional && step.Error != ""
}

// bottlenecks aggregates steps by name across runs. The mean duration only
// covers occurrences that actually ran; the failure rate covers all of them.
// A failed optional step ran and failed even though it is stored as skipped.
func bottlenecks(runs []api.WorkflowRun) []api.BottleneckStep {
	index := make(map[string]*stepStats)
	var order []*stepStats
	for _, run := range runs {
		for _, step := range run.Result.Steps {
			s, ok := index[step.Name]
			if !ok {
				s = &stepStats{name: step.Name}
				index[step.Name] = s
				order = append(order, s)
			}
			s.occurrences++
			if failedStep(step) {
				s.failures++
			}
			if step.Status != api.StepSkipped || failedStep(step) {
				s.timed++
				s.duration += step.Duration
			}
		}
	}

	var out []api.BottleneckStep
	for _, s := range order {
		avg := 0.0
		if s.timed > 0 {
			avg = float64(s.duration) / float64(s.timed)
		}
		failureRate := float64(s.failures) / float64(s.occurrences) * 100
		if avg > BottleneckDurationMs || failureRate > BottleneckFailureRate {
			out = append(out, api.BottleneckStep{
				StepName:        s.name,
				AverageDuration: avg,
				FailureRate:     failureRate,
				Occurrences:     s.occurrences,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AverageDuration > out[j].AverageDuration
	})
	if len(out) > MaxBottlenecks {
		out = out[:MaxBottlenecks]
	}
	if out == nil {
		out = []api.BottleneckStep{}
	}
	return out
}
