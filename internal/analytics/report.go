package analytics

import (
	"fmt"
	"time"

	"wfbench/internal/api"
)

const (
	// SlowWorkflowMs flags workflows whose mean duration exceeds it
	SlowWorkflowMs = 30000.0
	// LowSuccessRate flags workflows whose mean success rate is below it
	LowSuccessRate = 80.0
	// UnreliableStepRate flags bottleneck steps failing more often than this
	UnreliableStepRate = 10.0
	// RecurringErrorCount flags a most common error seen more often than this
	RecurringErrorCount = 3
)

// HealthyMessage is the only recommendation when nothing needs attention.
const HealthyMessage = "All workflows are healthy: no performance or reliability issues detected."

// GenerateComparisonReport builds the cross-run report.
func GenerateComparisonReport(runs []api.WorkflowRun) *api.ComparisonReport {
	return generateAt(runs, time.Now())
}

func generateAt(runs []api.WorkflowRun, now time.Time) *api.ComparisonReport {
	metrics := CompareWorkflows(runs)
	report := &api.ComparisonReport{
		GeneratedAt: now.UTC(),
		Summary:     summarize(runs, len(metrics)),
		Workflows:   metrics,
	}
	report.Recommendations = Recommendations(metrics)
	return report
}

func summarize(runs []api.WorkflowRun, workflows int) api.ComparisonSummary {
	s := api.ComparisonSummary{
		TotalWorkflows: workflows,
		TotalRuns:      len(runs),
	}
	var passed, steps int
	var duration int64
	for _, run := range runs {
		passed += run.Result.Passed
		steps += run.Result.TotalSteps
		duration += run.Result.Duration
	}
	if steps > 0 {
		s.OverallSuccessRate = float64(passed) / float64(steps) * 100
	}
	if len(runs) > 0 {
		s.AverageDuration = float64(duration) / float64(len(runs))
	}
	return s
}

// Recommendations applies the health heuristics to every workflow. The
// result is never empty.
func Recommendations(metrics []api.ComparisonMetrics) []string {
	var recs []string
	for _, m := range metrics {
		if m.AverageDuration > SlowWorkflowMs {
			recs = append(recs, fmt.Sprintf("%s: average duration is %.1fs; consider optimizing slow steps or parallelizing independent calls.",
				m.WorkflowName, m.AverageDuration/1000))
		}
		if m.AverageSuccessRate < LowSuccessRate {
			recs = append(recs, fmt.Sprintf("%s: success rate is %.1f%%; investigate failing steps.",
				m.WorkflowName, m.AverageSuccessRate))
		}
		if m.PerformanceTrend == api.TrendDegrading {
			recs = append(recs, fmt.Sprintf("%s: performance is degrading over recent runs; review recent changes.",
				m.WorkflowName))
		}
		for _, step := range m.BottleneckSteps {
			if step.FailureRate > UnreliableStepRate {
				recs = append(recs, fmt.Sprintf("%s: step %q fails %.1f%% of the time; improve its error handling.",
					m.WorkflowName, step.StepName, step.FailureRate))
			}
		}
		if len(m.CommonErrors) > 0 && m.CommonErrors[0].Count > RecurringErrorCount {
			recs = append(recs, fmt.Sprintf("%s: error %q occurred %d times; fix the root cause.",
				m.WorkflowName, m.CommonErrors[0].Error, m.CommonErrors[0].Count))
		}
	}
	if len(recs) == 0 {
		return []string{HealthyMessage}
	}
	return recs
}
