package parallel

import (
	"time"

	"wfbench/internal/api"
)

// Aggregate computes the batch result from final statuses. Step sums come
// from completed workflows; durations come from every status that has one,
// failed ones included. Ties for fastest and slowest go to the first status.
func Aggregate(statuses []api.ParallelWorkflowStatus, start, end time.Time) *api.ParallelExecutionResult {
	result := &api.ParallelExecutionResult{
		TotalWorkflows: len(statuses),
		TotalDuration:  end.Sub(start).Milliseconds(),
		StartedAt:      start.UTC(),
		Workflows:      statuses,
		AggregateStats: api.AggregateStats{
			FastestWorkflow: api.NotAvailable,
			SlowestWorkflow: api.NotAvailable,
		},
	}
	if result.Workflows == nil {
		result.Workflows = []api.ParallelWorkflowStatus{}
	}

	stats := &result.AggregateStats
	var (
		timed         int
		totalDuration int64
		fastest       int64
		slowest       int64
	)
	for _, st := range statuses {
		switch st.Status {
		case api.TaskCompleted:
			result.Completed++
		case api.TaskFailed:
			result.Failed++
		}

		if st.Result != nil {
			stats.TotalSteps += st.Result.TotalSteps
			stats.PassedSteps += st.Result.Passed
			stats.FailedSteps += st.Result.Failed
			stats.SkippedSteps += st.Result.Skipped
		}

		if st.Duration == nil {
			continue
		}
		d := *st.Duration
		if d > result.TotalDuration {
			result.TotalDuration = d
		}
		if timed == 0 || d < fastest {
			fastest = d
			stats.FastestWorkflow = st.WorkflowName
		}
		if timed == 0 || d > slowest {
			slowest = d
			stats.SlowestWorkflow = st.WorkflowName
		}
		totalDuration += d
		timed++
	}

	if stats.TotalSteps > 0 {
		stats.SuccessRate = float64(stats.PassedSteps) / float64(stats.TotalSteps) * 100
	}
	if timed > 0 {
		stats.AverageDuration = float64(totalDuration) / float64(timed)
	}
	if result.TotalDuration < 0 {
		result.TotalDuration = 0
	}
	return result
}
