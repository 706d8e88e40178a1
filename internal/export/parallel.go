package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"wfbench/internal/api"
)

// ParallelDocument is the JSON export of a batch result.
type ParallelDocument struct {
	ExportedAt string `json:"exportedAt"`
	*api.ParallelExecutionResult
}

// ParallelToJSON exports a batch result with an export timestamp.
func ParallelToJSON(result *api.ParallelExecutionResult) ([]byte, error) {
	return parallelToJSONAt(time.Now(), result)
}

func parallelToJSONAt(now time.Time, result *api.ParallelExecutionResult) ([]byte, error) {
	if result == nil {
		result = &api.ParallelExecutionResult{}
	}
	data, err := json.MarshalIndent(ParallelDocument{
		ExportedAt:              api.FormatTimestamp(now),
		ParallelExecutionResult: result,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch result: %w", err)
	}
	return data, nil
}

// ParallelCSVHeader is the header row of ParallelToCSV.
var ParallelCSVHeader = []string{
	"Workflow ID", "Workflow Name", "Status", "Duration (ms)",
	"Total Steps", "Passed Steps", "Failed Steps", "Success Rate (%)",
}

// SummaryMarker separates the per-workflow rows from the batch totals.
const SummaryMarker = "SUMMARY"

// ParallelToCSV exports one row per workflow followed by a blank line, the
// SUMMARY marker and key/value rows with the batch totals.
func ParallelToCSV(result *api.ParallelExecutionResult) string {
	if result == nil {
		result = &api.ParallelExecutionResult{}
	}
	var b csvBuilder
	b.row(ParallelCSVHeader...)
	for _, st := range result.Workflows {
		duration := api.NotAvailable
		if st.Duration != nil {
			duration = strconv.FormatInt(*st.Duration, 10)
		}
		var total, passed, failed int
		rate := 0.0
		if st.Result != nil {
			total, passed, failed = st.Result.TotalSteps, st.Result.Passed, st.Result.Failed
			rate = st.Result.SuccessRate()
		}
		b.row(
			quote(st.WorkflowID),
			quote(st.WorkflowName),
			string(st.Status),
			duration,
			strconv.Itoa(total),
			strconv.Itoa(passed),
			strconv.Itoa(failed),
			percent2(rate),
		)
	}

	stats := result.AggregateStats
	b.blank()
	b.row(SummaryMarker)
	b.row("Total Workflows", strconv.Itoa(result.TotalWorkflows))
	b.row("Completed", strconv.Itoa(result.Completed))
	b.row("Failed", strconv.Itoa(result.Failed))
	b.row("Total Duration (ms)", strconv.FormatInt(result.TotalDuration, 10))
	b.row("Average Duration (ms)", fmt.Sprintf("%.2f", stats.AverageDuration))
	b.row("Overall Success Rate (%)", percent2(stats.SuccessRate))
	b.row("Fastest Workflow", quote(stats.FastestWorkflow))
	b.row("Slowest Workflow", quote(stats.SlowestWorkflow))
	return b.String()
}
