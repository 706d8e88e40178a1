package reporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wfbench/internal/api"
	"wfbench/internal/scenario"
)

func TestRenderBatch(t *testing.T) {
	d := int64(120)
	result := &api.ParallelExecutionResult{
		BatchID:        "batch-1",
		TotalWorkflows: 2,
		Completed:      1,
		Failed:         1,
		TotalDuration:  130,
		Workflows: []api.ParallelWorkflowStatus{
			{WorkflowName: "purchase-flow", Status: api.TaskCompleted, Duration: &d,
				Result: &api.WorkflowResult{FinalStatus: api.FinalSuccess, Passed: 7, TotalSteps: 7}},
			{WorkflowName: "auction-bidding", Status: api.TaskFailed, Error: "workflow timed out after 1s"},
		},
		AggregateStats: api.AggregateStats{
			SuccessRate: 100, AverageDuration: 120,
			FastestWorkflow: "purchase-flow", SlowestWorkflow: "purchase-flow",
		},
	}

	var buf bytes.Buffer
	RenderBatch(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "batch-1")
	assert.Contains(t, out, "purchase-flow")
	assert.Contains(t, out, "7/7")
	assert.Contains(t, out, "120ms")
	assert.Contains(t, out, "auction-bidding")
	assert.Contains(t, out, api.NotAvailable)
	assert.Contains(t, out, "workflow timed out after 1s")
	assert.Contains(t, out, "Fastest: purchase-flow")
}

func TestRenderBatch_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderBatch(&buf, nil)
	assert.Contains(t, buf.String(), "No workflows executed")
}

func TestRenderComparison(t *testing.T) {
	report := &api.ComparisonReport{
		Summary: api.ComparisonSummary{TotalWorkflows: 1, TotalRuns: 4, OverallSuccessRate: 75, AverageDuration: 200},
		Workflows: []api.ComparisonMetrics{{
			WorkflowName: "purchase-flow", TotalRuns: 4, AverageDuration: 200, MinDuration: 100, MaxDuration: 300,
			AverageSuccessRate: 75, TotalFailures: 1, PerformanceTrend: api.TrendDegrading,
			BottleneckSteps: []api.BottleneckStep{{StepName: "Pay for order", AverageDuration: 6000, FailureRate: 25, Occurrences: 4}},
		}},
		Recommendations: []string{"purchase-flow: performance is degrading"},
	}

	var buf bytes.Buffer
	RenderComparison(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "purchase-flow")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "degrading")
	assert.Contains(t, out, "Pay for order")
	assert.Contains(t, out, "25.00%")
	assert.Contains(t, out, "• purchase-flow: performance is degrading")
}

func TestRenderComparison_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderComparison(&buf, &api.ComparisonReport{})
	assert.Contains(t, buf.String(), "No recorded runs to compare")
}

func TestRenderRuns(t *testing.T) {
	runs := []api.WorkflowRun{{
		ID:           "run-1",
		WorkflowName: "review-lifecycle",
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Result:       api.WorkflowResult{FinalStatus: api.FinalFailed, Passed: 0, TotalSteps: 5, Duration: 42},
	}}

	var buf bytes.Buffer
	RenderRuns(&buf, runs)
	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2026-03-01T12:00:00.000Z")
	assert.Contains(t, out, "0/5")
	assert.Contains(t, out, "42ms")

	buf.Reset()
	RenderRuns(&buf, nil)
	assert.Contains(t, buf.String(), "No recorded runs")
}

func TestRenderEntries(t *testing.T) {
	var buf bytes.Buffer
	RenderEntries(&buf, scenario.Builtins())
	out := buf.String()
	assert.Contains(t, out, "purchase-flow")
	assert.Contains(t, out, "orders, checkout, smoke")
	assert.Contains(t, out, scenario.SourceBuiltin)
}
