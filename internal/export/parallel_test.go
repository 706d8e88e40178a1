package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"wfbench/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func sampleBatch() *api.ParallelExecutionResult {
	return &api.ParallelExecutionResult{
		BatchID:        "batch-1",
		TotalWorkflows: 3,
		Completed:      2,
		Failed:         1,
		TotalDuration:  420,
		Workflows: []api.ParallelWorkflowStatus{
			{WorkflowID: "a", WorkflowName: "Purchase", Status: api.TaskCompleted, Progress: 75, Duration: int64p(400),
				Result: &api.WorkflowResult{TotalSteps: 4, Passed: 3, Failed: 1}},
			{WorkflowID: "b", WorkflowName: `Auction, "live"`, Status: api.TaskFailed, Duration: int64p(20), Error: "boom"},
			{WorkflowID: "c", WorkflowName: "Returns", Status: api.TaskCompleted, Progress: 100, Duration: int64p(100),
				Result: &api.WorkflowResult{TotalSteps: 2, Passed: 2}},
		},
		AggregateStats: api.AggregateStats{
			TotalSteps: 6, PassedSteps: 5, FailedSteps: 1,
			SuccessRate: 83.3333, AverageDuration: 173.3333,
			FastestWorkflow: `Auction, "live"`, SlowestWorkflow: "Purchase",
		},
	}
}

func TestParallelToCSV(t *testing.T) {
	out := ParallelToCSV(sampleBatch())

	reader := csv.NewReader(strings.NewReader(out))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, ParallelCSVHeader, records[0])
	assert.Equal(t, []string{"a", "Purchase", "completed", "400", "4", "3", "1", "75.00"}, records[1])
	assert.Equal(t, []string{"b", `Auction, "live"`, "failed", "20", "0", "0", "0", "0.00"}, records[2])
	assert.Equal(t, []string{"c", "Returns", "completed", "100", "2", "2", "0", "100.00"}, records[3])

	// encoding/csv skips the blank separator line
	assert.Equal(t, []string{SummaryMarker}, records[4])
	assert.Equal(t, []string{"Total Workflows", "3"}, records[5])
	assert.Equal(t, []string{"Completed", "2"}, records[6])
	assert.Equal(t, []string{"Failed", "1"}, records[7])
	assert.Equal(t, []string{"Total Duration (ms)", "420"}, records[8])
	assert.Equal(t, []string{"Average Duration (ms)", "173.33"}, records[9])
	assert.Equal(t, []string{"Overall Success Rate (%)", "83.33"}, records[10])
	assert.Equal(t, []string{"Fastest Workflow", `Auction, "live"`}, records[11])
	assert.Equal(t, []string{"Slowest Workflow", "Purchase"}, records[12])

	assert.Contains(t, out, "\n\nSUMMARY\n")
}

func TestParallelToCSV_MissingDuration(t *testing.T) {
	out := ParallelToCSV(&api.ParallelExecutionResult{
		TotalWorkflows: 1,
		Workflows:      []api.ParallelWorkflowStatus{{WorkflowID: "p", WorkflowName: "Pending", Status: api.TaskPending}},
	})
	assert.Contains(t, out, `"p","Pending",pending,N/A,0,0,0,0.00`)
}

func TestParallelToJSON(t *testing.T) {
	raw, err := ParallelToJSON(sampleBatch())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "exportedAt")
	assert.Equal(t, "batch-1", decoded["batchId"])
	assert.Equal(t, float64(3), decoded["totalWorkflows"])
	assert.Equal(t, float64(420), decoded["totalDuration"])

	stats := decoded["aggregateStats"].(map[string]interface{})
	assert.Equal(t, "Purchase", stats["slowestWorkflow"])

	workflows := decoded["workflows"].([]interface{})
	require.Len(t, workflows, 3)
	failed := workflows[1].(map[string]interface{})
	assert.Equal(t, "boom", failed["error"])
	assert.NotContains(t, failed, "result")
}

func TestParallelToJSON_Nil(t *testing.T) {
	raw, err := ParallelToJSON(nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"totalWorkflows": 0`)
}
