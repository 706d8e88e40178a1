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

func sampleReport() *api.ComparisonReport {
	return &api.ComparisonReport{
		Summary: api.ComparisonSummary{TotalWorkflows: 1, TotalRuns: 4, OverallSuccessRate: 75, AverageDuration: 7000},
		Workflows: []api.ComparisonMetrics{{
			WorkflowName:       "purchase-flow",
			TotalRuns:          4,
			AverageDuration:    7000,
			MinDuration:        4000,
			MaxDuration:        10000,
			AverageSuccessRate: 75,
			TotalFailures:      4,
			CommonErrors:       []api.ErrorFrequency{{Error: "timeout, retry", Count: 3}},
			PerformanceTrend:   api.TrendImproving,
			BottleneckSteps:    []api.BottleneckStep{{StepName: "pay", AverageDuration: 2000, FailureRate: 25, Occurrences: 4}},
		}},
		Recommendations: []string{`Workflow "purchase-flow" has a low success rate`},
	}
}

func TestComparisonToCSV(t *testing.T) {
	reader := csv.NewReader(strings.NewReader(ComparisonToCSV(sampleReport())))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, ComparisonCSVHeader, records[0])
	assert.Equal(t, []string{
		"purchase-flow", "4", "7000.00", "4000", "10000", "75.00", "4", "improving", "pay", "timeout, retry (3)",
	}, records[1])
	assert.Equal(t, []string{RecommendationsMarker}, records[2])
	assert.Equal(t, []string{`Workflow "purchase-flow" has a low success rate`}, records[3])
}

func TestComparisonToCSV_NoBottlenecks(t *testing.T) {
	report := sampleReport()
	report.Workflows[0].BottleneckSteps = nil
	report.Workflows[0].CommonErrors = nil

	reader := csv.NewReader(strings.NewReader(ComparisonToCSV(report)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "None", records[1][8])
	assert.Equal(t, "None", records[1][9])
}

func TestComparisonToJSON(t *testing.T) {
	raw, err := ComparisonToJSON(sampleReport())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "exportedAt")
	assert.Contains(t, decoded, "recommendations")
	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, float64(4), summary["totalRuns"])
}
