package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wfbench/internal/api"
)

// ComparisonDocument is the JSON export of a comparison report.
type ComparisonDocument struct {
	ExportedAt string `json:"exportedAt"`
	*api.ComparisonReport
}

// ComparisonToJSON exports a comparison report with an export timestamp.
func ComparisonToJSON(report *api.ComparisonReport) ([]byte, error) {
	if report == nil {
		report = &api.ComparisonReport{}
	}
	data, err := json.MarshalIndent(ComparisonDocument{
		ExportedAt:       api.FormatTimestamp(time.Now()),
		ComparisonReport: report,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comparison report: %w", err)
	}
	return data, nil
}

// ComparisonCSVHeader is the header row of ComparisonToCSV.
var ComparisonCSVHeader = []string{
	"Workflow", "Total Runs", "Average Duration (ms)", "Min Duration (ms)", "Max Duration (ms)",
	"Average Success Rate (%)", "Total Failures", "Performance Trend", "Bottleneck Steps", "Common Errors",
}

// RecommendationsMarker precedes the recommendation rows of ComparisonToCSV.
const RecommendationsMarker = "RECOMMENDATIONS"

// ComparisonToCSV exports one row per workflow, then the recommendations.
func ComparisonToCSV(report *api.ComparisonReport) string {
	if report == nil {
		report = &api.ComparisonReport{}
	}
	var b csvBuilder
	b.row(ComparisonCSVHeader...)
	for _, m := range report.Workflows {
		bottlenecks := make([]string, 0, len(m.BottleneckSteps))
		for _, s := range m.BottleneckSteps {
			bottlenecks = append(bottlenecks, s.StepName)
		}
		errs := make([]string, 0, len(m.CommonErrors))
		for _, e := range m.CommonErrors {
			errs = append(errs, fmt.Sprintf("%s (%d)", e.Error, e.Count))
		}
		b.row(
			quote(m.WorkflowName),
			strconv.Itoa(m.TotalRuns),
			fmt.Sprintf("%.2f", m.AverageDuration),
			strconv.FormatInt(m.MinDuration, 10),
			strconv.FormatInt(m.MaxDuration, 10),
			percent2(m.AverageSuccessRate),
			strconv.Itoa(m.TotalFailures),
			string(m.PerformanceTrend),
			quote(noneIfEmpty(bottlenecks)),
			quote(noneIfEmpty(errs)),
		)
	}

	b.blank()
	b.row(RecommendationsMarker)
	for _, rec := range report.Recommendations {
		b.row(quote(rec))
	}
	return b.String()
}

func noneIfEmpty(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, "; ")
}
