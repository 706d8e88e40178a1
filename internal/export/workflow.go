package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wfbench/internal/api"
)

// Summary holds the totals over a set of workflow results.
type Summary struct {
	TotalPassed   int   `json:"totalPassed"`
	TotalFailed   int   `json:"totalFailed"`
	TotalSkipped  int   `json:"totalSkipped"`
	TotalDuration int64 `json:"totalDuration"`
	// SuccessRate is totalPassed over all steps as a 2-decimal percentage string
	SuccessRate string `json:"successRate"`
}

// WorkflowDocument is the JSON export of one or more workflow results.
type WorkflowDocument struct {
	ExportedAt     string                `json:"exportedAt"`
	TotalWorkflows int                   `json:"totalWorkflows"`
	Summary        Summary               `json:"summary"`
	Workflows      []*api.WorkflowResult `json:"workflows"`
}

// Summarize computes the export totals for results.
func Summarize(results []*api.WorkflowResult) Summary {
	var s Summary
	var steps int
	for _, r := range results {
		if r == nil {
			continue
		}
		s.TotalPassed += r.Passed
		s.TotalFailed += r.Failed
		s.TotalSkipped += r.Skipped
		s.TotalDuration += r.Duration
		steps += r.TotalSteps
	}
	rate := 0.0
	if steps > 0 {
		rate = float64(s.TotalPassed) / float64(steps) * 100
	}
	s.SuccessRate = percent2(rate)
	return s
}

// ToJSON exports workflow results wrapped with an export timestamp and totals.
func ToJSON(results ...*api.WorkflowResult) ([]byte, error) {
	return toJSONAt(time.Now(), results)
}

func toJSONAt(now time.Time, results []*api.WorkflowResult) ([]byte, error) {
	workflows := make([]*api.WorkflowResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			workflows = append(workflows, r)
		}
	}
	doc := WorkflowDocument{
		ExportedAt:     api.FormatTimestamp(now),
		TotalWorkflows: len(workflows),
		Summary:        Summarize(workflows),
		Workflows:      workflows,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflow results: %w", err)
	}
	return data, nil
}

// WorkflowCSVHeader is the header row of ToCSV.
var WorkflowCSVHeader = []string{
	"Workflow", "Total Steps", "Passed", "Failed", "Skipped",
	"Success Rate (%)", "Duration (s)", "Start Time", "End Time", "Errors",
}

// ToCSV exports one row per workflow result.
func ToCSV(results ...*api.WorkflowResult) string {
	var b csvBuilder
	b.row(WorkflowCSVHeader...)
	for _, r := range results {
		if r == nil {
			continue
		}
		errs := "None"
		if len(r.Errors) > 0 {
			errs = strings.Join(r.Errors, "; ")
		}
		b.row(
			quote(r.WorkflowName),
			strconv.Itoa(r.TotalSteps),
			strconv.Itoa(r.Passed),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Skipped),
			percent2(r.SuccessRate()),
			seconds2(r.Duration),
			api.FormatTimestamp(r.StartTime),
			api.FormatTimestamp(r.EndTime),
			quote(errs),
		)
	}
	return b.String()
}

// StepCSVHeader is the header row of StepsToCSV.
var StepCSVHeader = []string{"Workflow", "Step", "Status", "Duration (ms)", "Optional", "Error"}

// StepsToCSV exports one row per step across all results.
func StepsToCSV(results ...*api.WorkflowResult) string {
	var b csvBuilder
	b.row(StepCSVHeader...)
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, step := range r.Steps {
			b.row(
				quote(r.WorkflowName),
				quote(step.Name),
				string(step.Status),
				strconv.FormatInt(step.Duration, 10),
				strconv.FormatBool(step.Optional),
				quote(step.Error),
			)
		}
	}
	return b.String()
}

// TextSummary renders a human-readable report of one workflow result.
func TextSummary(r *api.WorkflowResult) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Workflow: %s\n", r.WorkflowName)
	fmt.Fprintf(&sb, "Status: %s\n", strings.ToUpper(string(r.FinalStatus)))
	fmt.Fprintf(&sb, "Duration: %ss\n", seconds2(r.Duration))
	fmt.Fprintf(&sb, "Steps: %d total, %d passed, %d failed, %d skipped\n", r.TotalSteps, r.Passed, r.Failed, r.Skipped)
	fmt.Fprintf(&sb, "Success Rate: %s%%\n", percent2(r.SuccessRate()))

	if len(r.Steps) > 0 {
		sb.WriteString("\nSteps:\n")
		for i, step := range r.Steps {
			fmt.Fprintf(&sb, "  %d. %s %s (%dms)", i+1, stepSymbol(step), step.Name, step.Duration)
			if step.Error != "" {
				fmt.Fprintf(&sb, ": %s", step.Error)
			}
			sb.WriteString("\n")
		}
	}

	if len(r.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "  - %s\n", e)
		}
	}
	return sb.String()
}

func stepSymbol(step api.StepResult) string {
	switch step.Status {
	case api.StepSuccess:
		return "✅"
	case api.StepFailed:
		return "❌"
	default:
		return "⏭️"
	}
}
