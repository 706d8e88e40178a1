package reporter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wfbench/internal/api"
	"wfbench/internal/scenario"
	"wfbench/pkg/strings"
)

// newTable creates a table with standard styling.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = text.FgHiCyan.Sprint(c)
	}
	return row
}

func emptyMessage(w io.Writer, icon, message string) {
	fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint(icon), text.FgYellow.Sprint(message))
}

func orNA(d *int64) string {
	if d == nil {
		return api.NotAvailable
	}
	return fmt.Sprintf("%dms", *d)
}

// RenderBatch prints one row per workflow followed by the aggregate stats.
func RenderBatch(w io.Writer, result *api.ParallelExecutionResult) {
	if result == nil || len(result.Workflows) == 0 {
		emptyMessage(w, "📋", "No workflows executed")
		return
	}

	t := newTable(w)
	t.SetTitle("Batch %s", result.BatchID)
	t.AppendHeader(header("WORKFLOW", "STATUS", "RESULT", "STEPS", "DURATION", "ERROR"))
	for _, s := range result.Workflows {
		final, steps := "-", "-"
		if s.Result != nil {
			final = FinalIcon(s.Result.FinalStatus) + " " + string(s.Result.FinalStatus)
			steps = fmt.Sprintf("%d/%d", s.Result.Passed, s.Result.TotalSteps)
		}
		t.AppendRow(table.Row{
			s.WorkflowName,
			taskStatus(s.Status),
			final,
			steps,
			orNA(s.Duration),
			strings.Truncate(s.Error, strings.CellMaxLen),
		})
	}

	stats := result.AggregateStats
	t.AppendFooter(table.Row{
		strings.Count(result.TotalWorkflows, "workflow"),
		fmt.Sprintf("%d ok / %d failed", result.Completed, result.Failed),
		fmt.Sprintf("%.2f%% steps", stats.SuccessRate),
		fmt.Sprintf("%d/%d", stats.PassedSteps, stats.TotalSteps),
		fmt.Sprintf("%dms", result.TotalDuration),
		"",
	})
	t.Render()

	fmt.Fprintf(w, "⏱️  Average: %.0fms  🐇 Fastest: %s  🐢 Slowest: %s\n",
		stats.AverageDuration, stats.FastestWorkflow, stats.SlowestWorkflow)
}

func taskStatus(s api.TaskStatus) string {
	switch s {
	case api.TaskCompleted:
		return text.FgGreen.Sprint(string(s))
	case api.TaskFailed:
		return text.FgRed.Sprint(string(s))
	case api.TaskRunning:
		return text.FgYellow.Sprint(string(s))
	default:
		return text.FgHiBlack.Sprint(string(s))
	}
}

// RenderComparison prints the per-workflow metrics, bottlenecks and the
// recommendations of a comparison report.
func RenderComparison(w io.Writer, report *api.ComparisonReport) {
	if report == nil || len(report.Workflows) == 0 {
		emptyMessage(w, "📋", "No recorded runs to compare")
		return
	}

	t := newTable(w)
	t.SetTitle("Workflow comparison (%d runs)", report.Summary.TotalRuns)
	t.AppendHeader(header("WORKFLOW", "RUNS", "AVG", "MIN", "MAX", "SUCCESS", "FAILURES", "TREND"))
	for _, m := range report.Workflows {
		t.AppendRow(table.Row{
			m.WorkflowName,
			m.TotalRuns,
			fmt.Sprintf("%.0fms", m.AverageDuration),
			fmt.Sprintf("%dms", m.MinDuration),
			fmt.Sprintf("%dms", m.MaxDuration),
			fmt.Sprintf("%.2f%%", m.AverageSuccessRate),
			m.TotalFailures,
			trendLabel(m.PerformanceTrend),
		})
	}
	t.AppendFooter(table.Row{
		strings.Count(report.Summary.TotalWorkflows, "workflow"),
		report.Summary.TotalRuns,
		fmt.Sprintf("%.0fms", report.Summary.AverageDuration),
		"", "",
		fmt.Sprintf("%.2f%%", report.Summary.OverallSuccessRate),
		"", "",
	})
	t.Render()

	renderBottlenecks(w, report.Workflows)

	fmt.Fprintln(w, "\n💡 Recommendations:")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(w, "   • %s\n", rec)
	}
}

func renderBottlenecks(w io.Writer, metrics []api.ComparisonMetrics) {
	t := newTable(w)
	t.SetTitle("Bottleneck steps")
	t.AppendHeader(header("WORKFLOW", "STEP", "AVG", "FAILURE RATE", "OCCURRENCES"))
	rows := 0
	for _, m := range metrics {
		for _, b := range m.BottleneckSteps {
			t.AppendRow(table.Row{
				m.WorkflowName,
				b.StepName,
				fmt.Sprintf("%.0fms", b.AverageDuration),
				fmt.Sprintf("%.2f%%", b.FailureRate),
				b.Occurrences,
			})
			rows++
		}
	}
	if rows == 0 {
		return
	}
	fmt.Fprintln(w)
	t.Render()
}

func trendLabel(trend api.PerformanceTrend) string {
	switch trend {
	case api.TrendImproving:
		return text.FgGreen.Sprint("📈 " + string(trend))
	case api.TrendDegrading:
		return text.FgRed.Sprint("📉 " + string(trend))
	case api.TrendStable:
		return "➖ " + string(trend)
	default:
		return text.FgHiBlack.Sprint(string(trend))
	}
}

// RenderRuns prints stored runs, newest last.
func RenderRuns(w io.Writer, runs []api.WorkflowRun) {
	if len(runs) == 0 {
		emptyMessage(w, "📋", "No recorded runs")
		return
	}

	t := newTable(w)
	t.AppendHeader(header("ID", "WORKFLOW", "TIMESTAMP", "STATUS", "STEPS", "DURATION"))
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.WorkflowName,
			api.FormatTimestamp(run.Timestamp),
			FinalIcon(run.Result.FinalStatus) + " " + string(run.Result.FinalStatus),
			fmt.Sprintf("%d/%d", run.Result.Passed, run.Result.TotalSteps),
			fmt.Sprintf("%dms", run.Result.Duration),
		})
	}
	t.Render()
}

// RenderEntries prints the available workflows.
func RenderEntries(w io.Writer, entries []scenario.Entry) {
	if len(entries) == 0 {
		emptyMessage(w, "📋", "No workflows found")
		return
	}

	t := newTable(w)
	t.AppendHeader(header("NAME", "DESCRIPTION", "TAGS", "SOURCE"))
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Name,
			strings.Truncate(e.Description, strings.CellMaxLen),
			strings.JoinNonEmpty(e.Tags),
			e.Source,
		})
	}
	t.Render()
}
