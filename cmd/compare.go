package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wfbench/internal/analytics"
	"wfbench/internal/api"
	"wfbench/internal/export"
	"wfbench/internal/reporter"
)

type compareOptions struct {
	input     string
	export    string
	outputDir string
}

func newCompareCmd() *cobra.Command {
	var opts compareOptions
	cmd := &cobra.Command{
		Use:   "compare [workflow...]",
		Short: "Compare recorded runs and print recommendations",
		Long: `Build a comparison report over recorded workflow runs: per-workflow
duration and success-rate metrics, performance trends, bottleneck steps
and recommendations.

Runs come from the run log, or from a JSON file holding an array of runs
with --input. Positional arguments restrict the report to those workflows.

Examples:
  wfbench compare
  wfbench compare purchase-flow auction-bidding
  wfbench compare --input runs.json --export csv`,
		ValidArgsFunction: completeWorkflowNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Read runs from this JSON file instead of the run log")
	cmd.Flags().StringVar(&opts.export, "export", "", "Export the report (json, csv)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for exported files (default from config)")
	return cmd
}

func runCompare(cmd *cobra.Command, names []string, opts compareOptions) error {
	if err := checkExportFormat(opts.export); err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var runs []api.WorkflowRun
	if opts.input != "" {
		runs, err = readRuns(opts.input)
	} else {
		runs, err = a.runs.List(ctx)
	}
	if err != nil {
		return err
	}
	runs = filterRuns(runs, names)

	out := cmd.OutOrStdout()
	report := analytics.GenerateComparisonReport(runs)
	reporter.RenderComparison(out, report)

	if groups := analytics.GroupRuns(runs); len(groups) > 0 {
		fmt.Fprintln(out, "\n📈 Success rate trends:")
		for _, group := range groups {
			trend := analytics.TrackSuccessRates(group)
			fmt.Fprintf(out, "   %s: average %.1f%%, slope %+.2f (%s)\n",
				workflowNameOf(group[0]), trend.Average, trend.Slope, trend.Trend)
		}
	}

	return writeExport(out, a.reportsDir(opts.outputDir), "comparison", a.exportFormat(opts.export),
		func() ([]byte, error) { return export.ComparisonToJSON(report) },
		func() (string, error) { return export.ComparisonToCSV(report), nil },
	)
}

// readRuns loads a JSON array of workflow runs.
func readRuns(path string) ([]api.WorkflowRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	var runs []api.WorkflowRun
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to parse runs from %s: %w", path, err)
	}
	return runs, nil
}

// filterRuns keeps runs of the named workflows; no names keeps everything.
func filterRuns(runs []api.WorkflowRun, names []string) []api.WorkflowRun {
	if len(names) == 0 {
		return runs
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []api.WorkflowRun
	for _, run := range runs {
		if wanted[workflowNameOf(run)] {
			out = append(out, run)
		}
	}
	return out
}

func workflowNameOf(run api.WorkflowRun) string {
	if run.WorkflowName != "" {
		return run.WorkflowName
	}
	return run.Result.WorkflowName
}
