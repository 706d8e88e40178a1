package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wfbench/internal/api"
	"wfbench/internal/export"
	"wfbench/internal/reporter"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and manage the run log",
		Long: `Inspect and manage the recorded workflow runs.

The run log keeps the most recent runs (100 by default); older runs are
evicted first.`,
	}
	cmd.AddCommand(newRunsListCmd(), newRunsClearCmd(), newRunsExportCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var (
		workflowName string
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := loadRuns(cmd, workflowName)
			if err != nil {
				return err
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}
			reporter.RenderRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().StringVar(&workflowName, "workflow", "", "Only list runs of this workflow")
	cmd.Flags().IntVar(&limit, "limit", 0, "Only list the most recent runs (0 = all)")
	return cmd
}

func newRunsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every recorded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.runs.Enabled() {
				return fmt.Errorf("run log is disabled (storage backend %q)", a.cfg.Storage.Backend)
			}
			if err := a.runs.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear run log: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "🧹 Run log cleared")
			return nil
		},
	}
}

func newRunsExportCmd() *cobra.Command {
	var (
		workflowName string
		format       string
		outputDir    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded run results as JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				return fmt.Errorf("--format is required (json or csv)")
			}
			if err := checkExportFormat(format); err != nil {
				return err
			}
			runs, err := loadRuns(cmd, workflowName)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "📋 No recorded runs")
				return nil
			}

			results := make([]*api.WorkflowResult, len(runs))
			for i := range runs {
				results[i] = &runs[i].Result
			}
			dir := outputDir
			if dir == "" {
				dir = "."
			}
			return writeExport(cmd.OutOrStdout(), dir, "runs", format,
				func() ([]byte, error) { return export.ToJSON(results...) },
				func() (string, error) { return export.ToCSV(results...) + "\n\n" + export.StepsToCSV(results...), nil },
			)
		},
	}
	cmd.Flags().StringVar(&workflowName, "workflow", "", "Only export runs of this workflow")
	cmd.Flags().StringVar(&format, "format", "json", "Export format (json, csv)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for exported files (default current directory)")
	return cmd
}

// loadRuns reads the run log, optionally restricted to one workflow.
func loadRuns(cmd *cobra.Command, workflowName string) ([]api.WorkflowRun, error) {
	ctx, stop := signalContext(cmd)
	defer stop()

	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	defer a.Close()

	if workflowName != "" {
		return a.runs.ForWorkflow(ctx, workflowName)
	}
	return a.runs.List(ctx)
}
