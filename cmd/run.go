package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"wfbench/internal/api"
	"wfbench/internal/export"
	"wfbench/internal/reporter"
	"wfbench/internal/workflow"
)

type runOptions struct {
	export    string
	outputDir string
	timeout   time.Duration
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Run one workflow and record the result",
		Long: `Run a single workflow step by step, print every step outcome and a
summary, and append the run to the run log.

The exit code is 0 when the workflow finishes with status success, 2 when
it finishes partial or failed, and 1 when the command itself fails.

Examples:
  wfbench run purchase-flow
  wfbench run review-lifecycle --export json --output-dir reports/`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorkflowNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.export, "export", "", "Export the result (json, csv)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for exported files (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the workflow after this long (0 = no limit)")
	return cmd
}

func runWorkflow(cmd *cobra.Command, name string, opts runOptions) error {
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

	entry, ok := a.registry.Get(name)
	if !ok {
		return fmt.Errorf("%w (available: %v)", api.NewWorkflowNotFoundError(name), a.registry.Names())
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	console := reporter.NewConsole(out, quiet)

	var s *spinner.Spinner
	if !quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " Starting " + name
		s.Start()
	}
	observer := workflow.ObserverFuncs{
		Started: func(info workflow.StepInfo) {
			if s == nil {
				return
			}
			s.Lock()
			if info.Total > 0 {
				s.Suffix = fmt.Sprintf(" %s (%d/%d)", info.Name, info.Index+1, info.Total)
			} else {
				s.Suffix = " " + info.Name
			}
			s.Unlock()
		},
		Finished: func(info workflow.StepInfo, result api.StepResult) {
			if s != nil {
				s.Stop()
				defer s.Start()
			}
			console.StepFinished(info, result)
		},
	}

	result, run, runErr := a.tracker.TrackExecution(workflow.WithObserver(ctx, observer), entry.Build(a.env()))
	if s != nil {
		s.Stop()
	}
	if result == nil {
		return runErr
	}

	fmt.Fprintf(out, "\n%s %s", reporter.FinalIcon(result.FinalStatus), export.TextSummary(result))
	if run != nil && a.runs.Enabled() {
		fmt.Fprintf(out, "💾 Recorded run %s\n", run.ID)
	}

	err = writeExport(out, a.reportsDir(opts.outputDir), "workflow-"+name, a.exportFormat(opts.export),
		func() ([]byte, error) { return export.ToJSON(result) },
		func() (string, error) { return export.ToCSV(result) + "\n\n" + export.StepsToCSV(result), nil },
	)
	if err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if result.FinalStatus != api.FinalSuccess {
		return &FailureError{Failed: 1, Total: 1}
	}
	return nil
}
