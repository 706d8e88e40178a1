package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"wfbench/internal/api"
	"wfbench/internal/parallel"
	"wfbench/internal/reporter"
	"wfbench/internal/scenario"
	"wfbench/internal/server"
	"wfbench/pkg/logging"
)

type batchOptions struct {
	tags           []string
	export         string
	outputDir      string
	timeout        time.Duration
	maxConcurrency int
	watch          bool
	serve          string
	serveToken     string
}

func newBatchCmd() *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch [workflow...]",
		Short: "Run several workflows concurrently",
		Long: `Run the selected workflows (all of them by default) concurrently, print
every status change, a summary table and recommendations based on the run
history.

A workflow that fails, panics or times out only fails its own row; the rest
of the batch keeps running. The exit code is 2 when any workflow did not
finish with status success.

With --watch the batch is re-run whenever a YAML workflow file changes.
With --serve the live statuses are streamed over a websocket.

Examples:
  wfbench batch
  wfbench batch purchase-flow auction-bidding --max-concurrency 2
  wfbench batch --tag smoke --timeout 2m --export csv
  wfbench batch --scenarios ./workflows --watch --serve :8089`,
		ValidArgsFunction: completeWorkflowNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.tags, "tag", nil, "Only run workflows carrying one of these tags")
	cmd.Flags().StringVar(&opts.export, "export", "", "Export the batch result (json, csv)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for exported files (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Fail any workflow still running after this long (default from config, 0 = no limit)")
	cmd.Flags().IntVar(&opts.maxConcurrency, "max-concurrency", 0, "Run at most this many workflows at once (default from config, 0 = all)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run the batch when YAML workflow files change")
	cmd.Flags().StringVar(&opts.serve, "serve", "", "Stream live statuses on this address (e.g. :8089)")
	cmd.Flags().StringVar(&opts.serveToken, "serve-token", "", "Bearer token required by the status server")
	return cmd
}

func runBatch(cmd *cobra.Command, names []string, opts batchOptions) error {
	if err := checkExportFormat(opts.export); err != nil {
		return err
	}
	if opts.timeout < 0 || opts.maxConcurrency < 0 {
		return errors.New("--timeout and --max-concurrency must not be negative")
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.watch && a.cfg.Scenarios.Path == "" {
		return errors.New("--watch needs a scenarios path (--scenarios or scenarios.path in the config)")
	}

	timeout := a.cfg.Execution.TaskTimeout.Std()
	if cmd.Flags().Changed("timeout") {
		timeout = opts.timeout
	}
	maxConcurrency := a.cfg.Execution.MaxConcurrency
	if cmd.Flags().Changed("max-concurrency") {
		maxConcurrency = opts.maxConcurrency
	}

	out := cmd.OutOrStdout()
	executor := parallel.New(
		parallel.WithTaskTimeout(timeout),
		parallel.WithMaxConcurrency(maxConcurrency),
	)
	console := reporter.NewConsole(out, quiet)
	executor.OnStatusUpdate(console.StatusUpdate)

	if opts.serve != "" {
		token := opts.serveToken
		if token == "" {
			token = a.cfg.Server.Token
		}
		hub := server.NewHub(server.WithToken(token))
		executor.OnStatusUpdate(hub.Publish)
		go func() {
			if err := server.Serve(ctx, opts.serve, hub.Handler()); err != nil {
				logging.Error("CLI", err, "Status server stopped")
			}
		}()
		fmt.Fprintf(out, "📡 Streaming batch status on ws://%s/ws\n", opts.serve)
	}

	b := &batchRun{app: a, executor: executor, console: console, out: out, names: names, opts: opts}
	result, err := b.run(ctx)
	if err != nil {
		return err
	}
	if !opts.watch {
		return batchFailure(result)
	}
	return b.watch(ctx, result)
}

// batchRun executes one batch selection, possibly repeatedly in watch mode.
type batchRun struct {
	app      *app
	executor *parallel.Executor
	console  *reporter.Console
	out      io.Writer
	names    []string
	opts     batchOptions
}

func (b *batchRun) run(ctx context.Context) (*api.ParallelExecutionResult, error) {
	entries, err := b.app.registry.Filter(b.names, b.opts.tags)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no workflows selected")
	}

	if err := b.executor.Clear(); err != nil {
		return nil, err
	}
	b.console.Reset()
	for _, e := range entries {
		if err := b.executor.AddRunnable(e.Name, e.Build(b.app.env())); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(b.out, "🚀 Running %d workflows\n", len(entries))
	result := b.executor.ExecuteAll(ctx)

	for _, s := range result.Workflows {
		if s.Result != nil {
			b.app.tracker.Record(ctx, s.Result)
		}
	}

	fmt.Fprintln(b.out)
	reporter.RenderBatch(b.out, result)
	b.app.printRecommendations(ctx, b.out)

	err = writeExport(b.out, b.app.reportsDir(b.opts.outputDir), "batch", b.app.exportFormat(b.opts.export),
		b.executor.ExportToJSON, b.executor.ExportToCSV)
	return result, err
}

// watch re-runs the batch on every YAML change until ctx is done. The exit
// status follows the last completed batch.
func (b *batchRun) watch(ctx context.Context, last *api.ParallelExecutionResult) error {
	path := b.app.cfg.Scenarios.Path
	changes := make(chan struct{}, 1)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- scenario.Watch(ctx, path, b.app.cfg.Scenarios.Debounce.Std(), func(changed []string) {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}()

	fmt.Fprintf(b.out, "\n👀 Watching %s for changes (Ctrl+C to stop)\n", path)
	for {
		select {
		case <-ctx.Done():
			return batchFailure(last)
		case err := <-watchErr:
			if err != nil {
				return err
			}
			return batchFailure(last)
		case <-changes:
			n, err := b.app.registry.LoadPath(path)
			if err != nil {
				fmt.Fprintf(b.out, "❌ Reload failed: %v\n", err)
				continue
			}
			fmt.Fprintf(b.out, "\n🔄 Reloaded %d YAML workflows\n", n)
			result, err := b.run(ctx)
			if result != nil {
				last = result
			}
			if err != nil {
				fmt.Fprintf(b.out, "❌ %v\n", err)
			}
		}
	}
}

// batchFailure returns a FailureError when any workflow failed or finished
// with a status other than success.
func batchFailure(result *api.ParallelExecutionResult) error {
	if result == nil {
		return nil
	}
	failed := 0
	for _, s := range result.Workflows {
		if s.Status == api.TaskFailed || s.Result == nil || s.Result.FinalStatus != api.FinalSuccess {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return &FailureError{Failed: failed, Total: len(result.Workflows)}
}
