package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wfbench/internal/analytics"
	"wfbench/internal/api"
	"wfbench/internal/config"
	"wfbench/internal/export"
	"wfbench/internal/marketplace"
	"wfbench/internal/runlog"
	"wfbench/internal/scenario"
	"wfbench/internal/workflow"
	"wfbench/pkg/logging"
)

// app bundles everything a command needs, built from the loaded configuration.
type app struct {
	cfg      config.Config
	registry *scenario.Registry
	client   *marketplace.Client
	backend  runlog.Backend
	runs     *runlog.RunLog
	tracker  *workflow.ExecutionTracker
}

// flags overriding configuration for every command
var (
	apiURL        string
	scenariosPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Marketplace API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&scenariosPath, "scenarios", "", "File or directory of YAML workflows (overrides config)")
}

func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if scenariosPath != "" {
		cfg.Scenarios.Path = scenariosPath
	}

	backend, err := runlog.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	registry := scenario.DefaultRegistry()
	if cfg.Scenarios.Path != "" {
		n, err := registry.LoadPath(cfg.Scenarios.Path)
		if err != nil {
			if backend != nil {
				_ = backend.Close()
			}
			return nil, err
		}
		logging.Debug("CLI", "Loaded %d YAML workflows from %s", n, cfg.Scenarios.Path)
	}

	version := cfg.Metadata.Version
	if version == "" {
		version = GetVersion()
	}
	metadata := &api.RunMetadata{
		User:        cfg.Metadata.User,
		Environment: cfg.Metadata.Environment,
		Version:     version,
	}

	runs := runlog.New(backend, runlog.WithCapacity(cfg.Storage.MaxRuns))
	return &app{
		cfg:      cfg,
		registry: registry,
		client: marketplace.NewClient(cfg.API.BaseURL,
			marketplace.WithToken(cfg.API.Token),
			marketplace.WithTimeout(cfg.API.Timeout.Std()),
			marketplace.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		),
		backend: backend,
		runs:    runs,
		tracker: workflow.NewExecutionTracker(runs, metadata, nil),
	}, nil
}

func (a *app) env() scenario.Env {
	return scenario.Env{Client: a.client}
}

func (a *app) Close() {
	if a.backend == nil {
		return
	}
	if err := a.backend.Close(); err != nil {
		logging.Warn("CLI", "Failed to close run log: %v", err)
	}
}

// printRecommendations prints the comparison engine's advice over the whole
// run history.
func (a *app) printRecommendations(ctx context.Context, out io.Writer) {
	runs, err := a.runs.List(ctx)
	if err != nil {
		logging.Warn("CLI", "Failed to read run history: %v", err)
		return
	}
	if len(runs) == 0 {
		return
	}
	report := analytics.GenerateComparisonReport(runs)
	fmt.Fprintf(out, "\n💡 Recommendations (%d recorded runs):\n", len(runs))
	for _, rec := range report.Recommendations {
		fmt.Fprintf(out, "   • %s\n", rec)
	}
}

// reportsDir returns the --output-dir flag or the configured reports directory.
func (a *app) reportsDir(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Reports.Dir
}

// exportFormat returns the --export flag or the configured default format.
func (a *app) exportFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Reports.Format
}

func checkExportFormat(format string) error {
	switch format {
	case "", "json", "csv":
		return nil
	default:
		return fmt.Errorf("unknown export format %q (expected json or csv)", format)
	}
}

// writeExport renders and writes an export file and prints where it went.
func writeExport(out io.Writer, dir, prefix, format string, toJSON func() ([]byte, error), toCSV func() (string, error)) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "":
		return nil
	case "json":
		data, err = toJSON()
	case "csv":
		var s string
		s, err = toCSV()
		data = []byte(s)
	default:
		return checkExportFormat(format)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s export: %w", format, err)
	}

	path, err := export.WriteFile(dir, prefix, format, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "📄 Exported %s\n", path)
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func completeWorkflowNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return scenario.DefaultRegistry().Names(), cobra.ShellCompDirectiveNoFileComp
}
