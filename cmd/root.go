package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wfbench/internal/config"
	"wfbench/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates every workflow finished with status success.
	ExitCodeSuccess = 0
	// ExitCodeError indicates the command itself failed (bad arguments, config, storage).
	ExitCodeError = 1
	// ExitCodeWorkflowFailed indicates at least one workflow failed or finished partial.
	ExitCodeWorkflowFailed = 2
)

// FailureError reports workflows that did not finish with status success.
// The command output already describes them, so only the exit code matters.
type FailureError struct {
	Failed int
	Total  int
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("%d of %d workflows did not succeed", e.Failed, e.Total)
}

// global flags
var (
	configPath string
	debug      bool
	logFormat  string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command for wfbench.
var rootCmd = &cobra.Command{
	Use:   "wfbench",
	Short: "Run and compare end-to-end workflow tests against a marketplace API",
	Long: `wfbench runs multi-step business workflows (purchase, auction bidding,
returns, reviews, ...) against a marketplace API, alone or as a concurrent
batch, records every run and turns the run history into comparison reports
with recommendations.

Workflows are either built in or described in YAML files (see 'wfbench
validate'). Results can be exported as JSON or CSV.`,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "wfbench version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps command errors to exit codes.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var failure *FailureError
	if errors.As(err, &failure) {
		return ExitCodeWorkflowFailed
	}
	return ExitCodeError
}

func initLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if debug {
		level = logging.LevelDebug
	}
	format := logging.Format(logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return fmt.Errorf("unknown log format %q (expected text or json)", logFormat)
	}
	logging.Init(logging.Options{Level: level, Format: format, Output: cmd.ErrOrStderr()})
	return nil
}

func defaultConfigPath() string {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return ".wfbench"
	}
	return path
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", defaultConfigPath(), "Configuration directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error); --debug forces debug")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(logging.FormatText), "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print failures and the final summary")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newValidateCmd())
}
