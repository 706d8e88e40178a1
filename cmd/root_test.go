package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	assert.Equal(t, testVersion, rootCmd.Version)
	assert.Equal(t, testVersion, GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "wfbench", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "wfbench version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})

	assert.NoError(t, testCmd.Execute())
	assert.Equal(t, "wfbench version 1.0.0\n", buf.String())
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, expected := range []string{"version", "run", "batch", "compare", "runs", "list", "validate"} {
		assert.True(t, found[expected], "expected subcommand %s", expected)
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config-path", "debug", "log-format", "log-level", "quiet", "api-url", "scenarios"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "expected flag --%s", name)
	}
	assert.Equal(t, "q", rootCmd.PersistentFlags().Lookup("quiet").Shorthand)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"plain error", errors.New("boom"), ExitCodeError},
		{"workflow failure", &FailureError{Failed: 1, Total: 3}, ExitCodeWorkflowFailed},
		{"wrapped failure", fmt.Errorf("batch: %w", &FailureError{Failed: 2, Total: 2}), ExitCodeWorkflowFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestFailureErrorMessage(t *testing.T) {
	err := &FailureError{Failed: 1, Total: 4}
	assert.Equal(t, "1 of 4 workflows did not succeed", err.Error())
}

func TestCheckExportFormat(t *testing.T) {
	assert.NoError(t, checkExportFormat(""))
	assert.NoError(t, checkExportFormat("json"))
	assert.NoError(t, checkExportFormat("csv"))
	assert.EqualError(t, checkExportFormat("xml"), `unknown export format "xml" (expected json or csv)`)
}
