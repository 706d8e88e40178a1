package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultAPITimeout, cfg.API.Timeout.Std())
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 100, cfg.Storage.MaxRuns)
	assert.Equal(t, filepath.Join(dir, "runs"), cfg.Storage.Path)
	assert.Equal(t, 0, cfg.Execution.MaxConcurrency)
	assert.Equal(t, time.Duration(0), cfg.Execution.TaskTimeout.Std())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "wfbench.yaml", `
api:
  baseURL: https://staging.example.com/api/v1
  token: abc
  timeout: 5s
execution:
  maxConcurrency: 3
  taskTimeout: 2m
storage:
  backend: badger
  path: /tmp/wfbench-runs
  maxRuns: 50
metadata:
  environment: staging
scenarios:
  path: ./workflows
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "abc", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout.Std())
	assert.Equal(t, float64(DefaultRateLimit), cfg.API.RateLimit)
	assert.Equal(t, 3, cfg.Execution.MaxConcurrency)
	assert.Equal(t, 2*time.Minute, cfg.Execution.TaskTimeout.Std())
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/wfbench-runs", cfg.Storage.Path)
	assert.Equal(t, 50, cfg.Storage.MaxRuns)
	assert.Equal(t, "staging", cfg.Metadata.Environment)
	assert.Equal(t, "./workflows", cfg.Scenarios.Path)
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "wfbench.toml", `
[api]
base_url = "https://prod.example.com/api"
rate_limit = 2.5

[execution]
task_timeout = "45s"

[storage]
backend = "none"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://prod.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, 45*time.Second, cfg.Execution.TaskTimeout.Std())
	assert.Equal(t, "none", cfg.Storage.Backend)
}

func TestLoadConfig_YAMLWinsOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "wfbench.yaml", "metadata:\n  environment: from-yaml\n")
	writeConfig(t, dir, "wfbench.toml", "[metadata]\nenvironment = \"from-toml\"\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.Metadata.Environment)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "wfbench.yaml", "api:\n  baseURL: https://file.example.com\n")
	t.Setenv("WFBENCH_API_URL", "https://env.example.com")
	t.Setenv("WFBENCH_API_TOKEN", "env-token")
	t.Setenv("WFBENCH_ENVIRONMENT", "ci")
	t.Setenv("WFBENCH_MAX_CONCURRENCY", "8")
	t.Setenv("WFBENCH_TASK_TIMEOUT", "90s")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "env-token", cfg.API.Token)
	assert.Equal(t, "ci", cfg.Metadata.Environment)
	assert.Equal(t, 8, cfg.Execution.MaxConcurrency)
	assert.Equal(t, 90*time.Second, cfg.Execution.TaskTimeout.Std())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		env      map[string]string
		wantType string
	}{
		{name: "malformed yaml", file: "wfbench.yaml", content: "api: [", wantType: ErrorTypeParse},
		{name: "malformed toml", file: "wfbench.toml", content: "[api", wantType: ErrorTypeParse},
		{name: "bad duration", file: "wfbench.yaml", content: "api:\n  timeout: soon\n", wantType: ErrorTypeParse},
		{name: "bad backend", file: "wfbench.yaml", content: "storage:\n  backend: s3\n", wantType: ErrorTypeValidation},
		{name: "bad url", file: "wfbench.yaml", content: "api:\n  baseURL: not a url\n", wantType: ErrorTypeValidation},
		{name: "negative concurrency", file: "wfbench.yaml", content: "execution:\n  maxConcurrency: -1\n", wantType: ErrorTypeValidation},
		{name: "run log above cap", file: "wfbench.yaml", content: "storage:\n  maxRuns: 500\n", wantType: ErrorTypeValidation},
		{name: "bad env", env: map[string]string{"WFBENCH_MAX_CONCURRENCY": "many"}, wantType: ErrorTypeEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.file != "" {
				writeConfig(t, dir, tt.file, tt.content)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(dir)
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
			assert.Equal(t, tt.wantType, cfgErr.ErrorType)
		})
	}
}

func TestValidate_ListsFields(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.API.BaseURL = ""
	cfg.Storage.MaxRuns = 0

	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Fields, 2)
	assert.Contains(t, cfgErr.DetailedError(), "Config.API.BaseURL")
	assert.Contains(t, cfgErr.DetailedError(), "Config.Storage.MaxRuns")
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("later")))
}
