package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete wfbench configuration.
type Config struct {
	API       APIConfig       `yaml:"api" toml:"api"`
	Execution ExecutionConfig `yaml:"execution" toml:"execution"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Reports   ReportsConfig   `yaml:"reports" toml:"reports"`
	Metadata  MetadataConfig  `yaml:"metadata" toml:"metadata"`
	Scenarios ScenariosConfig `yaml:"scenarios" toml:"scenarios"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
}

// APIConfig points wfbench at the marketplace under test.
type APIConfig struct {
	BaseURL string   `yaml:"baseURL" toml:"base_url" validate:"required,url"`
	Token   string   `yaml:"token,omitempty" toml:"token"`
	Timeout Duration `yaml:"timeout" toml:"timeout" validate:"gte=0"`
	// RateLimit is in requests per second; 0 disables limiting
	RateLimit float64 `yaml:"rateLimit" toml:"rate_limit" validate:"gte=0"`
	Burst     int     `yaml:"burst" toml:"burst" validate:"gte=0"`
}

// ExecutionConfig controls batch execution.
type ExecutionConfig struct {
	// MaxConcurrency of 0 runs every workflow of a batch at once
	MaxConcurrency int `yaml:"maxConcurrency" toml:"max_concurrency" validate:"gte=0"`
	// TaskTimeout of 0 lets workflows run until they finish
	TaskTimeout Duration `yaml:"taskTimeout" toml:"task_timeout" validate:"gte=0"`
}

// StorageConfig selects the run log backend.
type StorageConfig struct {
	Backend string `yaml:"backend" toml:"backend" validate:"oneof=file badger none"`
	// Path defaults to <config dir>/runs
	Path    string `yaml:"path" toml:"path"`
	MaxRuns int    `yaml:"maxRuns" toml:"max_runs" validate:"gte=1,lte=100"`
}

// ReportsConfig controls exported files.
type ReportsConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Format string `yaml:"format,omitempty" toml:"format" validate:"omitempty,oneof=json csv"`
}

// MetadataConfig is attached to every recorded run.
type MetadataConfig struct {
	User        string `yaml:"user,omitempty" toml:"user"`
	Environment string `yaml:"environment,omitempty" toml:"environment"`
	Version     string `yaml:"version,omitempty" toml:"version"`
}

// ScenariosConfig locates YAML workflow definitions.
type ScenariosConfig struct {
	Path     string   `yaml:"path,omitempty" toml:"path"`
	Debounce Duration `yaml:"debounce" toml:"debounce" validate:"gte=0"`
}

// ServerConfig configures the batch status server.
type ServerConfig struct {
	Addr  string `yaml:"addr,omitempty" toml:"addr"`
	Token string `yaml:"token,omitempty" toml:"token"`
}

// Duration is a time.Duration written as "30s" or "2m" in config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalText is used by the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText writes the duration in time.Duration notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML accepts a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
