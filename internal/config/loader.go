package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"wfbench/pkg/logging"
)

const (
	userConfigDir = ".config/wfbench"
	yamlFileName  = "wfbench.yaml"
	tomlFileName  = "wfbench.toml"
	runsDirName   = "runs"

	envPrefix = "WFBENCH_"
)

// DefaultConfigPath returns ~/.config/wfbench.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads the configuration from configPath. A missing directory
// or file yields the defaults; a file that exists but cannot be parsed or
// fails validation is an error.
func LoadConfig(configPath string) (Config, error) {
	config := GetDefaultConfig()

	loaded := false
	for _, name := range []string{yamlFileName, tomlFileName} {
		path := filepath.Join(configPath, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, &ConfigurationError{FilePath: path, ErrorType: ErrorTypeIO, Message: err.Error()}
		}

		if name == yamlFileName {
			err = yaml.Unmarshal(data, &config)
		} else {
			err = toml.Unmarshal(data, &config)
		}
		if err != nil {
			return Config{}, &ConfigurationError{FilePath: path, ErrorType: ErrorTypeParse, Message: err.Error()}
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", path)
		loaded = true
		break
	}
	if !loaded {
		logging.Debug("ConfigLoader", "No configuration file found in %s, using defaults", configPath)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return Config{}, err
	}
	if config.Storage.Path == "" {
		config.Storage.Path = filepath.Join(configPath, runsDirName)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// applyEnvOverrides applies WFBENCH_* environment variables.
func applyEnvOverrides(config *Config) error {
	setString := func(key string, target *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*target = v
		}
	}
	setString("API_URL", &config.API.BaseURL)
	setString("API_TOKEN", &config.API.Token)
	setString("ENVIRONMENT", &config.Metadata.Environment)
	setString("USER", &config.Metadata.User)
	setString("VERSION", &config.Metadata.Version)
	setString("STORAGE", &config.Storage.Backend)
	setString("STORAGE_PATH", &config.Storage.Path)
	setString("SCENARIOS", &config.Scenarios.Path)
	setString("REPORTS_DIR", &config.Reports.Dir)

	if v := os.Getenv(envPrefix + "MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigurationError{FilePath: envPrefix + "MAX_CONCURRENCY", ErrorType: ErrorTypeEnv, Message: err.Error()}
		}
		config.Execution.MaxConcurrency = n
	}
	if v := os.Getenv(envPrefix + "TASK_TIMEOUT"); v != "" {
		if err := config.Execution.TaskTimeout.UnmarshalText([]byte(v)); err != nil {
			return &ConfigurationError{FilePath: envPrefix + "TASK_TIMEOUT", ErrorType: ErrorTypeEnv, Message: err.Error()}
		}
	}
	return nil
}
