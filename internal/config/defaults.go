package config

import (
	"os"
	"time"

	"wfbench/internal/runlog"
)

const (
	// DefaultBaseURL is the marketplace API used when nothing is configured.
	DefaultBaseURL = "http://localhost:3000/api"

	DefaultAPITimeout = 30 * time.Second
	DefaultRateLimit  = 10
	DefaultBurst      = 5
	DefaultDebounce   = 500 * time.Millisecond
	DefaultServeAddr  = "localhost:8089"
	DefaultReportsDir = "."
)

// GetDefaultConfig returns the configuration used when no file exists.
func GetDefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   Duration(DefaultAPITimeout),
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
		},
		Storage: StorageConfig{
			Backend: runlog.KindFile,
			MaxRuns: runlog.MaxRuns,
		},
		Reports: ReportsConfig{
			Dir: DefaultReportsDir,
		},
		Metadata: MetadataConfig{
			User:        os.Getenv("USER"),
			Environment: "development",
		},
		Scenarios: ScenariosConfig{
			Debounce: Duration(DefaultDebounce),
		},
		Server: ServerConfig{
			Addr: DefaultServeAddr,
		},
	}
}
