// Package config loads wfbench settings.
//
// Settings come from, in increasing priority: built-in defaults, a
// wfbench.yaml or wfbench.toml file in the configuration directory
// (~/.config/wfbench unless --config-path is given), and WFBENCH_*
// environment variables. Command-line flags are applied on top by the
// commands themselves.
//
// Example wfbench.yaml:
//
//	api:
//	  baseURL: https://staging.example.com/api/v1
//	  timeout: 30s
//	  rateLimit: 20
//	execution:
//	  maxConcurrency: 4
//	  taskTimeout: 2m
//	storage:
//	  backend: badger
//	metadata:
//	  environment: staging
//	scenarios:
//	  path: ./workflows
package config
