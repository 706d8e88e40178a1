// Package logging provides the structured, subsystem-tagged logger used
// across wfbench.
//
// It is a thin layer over log/slog: every record carries a "subsystem"
// attribute naming the component that produced it (Workflow, Parallel,
// RunLog, Marketplace, ...). Output is either text (CLI default) or JSON
// (one object per line, for CI log collection).
//
// # Usage
//
//	logging.Init(logging.Options{Level: logging.LevelInfo, Format: logging.FormatText, Output: os.Stderr})
//
//	logging.Info("Parallel", "Starting batch of %d workflows", n)
//	logging.Debug("Workflow", "Step %s finished in %dms", name, ms)
//	logging.Error("RunLog", err, "Failed to persist run %s", id)
//
// Until Init is called all log calls are dropped, which keeps library code
// silent in tests.
package logging
