// Package runlog persists finished workflow runs for later comparison.
//
// The log is a single JSON array of WorkflowRun stored under RunLogKey and
// capped at MaxRuns entries; appending beyond the cap evicts the oldest
// runs. Storage is pluggable: a directory of JSON files, an embedded Badger
// database, or memory. A RunLog without a backend silently does nothing and
// lists no runs.
package runlog
