package workflow

import (
	"context"
	"sync"

	"wfbench/internal/api"
	"wfbench/internal/clock"
	"wfbench/pkg/logging"
)

// RunStore persists finished workflow runs.
type RunStore interface {
	Append(ctx context.Context, run *api.WorkflowRun) error
}

// ExecutionTracker runs workflows and records every finished run.
// Storage failures are logged and never change the outcome of the run.
type ExecutionTracker struct {
	store    RunStore
	metadata *api.RunMetadata
	clock    clock.Clock

	mu   sync.RWMutex
	last *api.WorkflowRun
}

// NewExecutionTracker creates a tracker. A nil store disables persistence.
func NewExecutionTracker(store RunStore, metadata *api.RunMetadata, c clock.Clock) *ExecutionTracker {
	return &ExecutionTracker{
		store:    store,
		metadata: metadata,
		clock:    clock.OrReal(c),
	}
}

// TrackExecution runs r through Run and, when a result is available, wraps it
// into a WorkflowRun and appends it to the store.
//
// Returns:
//   - *api.WorkflowResult: the result of the run, possibly partial
//   - *api.WorkflowRun: the recorded run, nil if the workflow produced no result
//   - error: the workflow-level error, if any
func (et *ExecutionTracker) TrackExecution(ctx context.Context, r Runnable) (*api.WorkflowResult, *api.WorkflowRun, error) {
	logging.Debug("ExecutionTracker", "Starting execution tracking for workflow %s", r.WorkflowName())

	result, err := Run(ctx, r)
	if err != nil {
		logging.Debug("ExecutionTracker", "Workflow %s failed: %v", r.WorkflowName(), err)
	}
	if result == nil {
		return nil, nil, err
	}

	run := et.Record(ctx, result)
	return result, run, err
}

// Record wraps result into a WorkflowRun and persists it.
func (et *ExecutionTracker) Record(ctx context.Context, result *api.WorkflowResult) *api.WorkflowRun {
	run := NewRunWithClock(result, et.metadata, et.clock)

	if et.store != nil {
		if err := et.store.Append(ctx, run); err != nil {
			logging.Warn("ExecutionTracker", "Failed to store run %s of workflow %s: %v", run.ID, run.WorkflowName, err)
		}
	}

	et.mu.Lock()
	et.last = run
	et.mu.Unlock()

	logging.Debug("ExecutionTracker", "Recorded run %s for workflow %s (status: %s, duration: %dms)",
		run.ID, run.WorkflowName, run.Result.FinalStatus, run.Result.Duration)
	return run
}

// Last returns the most recently recorded run, or nil.
func (et *ExecutionTracker) Last() *api.WorkflowRun {
	et.mu.RLock()
	defer et.mu.RUnlock()
	return et.last
}
