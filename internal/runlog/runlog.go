package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"wfbench/internal/api"
	"wfbench/pkg/logging"
)

const (
	// RunLogKey is the backend key holding the run list
	RunLogKey = "workflow_runs"
	// MaxRuns is the number of runs retained; older runs are evicted first
	MaxRuns = 100
)

// RunLog is an append-only, bounded list of workflow runs persisted as one
// JSON array. With a nil backend every operation is a no-op.
type RunLog struct {
	backend  Backend
	capacity int

	// mu guards the read-modify-write cycle of Append and Clear
	mu sync.Mutex
}

// Option configures a RunLog.
type Option func(*RunLog)

// WithCapacity lowers the number of retained runs. Values outside
// 1..MaxRuns leave the capacity at MaxRuns.
func WithCapacity(n int) Option {
	return func(l *RunLog) {
		if n > 0 && n <= MaxRuns {
			l.capacity = n
		}
	}
}

// New creates a run log over backend, which may be nil.
func New(backend Backend, opts ...Option) *RunLog {
	l := &RunLog{backend: backend, capacity: MaxRuns}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enabled reports whether runs are persisted.
func (l *RunLog) Enabled() bool {
	return l != nil && l.backend != nil
}

// Append adds run as the newest entry, evicting the oldest entries beyond
// the capacity.
func (l *RunLog) Append(ctx context.Context, run *api.WorkflowRun) error {
	if !l.Enabled() || run == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	runs, err := l.load(ctx)
	if err != nil {
		return err
	}
	runs = append(runs, *run)
	if over := len(runs) - l.capacity; over > 0 {
		runs = runs[over:]
		logging.Debug("RunLog", "Evicted %d old runs", over)
	}
	return l.save(ctx, runs)
}

// List returns every stored run, oldest first.
func (l *RunLog) List(ctx context.Context) ([]api.WorkflowRun, error) {
	if !l.Enabled() {
		return []api.WorkflowRun{}, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// ForWorkflow returns the stored runs of one workflow, oldest first.
func (l *RunLog) ForWorkflow(ctx context.Context, name string) ([]api.WorkflowRun, error) {
	runs, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.WorkflowRun, 0, len(runs))
	for _, run := range runs {
		if run.WorkflowName == name {
			out = append(out, run)
		}
	}
	return out, nil
}

// Clear removes every stored run.
func (l *RunLog) Clear(ctx context.Context) error {
	if !l.Enabled() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(ctx, []api.WorkflowRun{})
}

func (l *RunLog) load(ctx context.Context) ([]api.WorkflowRun, error) {
	data, err := l.backend.Load(ctx, RunLogKey)
	if errors.Is(err, ErrNotFound) {
		return []api.WorkflowRun{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run log: %w", err)
	}

	runs := []api.WorkflowRun{}
	if len(data) == 0 {
		return runs, nil
	}
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode run log: %w", err)
	}
	return runs, nil
}

func (l *RunLog) save(ctx context.Context, runs []api.WorkflowRun) error {
	data, err := json.Marshal(runs)
	if err != nil {
		return fmt.Errorf("failed to encode run log: %w", err)
	}
	if err := l.backend.Save(ctx, RunLogKey, data); err != nil {
		return fmt.Errorf("failed to save run log: %w", err)
	}
	return nil
}
