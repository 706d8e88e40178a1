package workflow

import (
	"context"
	"sync"
	"time"

	"wfbench/internal/api"
	"wfbench/internal/clock"
	"wfbench/pkg/logging"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithClock sets the clock used to time steps and the whole run.
func WithClock(c clock.Clock) Option {
	return func(w *Workflow) {
		w.clock = clock.OrReal(c)
	}
}

// WithLogger sets the logging subsystem step records are written under.
func WithLogger(subsystem string) Option {
	return func(w *Workflow) {
		if subsystem != "" {
			w.subsystem = subsystem
		}
	}
}

// WithExpectedSteps tells observers how many steps the workflow will run so
// they can report progress.
func WithExpectedSteps(n int) Option {
	return func(w *Workflow) {
		if n > 0 {
			w.expected = n
		}
	}
}

// Workflow accumulates the ordered step results of one business scenario.
// Steps execute one at a time in call order; a failed step never stops the
// workflow.
type Workflow struct {
	name      string
	clock     clock.Clock
	subsystem string
	expected  int
	started   time.Time

	mu    sync.Mutex
	steps []api.StepResult
}

// New creates an empty workflow. The run start time is taken here.
func New(name string, opts ...Option) *Workflow {
	w := &Workflow{
		name:      name,
		clock:     clock.Real{},
		subsystem: "Workflow",
	}
	for _, opt := range opts {
		opt(w)
	}
	w.started = w.clock.Now()
	return w
}

// Name returns the workflow name.
func (w *Workflow) Name() string {
	return w.name
}

// ExecuteStep runs action, times it and records the outcome. The returned
// StepResult is also appended to the workflow. Errors and panics from the
// action are recorded as a failed step and never propagated.
func (w *Workflow) ExecuteStep(ctx context.Context, name string, action Action) api.StepResult {
	return w.execute(ctx, name, false, action)
}

// ExecuteOptionalStep is ExecuteStep for steps that may legitimately be
// unavailable. A failure is recorded as skipped with its error message kept,
// so it never turns the workflow's final status away from success.
func (w *Workflow) ExecuteOptionalStep(ctx context.Context, name string, action Action) api.StepResult {
	return w.execute(ctx, name, true, action)
}

// SkipStep records a step that was not executed, typically because a step
// it depends on already failed.
func (w *Workflow) SkipStep(ctx context.Context, name, reason string) api.StepResult {
	info := w.info(name)
	result := api.StepResult{
		Name:   name,
		Status: api.StepSkipped,
		Error:  reason,
	}
	w.record(result)
	logging.Debug(w.subsystem, "step %s of %s skipped: %s", name, w.name, reason)
	for _, obs := range observersFrom(ctx) {
		obs.StepFinished(info, result)
	}
	return result
}

func (w *Workflow) execute(ctx context.Context, name string, optional bool, action Action) api.StepResult {
	if ctx == nil {
		ctx = context.Background()
	}
	info := w.info(name)
	observers := observersFrom(ctx)

	logStepStarted(w.subsystem, info)
	for _, obs := range observers {
		obs.StepStarted(info)
	}

	start := w.clock.Now()
	data, err := invoke(ctx, action)
	end := w.clock.Now()

	result := api.StepResult{
		Name:     name,
		Status:   api.StepSuccess,
		Duration: clock.Millis(start, end),
		Optional: optional,
	}
	if err != nil {
		result.Status = api.StepFailed
		result.Error = err.Error()
		if optional {
			result.Status = api.StepSkipped
		}
	} else {
		result.Data = data
	}

	w.record(result)
	logStepFinished(w.subsystem, info, result)
	for _, obs := range observers {
		obs.StepFinished(info, result)
	}
	return result
}

func (w *Workflow) info(name string) StepInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return StepInfo{
		Workflow: w.name,
		Name:     name,
		Index:    len(w.steps),
		Total:    w.expected,
	}
}

func (w *Workflow) record(result api.StepResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.steps = append(w.steps, result)
}

// Steps returns a copy of the steps recorded so far.
func (w *Workflow) Steps() []api.StepResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]api.StepResult(nil), w.steps...)
}

// Result computes the WorkflowResult from the steps recorded so far. It may
// be called more than once; each call measures the run up to now.
func (w *Workflow) Result() *api.WorkflowResult {
	return api.NewWorkflowResult(w.name, w.Steps(), w.started, w.clock.Now())
}
