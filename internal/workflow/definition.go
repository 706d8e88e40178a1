package workflow

import (
	"context"

	"wfbench/internal/api"
	"wfbench/internal/clock"
)

// Step is one named action in a declarative Definition.
type Step struct {
	Name     string
	Optional bool
	Action   Action
}

// Definition is a workflow described up front as an ordered list of steps.
// Because the step count is known, observers receive running progress.
type Definition struct {
	Name  string
	Steps []Step
	// Clock overrides the real clock, mainly for tests
	Clock clock.Clock
}

// Run executes every step in order and returns the workflow result. Step
// failures are recorded and never stop the run, so the returned error is
// always nil.
func (d *Definition) Run(ctx context.Context) (*api.WorkflowResult, error) {
	w := New(d.Name, WithClock(d.Clock), WithExpectedSteps(len(d.Steps)))
	for _, step := range d.Steps {
		if step.Optional {
			w.ExecuteOptionalStep(ctx, step.Name, step.Action)
			continue
		}
		w.ExecuteStep(ctx, step.Name, step.Action)
	}
	result := w.Result()
	logSummary(result)
	return result, nil
}

// WorkflowName implements Runnable.
func (d *Definition) WorkflowName() string {
	return d.Name
}
