package workflow

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"wfbench/internal/api"
	"wfbench/internal/clock"
	"wfbench/pkg/logging"

	"github.com/google/uuid"
)

// Runnable is anything that runs as one workflow and produces a result.
// A non-nil error means the workflow itself broke, as opposed to one of its
// steps failing; the result may still carry the steps recorded so far.
type Runnable interface {
	WorkflowName() string
	Run(ctx context.Context) (*api.WorkflowResult, error)
}

// Body is the code of a scripted workflow. It drives w step by step and may
// keep any typed state it needs between steps in local variables.
type Body func(ctx context.Context, w *Workflow) error

// Scripted is a workflow whose steps are issued imperatively by a Body.
type Scripted struct {
	name string
	body Body
	opts []Option
}

// Script creates a scripted workflow. Options are applied to the Workflow
// created for every run.
func Script(name string, body Body, opts ...Option) *Scripted {
	return &Scripted{name: name, body: body, opts: opts}
}

// WorkflowName implements Runnable.
func (s *Scripted) WorkflowName() string {
	return s.name
}

// Run creates a fresh Workflow, runs the body against it and returns the
// result. A panic or error from the body is returned as an error together
// with the partial result.
func (s *Scripted) Run(ctx context.Context) (result *api.WorkflowResult, err error) {
	w := New(s.name, s.opts...)
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Workflow", fmt.Errorf("%v", r), "workflow %s panicked\n%s", s.name, debug.Stack())
			result = w.Result()
			err = fmt.Errorf("workflow %s panicked: %v", s.name, r)
		}
	}()

	if s.body == nil {
		return w.Result(), fmt.Errorf("workflow %s has no body", s.name)
	}
	if err := s.body(ctx, w); err != nil {
		return w.Result(), fmt.Errorf("workflow %s aborted: %w", s.name, err)
	}

	result = w.Result()
	logSummary(result)
	return result, nil
}

// Run runs r and guarantees that a panic escaping it is returned as an
// error instead of crashing the process.
func Run(ctx context.Context, r Runnable) (result *api.WorkflowResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("workflow %s panicked: %v", r.WorkflowName(), rec)
		}
	}()
	return r.Run(ctx)
}

// NewRun wraps a finished result into a WorkflowRun with a fresh id and the
// current timestamp.
func NewRun(result *api.WorkflowResult, metadata *api.RunMetadata) *api.WorkflowRun {
	return newRunAt(result, metadata, time.Now())
}

// NewRunWithClock is NewRun with the timestamp taken from c.
func NewRunWithClock(result *api.WorkflowResult, metadata *api.RunMetadata, c clock.Clock) *api.WorkflowRun {
	return newRunAt(result, metadata, clock.OrReal(c).Now())
}

func newRunAt(result *api.WorkflowResult, metadata *api.RunMetadata, ts time.Time) *api.WorkflowRun {
	run := &api.WorkflowRun{
		ID:        uuid.New().String(),
		Timestamp: ts.UTC(),
		Metadata:  metadata,
	}
	if result != nil {
		run.WorkflowName = result.WorkflowName
		run.Result = *result
	}
	return run
}

func logSummary(result *api.WorkflowResult) {
	logging.Info("Workflow", "workflow %s finished with status %s: %d passed, %d failed, %d skipped in %dms",
		result.WorkflowName, result.FinalStatus, result.Passed, result.Failed, result.Skipped, result.Duration)
}
