package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wfbench/internal/api"
	"wfbench/pkg/logging"
)

// Action is one unit of work inside a workflow. It returns opaque data on
// success; any returned error (or panic) fails the step.
type Action func(ctx context.Context) (interface{}, error)

// StepInfo identifies a step while it runs.
type StepInfo struct {
	Workflow string
	Name     string
	// Index is the zero-based position of the step in its workflow
	Index int
	// Total is the number of steps the workflow will run, 0 if unknown
	Total int
}

// invoke runs action and converts panics into errors so nothing escapes the
// step boundary.
func invoke(ctx context.Context, action Action) (data interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()
	if action == nil {
		return nil, fmt.Errorf("step has no action")
	}
	return action(ctx)
}

func logStepStarted(subsystem string, info StepInfo) {
	logging.Attrs(logging.LevelDebug, subsystem, "step started",
		slog.String("workflow", info.Workflow),
		slog.String("step", info.Name),
		slog.Int("index", info.Index),
	)
}

func logStepFinished(subsystem string, info StepInfo, result api.StepResult) {
	level := logging.LevelDebug
	if result.Status == api.StepFailed {
		level = logging.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("workflow", info.Workflow),
		slog.String("step", info.Name),
		slog.String("status", string(result.Status)),
		logging.Millis("durationMs", time.Duration(result.Duration)*time.Millisecond),
	}
	if result.Error != "" {
		attrs = append(attrs, slog.String("error", result.Error))
	}
	logging.Attrs(level, subsystem, "step finished", attrs...)
}
