package workflow

import (
	"context"

	"wfbench/internal/api"
)

// StepObserver receives step lifecycle notifications. Implementations are
// called synchronously from the goroutine running the workflow and must not
// block.
type StepObserver interface {
	StepStarted(info StepInfo)
	StepFinished(info StepInfo, result api.StepResult)
}

// ObserverFuncs adapts plain functions to StepObserver. Nil fields are ignored.
type ObserverFuncs struct {
	Started  func(info StepInfo)
	Finished func(info StepInfo, result api.StepResult)
}

func (o ObserverFuncs) StepStarted(info StepInfo) {
	if o.Started != nil {
		o.Started(info)
	}
}

func (o ObserverFuncs) StepFinished(info StepInfo, result api.StepResult) {
	if o.Finished != nil {
		o.Finished(info, result)
	}
}

type observersKey struct{}

// WithObserver returns a context carrying obs in addition to any observers
// already present in ctx. Observers are notified in the order they were added.
func WithObserver(ctx context.Context, obs StepObserver) context.Context {
	if obs == nil {
		return ctx
	}
	existing := observersFrom(ctx)
	list := make([]StepObserver, 0, len(existing)+1)
	list = append(list, existing...)
	list = append(list, obs)
	return context.WithValue(ctx, observersKey{}, list)
}

func observersFrom(ctx context.Context) []StepObserver {
	if ctx == nil {
		return nil
	}
	list, _ := ctx.Value(observersKey{}).([]StepObserver)
	return list
}
