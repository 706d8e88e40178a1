package parallel

import (
	"math"

	"wfbench/internal/api"
	"wfbench/internal/workflow"
)

// progressObserver feeds step notifications of one task back into its status.
type progressObserver struct {
	executor *Executor
	id       string
}

func (p *progressObserver) StepStarted(info workflow.StepInfo) {
	p.executor.stepProgress(p.id, info.Name, 0)
}

func (p *progressObserver) StepFinished(info workflow.StepInfo, result api.StepResult) {
	if info.Total <= 0 {
		return
	}
	p.executor.stepProgress(p.id, "", percent(info.Index+1, info.Total))
}

// progressOf derives the terminal progress of a completed workflow.
func progressOf(result *api.WorkflowResult) int {
	if result == nil || result.TotalSteps == 0 {
		return 0
	}
	return percent(result.Passed, result.TotalSteps)
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return clamp(int(math.Round(float64(part) / float64(total) * 100)))
}

func clamp(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
