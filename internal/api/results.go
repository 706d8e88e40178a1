package api

import (
	"time"
)

// StepStatus is the outcome of one executed step.
type StepStatus string

const (
	// StepSuccess indicates the step action returned normally
	StepSuccess StepStatus = "success"
	// StepFailed indicates the step action returned an error or panicked
	StepFailed StepStatus = "failed"
	// StepSkipped indicates the step was not executed, or was optional and failed
	StepSkipped StepStatus = "skipped"
)

// FinalStatus is the overall outcome of a workflow run.
type FinalStatus string

const (
	// FinalSuccess means no step failed
	FinalSuccess FinalStatus = "success"
	// FinalFailed means at least one step failed and none passed
	FinalFailed FinalStatus = "failed"
	// FinalPartial means some steps passed and some failed
	FinalPartial FinalStatus = "partial"
)

// TimestampLayout is the ISO-8601 layout used for every exported timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// StepResult is one executed (or skipped) step. It is immutable once created
// and appended to its workflow's step list in execution order.
type StepResult struct {
	// Name identifies the step within its workflow
	Name string `json:"name"`
	// Status is success, failed or skipped
	Status StepStatus `json:"status"`
	// Duration is the wall-clock time of the step action in milliseconds
	Duration int64 `json:"duration"`
	// Error holds the error message for failed (or optional-failed) steps
	Error string `json:"error,omitempty"`
	// Data is whatever the step action returned; opaque to the harness
	Data interface{} `json:"data,omitempty"`
	// Optional marks steps whose failure does not count against the workflow
	Optional bool `json:"optional,omitempty"`
}

// WorkflowResult is the output of running one workflow.
type WorkflowResult struct {
	WorkflowName string       `json:"workflowName"`
	Steps        []StepResult `json:"steps"`
	TotalSteps   int          `json:"totalSteps"`
	Passed       int          `json:"passed"`
	Failed       int          `json:"failed"`
	Skipped      int          `json:"skipped"`
	// Duration is the wall-clock time of the whole run in milliseconds
	Duration    int64       `json:"duration"`
	Errors      []string    `json:"errors"`
	FinalStatus FinalStatus `json:"finalStatus"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
}

// FinalStatusFor derives the workflow status from the passed and failed
// counts: success iff failed == 0, failed iff passed == 0 and failed > 0,
// partial otherwise.
func FinalStatusFor(passed, failed int) FinalStatus {
	switch {
	case failed == 0:
		return FinalSuccess
	case passed == 0:
		return FinalFailed
	default:
		return FinalPartial
	}
}

// NewWorkflowResult builds a WorkflowResult from an ordered step list,
// deriving every count, the error list and the final status. The run
// duration is never reported shorter than the longest step.
func NewWorkflowResult(name string, steps []StepResult, start, end time.Time) *WorkflowResult {
	result := &WorkflowResult{
		WorkflowName: name,
		Steps:        append([]StepResult(nil), steps...),
		TotalSteps:   len(steps),
		Errors:       []string{},
		StartTime:    start,
		EndTime:      end,
	}
	if result.Steps == nil {
		result.Steps = []StepResult{}
	}

	var longest int64
	for _, step := range steps {
		switch step.Status {
		case StepSuccess:
			result.Passed++
		case StepFailed:
			result.Failed++
			result.Errors = append(result.Errors, step.Error)
		case StepSkipped:
			result.Skipped++
		}
		if step.Duration > longest {
			longest = step.Duration
		}
	}

	result.Duration = end.Sub(start).Milliseconds()
	if result.Duration < longest {
		result.Duration = longest
	}
	result.FinalStatus = FinalStatusFor(result.Passed, result.Failed)
	return result
}

// SuccessRate returns passed/totalSteps as a percentage, 0 for empty runs.
func (r *WorkflowResult) SuccessRate() float64 {
	if r == nil || r.TotalSteps == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.TotalSteps) * 100
}
