package api

import "time"

// TaskStatus is the lifecycle state of one workflow inside a parallel batch.
// Transitions are pending -> running -> completed|failed only.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether s is completed or failed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// ParallelWorkflowStatus is the live or final state of one workflow in a batch.
type ParallelWorkflowStatus struct {
	WorkflowID   string     `json:"workflowId"`
	WorkflowName string     `json:"workflowName"`
	Status       TaskStatus `json:"status"`
	// Progress is 0-100 and never decreases while running
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"currentStep"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	// Duration is endTime-startTime in milliseconds, set only at terminal state
	Duration *int64 `json:"duration,omitempty"`
	// Result is present iff Status == completed and is never mutated once set
	Result *WorkflowResult `json:"result,omitempty"`
	// Error is present iff Status == failed
	Error string `json:"error,omitempty"`
}

// Clone returns a copy that shares no mutable pointers with s, except the
// immutable Result.
func (s ParallelWorkflowStatus) Clone() ParallelWorkflowStatus {
	c := s
	if s.StartTime != nil {
		t := *s.StartTime
		c.StartTime = &t
	}
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	if s.Duration != nil {
		d := *s.Duration
		c.Duration = &d
	}
	return c
}

// AggregateStats sums step counts over the results of completed workflows
// and identifies the fastest and slowest workflow by duration.
type AggregateStats struct {
	TotalSteps   int `json:"totalSteps"`
	PassedSteps  int `json:"passedSteps"`
	FailedSteps  int `json:"failedSteps"`
	SkippedSteps int `json:"skippedSteps"`
	// SuccessRate is passedSteps/totalSteps*100, 0 when there are no steps
	SuccessRate float64 `json:"successRate"`
	// AverageDuration is the mean duration in ms over every timed workflow
	AverageDuration float64 `json:"averageDuration"`
	FastestWorkflow string  `json:"fastestWorkflow"`
	SlowestWorkflow string  `json:"slowestWorkflow"`
}

// NotAvailable is reported for fastest/slowest when no workflow has a duration.
const NotAvailable = "N/A"

// ParallelExecutionResult aggregates one batch.
type ParallelExecutionResult struct {
	BatchID        string `json:"batchId"`
	TotalWorkflows int    `json:"totalWorkflows"`
	Completed      int    `json:"completed"`
	Failed         int    `json:"failed"`
	// TotalDuration is the wall-clock time of the whole batch in milliseconds
	TotalDuration  int64                    `json:"totalDuration"`
	StartedAt      time.Time                `json:"startedAt"`
	Workflows      []ParallelWorkflowStatus `json:"workflows"`
	AggregateStats AggregateStats           `json:"aggregateStats"`
}
