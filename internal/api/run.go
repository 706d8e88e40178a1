package api

import "time"

// RunMetadata describes where a workflow run happened.
type RunMetadata struct {
	User        string `json:"user,omitempty" yaml:"user,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
}

// WorkflowRun is a WorkflowResult tagged with an id and timestamp. It is the
// unit persisted in the run log and consumed by the analytics engine, and is
// never mutated after creation.
type WorkflowRun struct {
	ID           string         `json:"id"`
	WorkflowName string         `json:"workflowName"`
	Timestamp    time.Time      `json:"timestamp"`
	Result       WorkflowResult `json:"result"`
	Metadata     *RunMetadata   `json:"metadata,omitempty"`
}
