package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"wfbench/internal/api"
	"wfbench/internal/workflow"
)

func TestConsole_StepFinished(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	info := workflow.StepInfo{Workflow: "purchase-flow", Name: "Pay", Index: 4, Total: 7}

	c.StepStarted(info)
	assert.Empty(t, buf.String())

	c.StepFinished(info, api.StepResult{Name: "Pay", Status: api.StepSuccess, Duration: 12})
	c.StepFinished(info, api.StepResult{Name: "Notify", Status: api.StepSkipped, Optional: true, Error: "mailer down"})
	c.StepFinished(info, api.StepResult{Name: "Verify", Status: api.StepFailed, Duration: 3, Error: "order not paid"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "✅ [purchase-flow] Pay (12ms)")
	assert.Contains(t, lines[1], "⏭️ [purchase-flow] Notify")
	assert.Contains(t, lines[1], "mailer down")
	assert.Contains(t, lines[2], "❌ [purchase-flow] Verify (3ms)")
	assert.Contains(t, lines[2], "order not paid")
}

func TestConsole_QuietPrintsFailuresOnly(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	info := workflow.StepInfo{Workflow: "w"}

	c.StepFinished(info, api.StepResult{Name: "ok", Status: api.StepSuccess})
	c.StepFinished(info, api.StepResult{Name: "opt", Status: api.StepSkipped, Optional: true, Error: "x"})
	assert.Empty(t, buf.String())

	c.StepFinished(info, api.StepResult{Name: "bad", Status: api.StepFailed, Error: "boom"})
	assert.Contains(t, buf.String(), "bad")

	buf.Reset()
	c.StatusUpdate([]api.ParallelWorkflowStatus{
		{WorkflowID: "1", WorkflowName: "a", Status: api.TaskRunning},
		{WorkflowID: "2", WorkflowName: "b", Status: api.TaskCompleted},
	})
	assert.Empty(t, buf.String())

	c.StatusUpdate([]api.ParallelWorkflowStatus{
		{WorkflowID: "1", WorkflowName: "a", Status: api.TaskFailed, Error: "timed out"},
	})
	assert.Contains(t, buf.String(), "❌ a failed")
}

func TestConsole_StatusUpdatePrintsTransitionsOnly(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	d := int64(250)

	pending := []api.ParallelWorkflowStatus{{WorkflowID: "1", WorkflowName: "a", Status: api.TaskPending}}
	running := []api.ParallelWorkflowStatus{{WorkflowID: "1", WorkflowName: "a", Status: api.TaskRunning, Progress: 50}}
	done := []api.ParallelWorkflowStatus{{
		WorkflowID: "1", WorkflowName: "a", Status: api.TaskCompleted, Duration: &d,
		Result: &api.WorkflowResult{FinalStatus: api.FinalPartial, Passed: 1, TotalSteps: 2},
	}}

	c.StatusUpdate(pending)
	c.StatusUpdate(running)
	c.StatusUpdate(running)
	c.StatusUpdate(done)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "🚀 a started")
	assert.Contains(t, lines[1], "✅ a completed in 250ms")
	assert.Contains(t, lines[1], "1/2 steps passed")

	c.Reset()
	buf.Reset()
	c.StatusUpdate(done)
	assert.Contains(t, buf.String(), "a completed")
}

func TestIcons(t *testing.T) {
	assert.Equal(t, "✅", StepIcon(api.StepResult{Status: api.StepSuccess}))
	assert.Equal(t, "❌", StepIcon(api.StepResult{Status: api.StepFailed}))
	assert.Equal(t, "⏭️", StepIcon(api.StepResult{Status: api.StepSkipped}))
	assert.Equal(t, "✅", FinalIcon(api.FinalSuccess))
	assert.Equal(t, "⚠️", FinalIcon(api.FinalPartial))
	assert.Equal(t, "❌", FinalIcon(api.FinalFailed))
}
