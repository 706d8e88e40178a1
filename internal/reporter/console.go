package reporter

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"

	"wfbench/internal/api"
	"wfbench/internal/workflow"
	"wfbench/pkg/strings"
)

// Console writes step and batch progress lines. In quiet mode only failures
// are printed.
type Console struct {
	out   io.Writer
	quiet bool

	mu   sync.Mutex
	seen map[string]api.TaskStatus
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer, quiet bool) *Console {
	return &Console{out: out, quiet: quiet, seen: make(map[string]api.TaskStatus)}
}

var _ workflow.StepObserver = (*Console)(nil)

// StepStarted implements workflow.StepObserver. Starts are not printed; the
// run command shows the current step in its spinner.
func (c *Console) StepStarted(workflow.StepInfo) {}

// StepFinished implements workflow.StepObserver.
func (c *Console) StepFinished(info workflow.StepInfo, result api.StepResult) {
	if c.quiet && result.Status != api.StepFailed {
		return
	}

	line := fmt.Sprintf("%s [%s] %s (%dms)", StepIcon(result), info.Workflow, result.Name, result.Duration)
	if result.Optional && result.Status == api.StepSkipped {
		line += text.FgHiBlack.Sprint(" optional")
	}
	if result.Error != "" {
		line += ": " + colorFor(result.Status).Sprint(strings.Truncate(result.Error, strings.LineMaxLen))
	}
	c.println(line)
}

// StatusUpdate prints the workflows whose status changed since the last
// call. Its signature matches parallel.StatusObserver.
func (c *Console) StatusUpdate(statuses []api.ParallelWorkflowStatus) {
	c.mu.Lock()
	var lines []string
	for _, s := range statuses {
		if c.seen[s.WorkflowID] == s.Status {
			continue
		}
		c.seen[s.WorkflowID] = s.Status
		if line := c.transition(s); line != "" {
			lines = append(lines, line)
		}
	}
	c.mu.Unlock()

	for _, line := range lines {
		c.println(line)
	}
}

func (c *Console) transition(s api.ParallelWorkflowStatus) string {
	switch s.Status {
	case api.TaskRunning:
		if c.quiet {
			return ""
		}
		return fmt.Sprintf("🚀 %s started", s.WorkflowName)
	case api.TaskCompleted:
		if c.quiet {
			return ""
		}
		line := fmt.Sprintf("✅ %s completed", s.WorkflowName)
		if s.Duration != nil {
			line += fmt.Sprintf(" in %dms", *s.Duration)
		}
		if s.Result != nil && s.Result.FinalStatus != api.FinalSuccess {
			line += text.FgYellow.Sprintf(" (%s, %d/%d steps passed)", s.Result.FinalStatus, s.Result.Passed, s.Result.TotalSteps)
		}
		return line
	case api.TaskFailed:
		return fmt.Sprintf("❌ %s failed: %s", s.WorkflowName, text.FgRed.Sprint(strings.Truncate(s.Error, strings.LineMaxLen)))
	default:
		return ""
	}
}

// Reset forgets the statuses seen so far, e.g. before a new batch.
func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[string]api.TaskStatus)
}

func (c *Console) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

// StepIcon returns the emoji for a step outcome.
func StepIcon(result api.StepResult) string {
	switch result.Status {
	case api.StepSuccess:
		return "✅"
	case api.StepFailed:
		return "❌"
	default:
		return "⏭️"
	}
}

// FinalIcon returns the emoji for a workflow outcome.
func FinalIcon(status api.FinalStatus) string {
	switch status {
	case api.FinalSuccess:
		return "✅"
	case api.FinalPartial:
		return "⚠️"
	default:
		return "❌"
	}
}

func colorFor(status api.StepStatus) text.Colors {
	switch status {
	case api.StepSuccess:
		return text.Colors{text.FgGreen}
	case api.StepFailed:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgYellow}
	}
}
