package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wfbench/internal/api"
	"wfbench/internal/clock"
	"wfbench/internal/export"
	"wfbench/internal/workflow"
	"wfbench/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const subsystem = "ParallelExecutor"

// ErrBatchRunning is returned by operations that are only valid between batches.
var ErrBatchRunning = errors.New("a batch is currently running")

// ErrNoResult is returned by the exports before the first batch completes.
var ErrNoResult = errors.New("no batch has been executed")

// Task runs one workflow. A returned error (or panic) fails the task.
type Task func(ctx context.Context) (*api.WorkflowResult, error)

// StatusObserver receives the full status list after every status change.
// It is invoked synchronously from the goroutine that made the change and
// must return quickly.
type StatusObserver func(statuses []api.ParallelWorkflowStatus)

// Option configures an Executor.
type Option func(*Executor)

// WithTaskTimeout fails any workflow still running after d. Zero disables
// the timeout. The underlying workflow is not preempted; its context is
// cancelled and its late result discarded.
func WithTaskTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.taskTimeout = d
		}
	}
}

// WithMaxConcurrency limits how many workflows run at once. Zero runs every
// workflow immediately. Waiting workflows stay pending.
func WithMaxConcurrency(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithClock sets the clock used for task and batch timing.
func WithClock(c clock.Clock) Option {
	return func(e *Executor) {
		e.clock = clock.OrReal(c)
	}
}

type entry struct {
	id   string
	name string
	task Task
}

// Executor runs a batch of independent workflows concurrently. Each workflow
// owns one status entry; a failure, panic or timeout in one workflow only
// ever marks that entry failed.
type Executor struct {
	clock          clock.Clock
	taskTimeout    time.Duration
	maxConcurrency int

	// runMu is held for the whole of ExecuteAll
	runMu sync.Mutex

	mu       sync.Mutex
	order    []string
	entries  map[string]entry
	statuses map[string]*api.ParallelWorkflowStatus
	last     *api.ParallelExecutionResult

	observerMu sync.RWMutex
	observers  []StatusObserver

	// notifyMu serializes observer notifications so snapshots arrive in order
	notifyMu sync.Mutex
}

// New creates an empty Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		clock:    clock.Real{},
		entries:  make(map[string]entry),
		statuses: make(map[string]*api.ParallelWorkflowStatus),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddWorkflow registers a workflow under id with a pending status.
// Registering an existing id replaces it in place. It fails while a batch
// is running.
func (e *Executor) AddWorkflow(id, name string, task Task) error {
	if !e.runMu.TryLock() {
		return ErrBatchRunning
	}
	defer e.runMu.Unlock()

	e.mu.Lock()
	if _, exists := e.entries[id]; !exists {
		e.order = append(e.order, id)
	}
	e.entries[id] = entry{id: id, name: name, task: task}
	e.statuses[id] = pendingStatus(id, name)
	e.mu.Unlock()

	logging.Debug(subsystem, "Registered workflow %s (%s)", name, id)
	e.notify()
	return nil
}

// AddRunnable registers a workflow.Runnable; panics escaping it fail the task.
func (e *Executor) AddRunnable(id string, r workflow.Runnable) error {
	return e.AddWorkflow(id, r.WorkflowName(), func(ctx context.Context) (*api.WorkflowResult, error) {
		return workflow.Run(ctx, r)
	})
}

// OnStatusUpdate adds an observer. Observers are notified in registration order.
func (e *Executor) OnStatusUpdate(observer StatusObserver) {
	if observer == nil {
		return
	}
	e.observerMu.Lock()
	defer e.observerMu.Unlock()
	e.observers = append(e.observers, observer)
}

// GetStatuses returns a snapshot of every status in registration order.
// It is safe to call while a batch is running.
func (e *Executor) GetStatuses() []api.ParallelWorkflowStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Executor) snapshotLocked() []api.ParallelWorkflowStatus {
	out := make([]api.ParallelWorkflowStatus, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.statuses[id].Clone())
	}
	return out
}

// Clear removes every registered workflow and status. It fails while a
// batch is running. The last batch result stays available for export.
func (e *Executor) Clear() error {
	if !e.runMu.TryLock() {
		return ErrBatchRunning
	}
	defer e.runMu.Unlock()

	e.mu.Lock()
	e.order = nil
	e.entries = make(map[string]entry)
	e.statuses = make(map[string]*api.ParallelWorkflowStatus)
	e.mu.Unlock()

	e.notify()
	return nil
}

// Result returns the result of the last completed batch, or nil.
func (e *Executor) Result() *api.ParallelExecutionResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// ExportToJSON serializes the last batch result.
func (e *Executor) ExportToJSON() ([]byte, error) {
	result := e.Result()
	if result == nil {
		return nil, ErrNoResult
	}
	return export.ParallelToJSON(result)
}

// ExportToCSV serializes the last batch result including its summary block.
func (e *Executor) ExportToCSV() (string, error) {
	result := e.Result()
	if result == nil {
		return "", ErrNoResult
	}
	return export.ParallelToCSV(result), nil
}

// ExecuteAll runs every registered workflow concurrently and waits for all
// of them to settle before aggregating. Individual failures never fail the
// batch. Cancelling ctx fails the workflows that have not settled yet.
func (e *Executor) ExecuteAll(ctx context.Context) *api.ParallelExecutionResult {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.mu.Lock()
	batch := make([]entry, 0, len(e.order))
	for _, id := range e.order {
		en := e.entries[id]
		batch = append(batch, en)
		e.statuses[id] = pendingStatus(en.id, en.name)
	}
	e.mu.Unlock()

	batchID := uuid.New().String()
	start := e.clock.Now()
	logging.Info(subsystem, "Starting batch %s with %d workflows", batchID, len(batch))

	var sem *semaphore.Weighted
	if e.maxConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(e.maxConcurrency))
	}

	var wg sync.WaitGroup
	for _, en := range batch {
		wg.Add(1)
		go func(en entry) {
			defer wg.Done()
			e.runTask(ctx, en, sem)
		}(en)
	}
	wg.Wait()

	end := e.clock.Now()

	e.mu.Lock()
	statuses := make([]api.ParallelWorkflowStatus, 0, len(batch))
	for _, en := range batch {
		statuses = append(statuses, e.statuses[en.id].Clone())
	}
	result := Aggregate(statuses, start, end)
	result.BatchID = batchID
	e.last = result
	e.mu.Unlock()

	logging.Info(subsystem, "Batch %s finished: %d completed, %d failed in %dms",
		batchID, result.Completed, result.Failed, result.TotalDuration)
	return result
}

type outcome struct {
	result *api.WorkflowResult
	err    error
}

func (e *Executor) runTask(ctx context.Context, en entry, sem *semaphore.Weighted) {
	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			e.markRunning(en.id)
			e.finish(en.id, nil, err)
			return
		}
		defer sem.Release(1)
	}

	e.markRunning(en.id)

	taskCtx := ctx
	var cancel context.CancelFunc
	if e.taskTimeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, e.taskTimeout)
	} else {
		taskCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()
	taskCtx = workflow.WithObserver(taskCtx, &progressObserver{executor: e, id: en.id})

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%v", r)}
			}
		}()
		if en.task == nil {
			done <- outcome{err: errors.New("workflow has no executor")}
			return
		}
		result, err := en.task(taskCtx)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		e.finish(en.id, o.result, o.err)
	case <-taskCtx.Done():
		err := taskCtx.Err()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("workflow timed out after %s", e.taskTimeout)
		}
		e.finish(en.id, nil, err)
	}
}

func (e *Executor) markRunning(id string) {
	now := e.clock.Now()
	e.mu.Lock()
	st := e.statuses[id]
	st.Status = api.TaskRunning
	st.StartTime = &now
	st.CurrentStep = "Starting"
	e.mu.Unlock()
	e.notify()
}

func (e *Executor) finish(id string, result *api.WorkflowResult, err error) {
	now := e.clock.Now()
	if err == nil && result == nil {
		err = errors.New("workflow returned no result")
	}

	e.mu.Lock()
	st := e.statuses[id]
	if st.Status != api.TaskRunning {
		e.mu.Unlock()
		return
	}
	st.EndTime = &now
	duration := clock.Millis(*st.StartTime, now)
	st.Duration = &duration
	if err != nil {
		st.Status = api.TaskFailed
		st.Error = err.Error()
		st.CurrentStep = "Failed"
		st.Progress = 0
	} else {
		st.Status = api.TaskCompleted
		st.Result = result
		st.CurrentStep = "Completed"
		st.Progress = progressOf(result)
	}
	name := st.WorkflowName
	status := st.Status
	e.mu.Unlock()

	if err != nil {
		logging.Warn(subsystem, "Workflow %s (%s) failed after %dms: %v", name, id, duration, err)
	} else {
		logging.Debug(subsystem, "Workflow %s (%s) %s after %dms", name, id, status, duration)
	}
	e.notify()
}

// stepProgress updates the running status of id from step notifications.
// Updates arriving after the task settled are ignored.
func (e *Executor) stepProgress(id, currentStep string, progress int) {
	e.mu.Lock()
	st, ok := e.statuses[id]
	if !ok || st.Status != api.TaskRunning {
		e.mu.Unlock()
		return
	}
	if currentStep != "" {
		st.CurrentStep = currentStep
	}
	if progress > st.Progress {
		st.Progress = clamp(progress)
	}
	e.mu.Unlock()
	e.notify()
}

func (e *Executor) notify() {
	e.observerMu.RLock()
	observers := append([]StatusObserver(nil), e.observers...)
	e.observerMu.RUnlock()
	if len(observers) == 0 {
		return
	}

	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	snapshot := e.GetStatuses()
	for _, observer := range observers {
		observer(snapshot)
	}
}

func pendingStatus(id, name string) *api.ParallelWorkflowStatus {
	return &api.ParallelWorkflowStatus{
		WorkflowID:   id,
		WorkflowName: name,
		Status:       api.TaskPending,
		Progress:     0,
		CurrentStep:  "Pending",
	}
}
