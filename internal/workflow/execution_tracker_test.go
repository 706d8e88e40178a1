package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wfbench/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	runs []*api.WorkflowRun
	err  error
}

func (m *memoryStore) Append(ctx context.Context, run *api.WorkflowRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func TestExecutionTracker_TrackExecution(t *testing.T) {
	store := &memoryStore{}
	meta := &api.RunMetadata{Environment: "staging"}
	tracker := NewExecutionTracker(store, meta, nil)

	wf := Script("wf", func(ctx context.Context, w *Workflow) error {
		w.ExecuteStep(ctx, "a", func(ctx context.Context) (interface{}, error) { return nil, nil })
		return nil
	})

	result, run, err := tracker.TrackExecution(context.Background(), wf)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, meta, run.Metadata)
	require.Len(t, store.runs, 1)
	assert.Equal(t, run, store.runs[0])
	assert.Equal(t, run, tracker.Last())
}

func TestExecutionTracker_StoreFailureIsNotFatal(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	tracker := NewExecutionTracker(store, nil, nil)

	def := &Definition{Name: "wf"}
	result, run, err := tracker.TrackExecution(context.Background(), def)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotNil(t, run)
}

func TestExecutionTracker_NoResult(t *testing.T) {
	tracker := NewExecutionTracker(nil, nil, nil)

	result, run, err := tracker.TrackExecution(context.Background(), panickingRunnable{})
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, run)
	assert.Nil(t, tracker.Last())
}

func TestExecutionTracker_PartialResultIsRecorded(t *testing.T) {
	store := &memoryStore{}
	tracker := NewExecutionTracker(store, nil, nil)

	wf := Script("wf", func(ctx context.Context, w *Workflow) error {
		w.ExecuteStep(ctx, "a", func(ctx context.Context) (interface{}, error) { return nil, errors.New("x") })
		return errors.New("cannot continue")
	})

	result, run, err := tracker.TrackExecution(context.Background(), wf)
	assert.Error(t, err)
	require.NotNil(t, result)
	require.NotNil(t, run)
	assert.Equal(t, api.FinalFailed, run.Result.FinalStatus)
	assert.Len(t, store.runs, 1)
}
