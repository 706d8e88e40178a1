package scenario

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 50*time.Millisecond, func(changed []string) {
			changes <- changed
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "a.yaml", "name: a\n")
	writeFile(t, dir, "a.yaml", "name: a2\n")
	writeFile(t, dir, "notes.txt", "ignored")

	select {
	case got := <-changes:
		assert.Equal(t, []string{filepath.Join(dir, "a.yaml")}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingPath(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0, func([]string) {})
	require.Error(t, err)
}
