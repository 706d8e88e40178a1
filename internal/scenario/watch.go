package scenario

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"wfbench/pkg/logging"
)

// DefaultDebounce is used when Watch is given a zero debounce interval.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls onChange with the YAML files changed below path, once the
// files have been quiet for debounce. A file path is watched through its
// directory. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(changed []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	single := ""
	if info.IsDir() {
		err = filepath.WalkDir(target, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(p)
			}
			return nil
		})
	} else {
		single = target
		err = watcher.Add(filepath.Dir(target))
	}
	if err != nil {
		return err
	}
	logging.Info("Scenario", "Watching %s for workflow changes", target)

	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
		timer   *time.Timer
	)
	flush := func() {
		mu.Lock()
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		pending = make(map[string]bool)
		mu.Unlock()

		if len(changed) == 0 || ctx.Err() != nil {
			return
		}
		sort.Strings(changed)
		logging.Debug("Scenario", "Workflow files changed: %v", changed)
		onChange(changed)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create && single == "" {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logging.Warn("Scenario", "Failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !isYAMLFile(event.Name) || (single != "" && event.Name != single) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			pending[event.Name] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Scenario", err, "Filesystem watcher error")
		}
	}
}
