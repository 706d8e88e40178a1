package runlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"wfbench/pkg/logging"
)

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	mu  sync.RWMutex
	dir string
}

// NewFileBackend creates a file backend rooted at dir. The directory is
// created on first save.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Load returns the document stored under key, or ErrNotFound.
func (fb *FileBackend) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	fb.mu.RLock()
	defer fb.mu.RUnlock()

	filePath := fb.path(key)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	logging.Debug("RunLogStorage", "Loaded %s from %s", key, filePath)
	return data, nil
}

// Save writes the document for key. The file is replaced atomically so a
// crash never leaves a truncated document behind.
func (fb *FileBackend) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	if err := os.MkdirAll(fb.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fb.dir, err)
	}

	filePath := fb.path(key)
	tmp, err := os.CreateTemp(fb.dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace file %s: %w", filePath, err)
	}

	logging.Debug("RunLogStorage", "Saved %s to %s", key, filePath)
	return nil
}

// Close is a no-op for files.
func (fb *FileBackend) Close() error {
	return nil
}

func (fb *FileBackend) path(key string) string {
	return filepath.Join(fb.dir, sanitizeFilename(key)+".json")
}

// sanitizeFilename ensures the key is safe for filesystem operations
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", ".", "_", " ", "_",
	)
	sanitized := replacer.Replace(strings.TrimSpace(name))

	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		sanitized = "unnamed"
	}
	return sanitized
}
