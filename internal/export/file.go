package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileTimestampLayout is the timestamp embedded in exported file names.
const FileTimestampLayout = "20060102-150405"

// FileName returns "<prefix>-<YYYYMMDD-HHMMSS>.<ext>".
func FileName(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, t.Format(FileTimestampLayout), strings.TrimPrefix(ext, "."))
}

// WriteFile writes data under dir with a timestamped name and returns the
// full path.
func WriteFile(dir, prefix, ext string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	fullPath := filepath.Join(dir, FileName(prefix, ext, time.Now()))
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return fullPath, nil
}
