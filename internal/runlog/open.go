package runlog

import (
	"fmt"
	"path/filepath"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindBadger = "badger"
	KindNone   = "none"
)

// Open returns the backend for kind rooted at path. KindNone returns a nil
// backend, which turns the run log into a no-op.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(path), nil
	case KindBadger:
		backend, err := OpenBadger(filepath.Join(path, "badger"))
		if err != nil {
			return nil, err
		}
		return backend, nil
	case KindNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
