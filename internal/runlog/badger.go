package runlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wfbench/pkg/logging"

	"github.com/timshannon/badgerhold/v4"
)

// document is the badgerhold record for one key.
type document struct {
	Key       string `badgerhold:"key"`
	Data      []byte
	UpdatedAt time.Time
}

// BadgerBackend stores documents in an embedded Badger database.
type BadgerBackend struct {
	store *badgerhold.Store
	path  string
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string) (*BadgerBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	logging.Debug("RunLogStorage", "Opening Badger database at %s", dir)

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerBackend{store: store, path: dir}, nil
}

// Load returns the document stored under key, or ErrNotFound.
func (b *BadgerBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := b.store.Get(key, &doc)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return doc.Data, nil
}

// Save inserts or replaces the document for key.
func (b *BadgerBackend) Save(ctx context.Context, key string, data []byte) error {
	doc := document{Key: key, Data: data, UpdatedAt: time.Now()}
	if err := b.store.Upsert(key, &doc); err != nil {
		return fmt.Errorf("failed to save key %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	if b.store == nil {
		return nil
	}
	logging.Debug("RunLogStorage", "Closing Badger database at %s", b.path)
	return b.store.Close()
}
