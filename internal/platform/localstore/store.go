// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

/*
Package localstore implements the embedded persistence substrate: one
serialized JSON blob per named collection, written to a local data directory.

It mirrors the web client's localStorage layout: each collection is
read-modify-written as a whole, and a configurable byte quota bounds the size
of any single collection blob.

Concurrency:

  - Within one process, a mutex serializes all collection access, so each
    operation is atomic relative to the others.
  - Independent processes sharing the same data directory are NOT coordinated.
    The last whole-collection write wins. This is a known, documented hazard
    of the embedded mode, not something this layer papers over.
*/
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrQuotaExceeded is returned by [Store.Put] when the serialized collection
// would exceed the configured byte quota. Callers are expected to evict and
// retry, in the same way web clients react to QuotaExceededError.
var ErrQuotaExceeded = errors.New("localstore: collection quota exceeded")

// ErrNotFound is returned by [Store.Get] when the collection has never been written.
var ErrNotFound = errors.New("localstore: collection not found")

// Store is a blob-per-collection file store.
type Store struct {
	mu    sync.Mutex
	dir   string
	quota int64 // bytes per collection blob; 0 disables the quota
}

// Open prepares the data directory and returns a ready-to-use [Store].
func Open(dir string, quotaBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: failed to create data dir: %w", err)
	}
	return &Store{dir: dir, quota: quotaBytes}, nil
}

// Get decodes the named collection into target.
//
// A collection that has never been written returns [ErrNotFound]; callers
// treat that as an empty collection, the way localStorage returns null.
func (store *Store) Get(collection string, target any) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := os.ReadFile(store.path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("localstore: read %q failed: %w", collection, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("localstore: decode %q failed: %w", collection, err)
	}
	return nil
}

// Put serializes value and replaces the named collection in one write.
//
// The quota is checked against the serialized size before anything touches
// disk, so a rejected write leaves the previous blob intact.
func (store *Store) Put(collection string, value any) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: encode %q failed: %w", collection, err)
	}

	if store.quota > 0 && int64(len(data)) > store.quota {
		return ErrQuotaExceeded
	}

	// Write-then-rename keeps the previous blob readable if the process
	// dies mid-write.
	target := store.path(collection)
	temp := target + ".tmp"
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return fmt.Errorf("localstore: write %q failed: %w", collection, err)
	}
	if err := os.Rename(temp, target); err != nil {
		return fmt.Errorf("localstore: rename %q failed: %w", collection, err)
	}
	return nil
}

// Delete removes the named collection. Deleting an absent collection is a no-op.
func (store *Store) Delete(collection string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path(collection)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("localstore: delete %q failed: %w", collection, err)
	}
	return nil
}

// Ping verifies that the data directory is writable. Used by readiness probes.
func (store *Store) Ping() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	probe := filepath.Join(store.dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("localstore: data dir not writable: %w", err)
	}
	return os.Remove(probe)
}

// path maps a collection name to its backing file.
func (store *Store) path(collection string) string {
	return filepath.Join(store.dir, collection+".json")
}
