// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// Embedded implementation of the history data access contract.
//
// # Write Path
//
// Image payloads are downsampled before persisting to stretch the blob quota.
// When the quota still rejects a write, the adapter evicts down to the most
// recent [QuotaEvictKeep] records and retries once. Only a failure of that
// retry surfaces as a storage-exhausted error.

package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/minhanle/photolens/internal/imaging"
	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/localstore"
)

const historyCollection = "history"

// LocalRepository implements the Repository interface on the embedded blob store.
type LocalRepository struct {
	store *localstore.Store
}

// NewLocalRepository creates the embedded implementation of the history Repository.
func NewLocalRepository(store *localstore.Store) *LocalRepository {
	return &LocalRepository{store: store}
}

// Capacity returns the embedded-mode record limit.
func (repository *LocalRepository) Capacity() int { return LocalCapacity }

/*
List returns the user's records, newest first, truncated to limit.

Parameters:
  - context: context.Context (unused; the blob store is synchronous)
  - userID: string
  - limit: int

Returns:
  - []Record: Newest first
  - error: Blob read failures
*/
func (repository *LocalRepository) List(_ context.Context, userID string, limit int) ([]Record, error) {
	records, err := repository.load()
	if err != nil {
		return nil, err
	}

	mine := make([]Record, 0)
	for _, record := range records {
		if record.UserID == userID {
			mine = append(mine, record)
		}
	}

	sort.Slice(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

/*
Insert persists a new record, downsampling its images first.

Description: On a quota rejection, the user's records are trimmed so that the
incoming record plus the newest survivors total [QuotaEvictKeep], and the
write retries once. A second rejection raises the fatal storage-exhausted
error.

Parameters:
  - context: context.Context (unused)
  - record: *Record

Returns:
  - error: apperr.StorageExhausted or blob persistence failures
*/
func (repository *LocalRepository) Insert(_ context.Context, record *Record) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	stored := *record
	stored.ImageData = imaging.Downsample(stored.ImageData)
	if stored.AnalysisImage != "" {
		stored.AnalysisImage = imaging.Downsample(stored.AnalysisImage)
	}

	records, err := repository.load()
	if err != nil {
		return err
	}

	err = repository.store.Put(historyCollection, append(records, stored))
	if err == nil {
		return nil
	}
	if !errors.Is(err, localstore.ErrQuotaExceeded) {
		return fmt.Errorf("local_history_repo_insert_failed: %w", err)
	}

	// Quota hit. Trim the user down so that together with the incoming
	// record they hold exactly [QuotaEvictKeep], then retry.
	trimmed := repository.trimForUser(records, stored.UserID, QuotaEvictKeep-1)

	err = repository.store.Put(historyCollection, append(trimmed, stored))
	if err == nil {
		return nil
	}
	if errors.Is(err, localstore.ErrQuotaExceeded) {
		return apperr.StorageExhausted()
	}
	return fmt.Errorf("local_history_repo_insert_retry_failed: %w", err)
}

/*
Delete removes the record when it belongs to the user. A nonexistent or
non-owned ID leaves the collection untouched.

Parameters:
  - context: context.Context (unused)
  - userID: string
  - recordID: string

Returns:
  - error: Blob persistence failures
*/
func (repository *LocalRepository) Delete(_ context.Context, userID, recordID string) error {
	records, err := repository.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	removed := false
	for _, record := range records {
		if record.UserID == userID && record.ID == recordID {
			removed = true
			continue
		}
		kept = append(kept, record)
	}

	if !removed {
		return nil
	}

	if err := repository.store.Put(historyCollection, kept); err != nil {
		return fmt.Errorf("local_history_repo_delete_failed: %w", err)
	}
	return nil
}

/*
SweepExpired removes the user's records older than maxAge.

Parameters:
  - context: context.Context (unused)
  - userID: string
  - maxAge: time.Duration

Returns:
  - int: Number of records removed
  - error: Blob persistence failures
*/
func (repository *LocalRepository) SweepExpired(_ context.Context, userID string, maxAge time.Duration) (int, error) {
	records, err := repository.load()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	kept := records[:0]
	removed := 0
	for _, record := range records {
		if record.UserID == userID && record.ExpiredBy(cutoff) {
			removed++
			continue
		}
		kept = append(kept, record)
	}

	if removed == 0 {
		return 0, nil
	}

	if err := repository.store.Put(historyCollection, kept); err != nil {
		return 0, fmt.Errorf("local_history_repo_sweep_failed: %w", err)
	}
	return removed, nil
}

/*
Count returns the user's current record count.

Parameters:
  - context: context.Context (unused)
  - userID: string

Returns:
  - int: Current count
  - error: Blob read failures
*/
func (repository *LocalRepository) Count(_ context.Context, userID string) (int, error) {
	records, err := repository.load()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, record := range records {
		if record.UserID == userID {
			count++
		}
	}
	return count, nil
}

// trimForUser keeps the user's `keep` newest records plus everything owned by
// other users.
func (repository *LocalRepository) trimForUser(records []Record, userID string, keep int) []Record {
	mine := make([]Record, 0)
	others := make([]Record, 0)
	for _, record := range records {
		if record.UserID == userID {
			mine = append(mine, record)
		} else {
			others = append(others, record)
		}
	}

	sort.Slice(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	if len(mine) > keep {
		mine = mine[:keep]
	}

	return append(others, mine...)
}

// load reads the whole history collection, mapping never-written to empty.
func (repository *LocalRepository) load() ([]Record, error) {
	var records []Record
	if err := repository.store.Get(historyCollection, &records); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("local_history_repo_load_failed: %w", err)
	}
	return records, nil
}
