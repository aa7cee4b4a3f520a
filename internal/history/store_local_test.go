// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package history_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhanle/photolens/internal/history"
	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/localstore"
)

/*
TestLocalRepository_QuotaEvictionRetry forces the blob quota to reject a
write and verifies the adapter trims down to the newest records and retries
before giving up.
*/
func TestLocalRepository_QuotaEvictionRetry(t *testing.T) {
	// Room for a handful of small records but not for many.
	store, err := localstore.Open(t.TempDir(), 2200)
	require.NoError(t, err)
	repository := history.NewLocalRepository(store)
	ctx := context.Background()

	// Each record weighs roughly 500 bytes serialized. A few of them fit;
	// the first write past the quota triggers the eviction pass, which is
	// visible as a count that did not grow by one.
	payload := strings.Repeat("x", 210)
	base := time.Now().Add(-time.Hour)
	prior := 0
	evicted := false
	for i := 0; i < 8; i++ {
		newest := fmt.Sprintf("r%d", i)
		record := &history.Record{
			ID:        newest,
			UserID:    "u1",
			ImageData: payload,
			Result:    validResult,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repository.Insert(ctx, record))

		count, err := repository.Count(ctx, "u1")
		require.NoError(t, err)
		if count == prior+1 {
			prior = count
			continue
		}

		// The eviction pass ran on this insert. The user ends up holding
		// exactly the newest records, the incoming one included.
		evicted = true
		assert.Equal(t, history.QuotaEvictKeep, count)

		records, err := repository.List(ctx, "u1", history.ListReturnLimit)
		require.NoError(t, err)
		require.NotEmpty(t, records)
		assert.Equal(t, newest, records[0].ID)
		break
	}
	require.True(t, evicted, "quota never tripped; test store too large")
}

/*
TestLocalRepository_StorageExhausted uses a quota too small for even a single
record, so the eviction retry cannot help and the fatal error surfaces.
*/
func TestLocalRepository_StorageExhausted(t *testing.T) {
	store, err := localstore.Open(t.TempDir(), 64)
	require.NoError(t, err)
	repository := history.NewLocalRepository(store)

	record := &history.Record{
		ID:        "r1",
		UserID:    "u1",
		ImageData: strings.Repeat("x", 500),
		Result:    validResult,
	}

	err = repository.Insert(context.Background(), record)
	assert.True(t, apperr.IsCode(err, apperr.CodeStorageExhausted))
}

/*
TestLocalRepository_ListLimit confirms the listing truncates independently of
how many records are stored.
*/
func TestLocalRepository_ListLimit(t *testing.T) {
	store, err := localstore.Open(t.TempDir(), 0)
	require.NoError(t, err)
	repository := history.NewLocalRepository(store)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		record := &history.Record{
			ID:        fmt.Sprintf("r%d", i),
			UserID:    "u1",
			ImageData: "img",
			Result:    validResult,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repository.Insert(ctx, record))
	}

	records, err := repository.List(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r3", records[0].ID)
	assert.Equal(t, "r2", records[1].ID)
}

/*
TestRecord_ExpiredBy pins the sweep boundary: a record created exactly at
the cutoff instant survives, only strictly older records are eligible.
*/
func TestRecord_ExpiredBy(t *testing.T) {
	cutoff := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	atCutoff := history.Record{CreatedAt: cutoff}
	assert.False(t, atCutoff.ExpiredBy(cutoff))

	justOlder := history.Record{CreatedAt: cutoff.Add(-time.Nanosecond)}
	assert.True(t, justOlder.ExpiredBy(cutoff))

	justYounger := history.Record{CreatedAt: cutoff.Add(time.Nanosecond)}
	assert.False(t, justYounger.ExpiredBy(cutoff))
}
