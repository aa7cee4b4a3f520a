// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := Open(t.TempDir(), 0)
	require.NoError(t, err)

	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	in := []entry{{ID: "1", Name: "alpha"}, {ID: "2", Name: "beta"}}
	require.NoError(t, store.Put("users", in))

	var out []entry
	require.NoError(t, store.Get("users", &out))
	assert.Equal(t, in, out)
}

func TestStore_GetMissingCollection(t *testing.T) {
	store, err := Open(t.TempDir(), 0)
	require.NoError(t, err)

	var out map[string]string
	err = store.Get("never-written", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_QuotaRejectsOversizedBlob(t *testing.T) {
	store, err := Open(t.TempDir(), 64)
	require.NoError(t, err)

	small := map[string]string{"k": "v"}
	require.NoError(t, store.Put("history", small))

	big := map[string]string{"k": string(make([]byte, 256))}
	err = store.Put("history", big)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// The rejected write must not clobber the previous blob.
	var out map[string]string
	require.NoError(t, store.Get("history", &out))
	assert.Equal(t, small, out)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, 0)
	require.NoError(t, err)

	require.NoError(t, store.Put("session", map[string]string{"token": "abc"}))
	require.NoError(t, store.Delete("session"))
	require.NoError(t, store.Delete("session"))

	_, err = os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Ping(t *testing.T) {
	store, err := Open(t.TempDir(), 0)
	require.NoError(t, err)
	assert.NoError(t, store.Ping())
}
