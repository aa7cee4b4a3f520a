// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/localstore"
	"github.com/minhanle/photolens/internal/users/auth"
)

func newLocalRepos(t *testing.T) (*auth.LocalUserRepository, *auth.LocalSessionRepository) {
	t.Helper()

	store, err := localstore.Open(t.TempDir(), 0)
	require.NoError(t, err)

	return auth.NewLocalUserRepository(store), auth.NewLocalSessionRepository(store)
}

/*
TestLocalSessionRepository_PointerSemantics exercises the collapsed session
model: the collection holds one entry, creating overwrites it, and deletes
only act when the token or user actually matches the pointer.
*/
func TestLocalSessionRepository_PointerSemantics(t *testing.T) {
	_, sessions := newLocalRepos(t)
	ctx := context.Background()

	first := &auth.Session{ID: "s1", UserID: "u1", Token: "local_aaa", CreatedAt: time.Now()}
	require.NoError(t, sessions.Create(ctx, first))

	second := &auth.Session{ID: "s2", UserID: "u1", Token: "local_bbb", CreatedAt: time.Now()}
	require.NoError(t, sessions.Create(ctx, second))

	// Overwrite IS invalidation: the first token no longer resolves.
	_, err := sessions.FindByToken(ctx, "local_aaa")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	found, err := sessions.FindByToken(ctx, "local_bbb")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)

	// Deleting a non-matching token is a no-op.
	require.NoError(t, sessions.Delete(ctx, "local_zzz"))
	_, err = sessions.FindByToken(ctx, "local_bbb")
	require.NoError(t, err)

	// Deleting for a different user is a no-op too.
	require.NoError(t, sessions.DeleteAllForUser(ctx, "someone-else"))
	_, err = sessions.FindByToken(ctx, "local_bbb")
	require.NoError(t, err)

	// Deleting for the owning user clears the pointer.
	require.NoError(t, sessions.DeleteAllForUser(ctx, "u1"))
	_, err = sessions.FindByToken(ctx, "local_bbb")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestLocalUserRepository_CredentialEquality confirms the embedded adapter's
plain-equality credential check and its duplicate-username guard.
*/
func TestLocalUserRepository_CredentialEquality(t *testing.T) {
	users, _ := newLocalRepos(t)
	ctx := context.Background()

	alice := &auth.User{ID: "u1", Username: "alice", Nickname: "alice", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, alice, "secret1"))

	err := users.Create(ctx, &auth.User{ID: "u2", Username: "alice"}, "other")
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicateUser))

	found, err := users.VerifyCredential(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	_, err = users.VerifyCredential(ctx, "alice", "SECRET1")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCred))
}

/*
TestLocalUserRepository_SurvivesReopen checks that accounts written by one
store instance are visible to a fresh instance over the same directory.
*/
func TestLocalUserRepository_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := localstore.Open(dir, 0)
	require.NoError(t, err)
	users := auth.NewLocalUserRepository(store)
	require.NoError(t, users.Create(ctx, &auth.User{ID: "u1", Username: "alice", CreatedAt: time.Now()}, "secret1"))

	reopened, err := localstore.Open(dir, 0)
	require.NoError(t, err)
	usersAgain := auth.NewLocalUserRepository(reopened)

	found, err := usersAgain.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)
}
