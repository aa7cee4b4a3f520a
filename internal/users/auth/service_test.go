// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/localstore"
	"github.com/minhanle/photolens/internal/users/auth"
)

// newService wires the auth service against the embedded adapter on a
// throwaway data directory. The service logic under test is identical for
// both adapters; the embedded one needs no external infrastructure.
func newService(t *testing.T) *auth.Service {
	t.Helper()

	store, err := localstore.Open(t.TempDir(), 0)
	require.NoError(t, err)

	return auth.NewService(
		auth.NewLocalUserRepository(store),
		auth.NewLocalSessionRepository(store),
		auth.LocalTokenPrefix,
	)
}

/*
TestService_RegisterThenLogin checks the happy path: a fresh registration
yields a live token, and a subsequent login with the same credentials
succeeds with a new one.
*/
func TestService_RegisterThenLogin(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, auth.RegisterInput{
		Username: "alice",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotNil(t, registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice", registered.User.Username)
	assert.Equal(t, "alice", registered.User.Nickname) // defaults to username

	loggedIn, err := service.Login(ctx, auth.LoginInput{
		Username: "alice",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.Token)
	assert.NotEqual(t, registered.Token, loggedIn.Token)
}

/*
TestService_DuplicateUsername ensures that re-registering a taken username
fails with the dedicated conflict code, regardless of password.
*/
func TestService_DuplicateUsername(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = service.Register(ctx, auth.RegisterInput{Username: "alice", Password: "different"})
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicateUser))
}

/*
TestService_InvalidCredential verifies the generic rejection for both a wrong
password and an unknown username.
*/
func TestService_InvalidCredential(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = service.Login(ctx, auth.LoginInput{Username: "alice", Password: "wrong"})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCred))

	_, err = service.Login(ctx, auth.LoginInput{Username: "nobody", Password: "secret1"})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCred))
}

/*
TestService_SecondLoginDisplacesFirst covers the single-active-session
invariant: a login from a second context invalidates the first context's
token, and the first context's next privileged call is rejected with
SESSION_INVALID (not the generic UNAUTHENTICATED).
*/
func TestService_SecondLoginDisplacesFirst(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	contextA, err := service.Login(ctx, auth.LoginInput{Username: "alice", Password: "secret1", DeviceInfo: "context A"})
	require.NoError(t, err)

	contextB, err := service.Login(ctx, auth.LoginInput{Username: "alice", Password: "secret1", DeviceInfo: "context B"})
	require.NoError(t, err)

	// B's token is the live one.
	identity, err := service.Resolve(ctx, contextB.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)

	// A's token was displaced.
	_, err = service.Resolve(ctx, contextA.Token)
	assert.True(t, apperr.IsCode(err, apperr.CodeSessionInvalid))
}

/*
TestService_ResolveFailurePriority checks the rejection ladder: no token at
all is UNAUTHENTICATED, an unknown token is SESSION_INVALID.
*/
func TestService_ResolveFailurePriority(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	_, err := service.Resolve(ctx, "")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthenticated))

	_, err = service.Resolve(ctx, "local_deadbeef")
	assert.True(t, apperr.IsCode(err, apperr.CodeSessionInvalid))
}

/*
TestService_SessionInvalidHookFiresOnce verifies the edge-triggered
invalidation notification: exactly one firing per distinct rejected token,
no matter how many times the stale token is retried.
*/
func TestService_SessionInvalidHookFiresOnce(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	var fired []string
	service.SetSessionInvalidHook(func(token string) {
		fired = append(fired, token)
	})

	_, err := service.Register(ctx, auth.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	stale, err := service.Login(ctx, auth.LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = service.Login(ctx, auth.LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = service.Resolve(ctx, stale.Token)
		assert.True(t, apperr.IsCode(err, apperr.CodeSessionInvalid))
	}

	require.Len(t, fired, 1)
	assert.Equal(t, stale.Token, fired[0])
}

/*
TestService_LogoutIsIdempotent ensures logging out twice with the same token
reports success both times, and the token stops resolving afterwards.
*/
func TestService_LogoutIsIdempotent(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	session, err := service.Register(ctx, auth.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, session.Token))
	require.NoError(t, service.Logout(ctx, session.Token))

	_, err = service.Resolve(ctx, session.Token)
	assert.True(t, apperr.IsCode(err, apperr.CodeSessionInvalid))
}

/*
TestService_UpdateProfile checks partial profile updates: provided fields
change, omitted fields survive.
*/
func TestService_UpdateProfile(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	session, err := service.Register(ctx, auth.RegisterInput{
		Username: "alice",
		Password: "secret1",
		Nickname: "Alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	updated, err := service.UpdateProfile(ctx, session.User.ID, auth.UpdateProfileInput{
		Nickname: "Alice L.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", updated.Nickname)
	assert.Equal(t, "alice@example.com", updated.Email)

	// The change persisted.
	profile, err := service.GetProfile(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", profile.Nickname)
}
