// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/localstore"
	"github.com/minhanle/photolens/internal/platform/middleware"
	"github.com/minhanle/photolens/internal/users/auth"
)

// errorBody mirrors the wire-level error envelope clients branch on.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// newRouter assembles the identity routes behind the same authentication
// middleware the server mounts them with, so requests travel the full
// header-to-handler path.
func newRouter(service *auth.Service) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(service))
	router.Mount("/api", auth.NewHandler(service).Routes())
	return router
}

func doJSON(t *testing.T, handler http.Handler, method, target, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	request := httptest.NewRequest(method, target, &body)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body
}

/*
TestHandler_RegisterValidationBounds drives out-of-range usernames and
passwords through the register endpoint and checks each is rejected with a
400 VALIDATION_ERROR before any account exists.
*/
func TestHandler_RegisterValidationBounds(t *testing.T) {
	service := newService(t)
	router := newRouter(service)

	cases := []struct {
		name     string
		username string
		password string
		email    string
	}{
		{name: "username too short", username: "ab", password: "secret1"},
		{name: "username too long", username: strings.Repeat("a", 21), password: "secret1"},
		{name: "username missing", username: "", password: "secret1"},
		{name: "password too short", username: "alice", password: "12345"},
		{name: "password missing", username: "alice", password: ""},
		{name: "malformed email", username: "alice", password: "secret1", email: "not-an-address"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
				"username": testCase.username,
				"password": testCase.password,
				"email":    testCase.email,
			})

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, apperr.CodeValidation, decodeError(t, recorder).Code)
		})
	}

	// None of the rejected attempts wrote anything: the boundary values
	// register cleanly afterwards.
	recorder := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"username": "abc",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var session auth.AuthSession
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)
	require.NotNil(t, session.User)
	assert.Equal(t, "abc", session.User.Username)
}

/*
TestHandler_UnauthorizedCodes checks the two distinct 401 codes on the wire:
a request with no credential reports UNAUTHENTICATED, while a presented-but-
dead token reports SESSION_INVALID, which is the code clients clear their
cached token on.
*/
func TestHandler_UnauthorizedCodes(t *testing.T) {
	service := newService(t)
	router := newRouter(service)
	ctx := context.Background()

	first, err := service.Register(ctx, auth.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// No credential at all.
	recorder := doJSON(t, router, http.MethodGet, "/api/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeUnauthenticated, decodeError(t, recorder).Code)

	// A token that never existed.
	recorder = doJSON(t, router, http.MethodGet, "/api/verify", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeSessionInvalid, decodeError(t, recorder).Code)

	// The first token keeps working until a second login displaces it.
	recorder = doJSON(t, router, http.MethodGet, "/api/verify", first.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	_, err = service.Login(ctx, auth.LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	recorder = doJSON(t, router, http.MethodGet, "/api/verify", first.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeSessionInvalid, decodeError(t, recorder).Code)
}

// vanishingUserRepository delegates to a real repository until deleted is
// flipped, after which lookups by ID behave as if the account were removed.
type vanishingUserRepository struct {
	auth.UserRepository
	deleted bool
}

func (repository *vanishingUserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if repository.deleted {
		return nil, apperr.NotFound("user")
	}
	return repository.UserRepository.FindByID(ctx, id)
}

/*
TestHandler_VanishedUserDiscardsSession covers the session whose owner no
longer exists: the first presentation reports USER_NOT_FOUND and discards
the session, so the same token thereafter reports SESSION_INVALID.
*/
func TestHandler_VanishedUserDiscardsSession(t *testing.T) {
	store, err := localstore.Open(t.TempDir(), 0)
	require.NoError(t, err)

	users := &vanishingUserRepository{UserRepository: auth.NewLocalUserRepository(store)}
	service := auth.NewService(users, auth.NewLocalSessionRepository(store), auth.LocalTokenPrefix)
	router := newRouter(service)

	session, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "alice",
		Password: "secret1",
	})
	require.NoError(t, err)

	users.deleted = true

	recorder := doJSON(t, router, http.MethodGet, "/api/verify", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeUserNotFound, decodeError(t, recorder).Code)

	// The dangling session was discarded along with the rejection.
	recorder = doJSON(t, router, http.MethodGet, "/api/verify", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeSessionInvalid, decodeError(t, recorder).Code)
}
