// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// Embedded implementations of the auth data access contracts.
//
// # Trust Model
//
// This adapter persists everything through [localstore.Store], one JSON blob
// per collection, and stores the credential secret in plaintext. That is a
// documented property of the embedded mode (single user, single device, data
// never leaves the machine), not an oversight. Hardening it to hashed
// credentials is a recommended follow-up, recorded in DESIGN.md, but would be
// a behavior change and is not done silently here.
//
// The session concept collapses to one ambient "current identity" pointer:
// the session collection holds at most one entry, so the single-active-session
// invariant is trivially true.

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/localstore"
)

// Collection names inside the embedded store.
const (
	usersCollection   = "users"
	sessionCollection = "session"
)

// localUser is the at-rest shape of an account in the embedded store.
// The plaintext secret rides alongside the public profile fields.
type localUser struct {
	User
	Secret string `json:"secret"`
}

// # User Repository

// LocalUserRepository implements the UserRepository interface on the embedded blob store.
type LocalUserRepository struct {
	store *localstore.Store
}

// NewLocalUserRepository creates the embedded implementation of the UserRepository.
func NewLocalUserRepository(store *localstore.Store) *LocalUserRepository {
	return &LocalUserRepository{store: store}
}

/*
Create appends a new account to the users collection.

Parameters:
  - context: context.Context (unused; the blob store is synchronous)
  - user: *User
  - secret: string (stored as-is, see the trust model note above)

Returns:
  - error: apperr.DuplicateUsername or blob persistence failures
*/
func (repository *LocalUserRepository) Create(_ context.Context, user *User, secret string) error {
	users, err := repository.load()
	if err != nil {
		return err
	}

	for _, existing := range users {
		if existing.Username == user.Username {
			return apperr.DuplicateUsername()
		}
	}

	users = append(users, localUser{User: *user, Secret: secret})
	if err := repository.store.Put(usersCollection, users); err != nil {
		return fmt.Errorf("local_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByUsername returns the account with the given username.

Parameters:
  - context: context.Context (unused)
  - username: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or blob read failures
*/
func (repository *LocalUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	users, err := repository.load()
	if err != nil {
		return nil, err
	}

	for _, candidate := range users {
		if candidate.Username == username {
			user := candidate.User
			return &user, nil
		}
	}

	return nil, apperr.NotFound("User")
}

/*
FindByID returns the account with the given ID.

Parameters:
  - context: context.Context (unused)
  - id: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or blob read failures
*/
func (repository *LocalUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	users, err := repository.load()
	if err != nil {
		return nil, err
	}

	for _, candidate := range users {
		if candidate.ID == id {
			user := candidate.User
			return &user, nil
		}
	}

	return nil, apperr.NotFound("User")
}

/*
VerifyCredential checks a username/secret pair by plain equality.

Parameters:
  - context: context.Context (unused)
  - username: string
  - secret: string

Returns:
  - *User: The matching account on success
  - error: apperr.InvalidCredential when either part of the pair is wrong
*/
func (repository *LocalUserRepository) VerifyCredential(_ context.Context, username, secret string) (*User, error) {
	users, err := repository.load()
	if err != nil {
		return nil, err
	}

	for _, candidate := range users {
		if candidate.Username == username && candidate.Secret == secret {
			user := candidate.User
			return &user, nil
		}
	}

	return nil, apperr.InvalidCredential()
}

/*
Update rewrites the stored profile fields of an existing account.

Parameters:
  - context: context.Context (unused)
  - user: *User

Returns:
  - error: apperr.NotFound or blob persistence failures
*/
func (repository *LocalUserRepository) Update(_ context.Context, user *User) error {
	users, err := repository.load()
	if err != nil {
		return err
	}

	for index := range users {
		if users[index].ID == user.ID {
			users[index].Nickname = user.Nickname
			users[index].Avatar = user.Avatar
			users[index].Email = user.Email

			if err := repository.store.Put(usersCollection, users); err != nil {
				return fmt.Errorf("local_user_repo_update_failed: %w", err)
			}
			return nil
		}
	}

	return apperr.NotFound("User")
}

// load reads the whole users collection. A never-written collection is an
// empty slice, mirroring localStorage returning null.
func (repository *LocalUserRepository) load() ([]localUser, error) {
	var users []localUser
	if err := repository.store.Get(usersCollection, &users); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("local_user_repo_load_failed: %w", err)
	}
	return users, nil
}

// # Session Repository

// LocalSessionRepository implements the SessionRepository interface as a
// single ambient current-identity pointer.
type LocalSessionRepository struct {
	store *localstore.Store
}

// storedSession is the at-rest shape of the pointer. The token must survive a
// process restart here, unlike the wire shape which strips it.
type storedSession struct {
	Session
	Token string `json:"token"`
}

// NewLocalSessionRepository creates the embedded implementation of SessionRepository.
func NewLocalSessionRepository(store *localstore.Store) *LocalSessionRepository {
	return &LocalSessionRepository{store: store}
}

/*
Create overwrites the current-identity pointer with the new session.

Description: Because the collection holds exactly one entry, overwriting it
IS the invalidation of every prior session. No separate delete step exists.

Parameters:
  - context: context.Context (unused)
  - session: *Session

Returns:
  - error: Blob persistence failures
*/
func (repository *LocalSessionRepository) Create(_ context.Context, session *Session) error {
	if err := repository.store.Put(sessionCollection, storedSession{Session: *session, Token: session.Token}); err != nil {
		return fmt.Errorf("local_session_repo_create_failed: %w", err)
	}
	return nil
}

/*
FindByToken returns the current session when the token matches the pointer.

Parameters:
  - context: context.Context (unused)
  - token: string

Returns:
  - *Session: Hydrated session
  - error: apperr.NotFound when no pointer exists or the token differs
*/
func (repository *LocalSessionRepository) FindByToken(_ context.Context, token string) (*Session, error) {
	current, err := repository.current()
	if err != nil {
		return nil, err
	}

	if current == nil || current.Token != token {
		return nil, apperr.NotFound("Session")
	}
	return current, nil
}

/*
Delete clears the current-identity pointer when the token matches it.
A non-matching or absent token is a no-op.

Parameters:
  - context: context.Context (unused)
  - token: string

Returns:
  - error: Blob persistence failures
*/
func (repository *LocalSessionRepository) Delete(_ context.Context, token string) error {
	current, err := repository.current()
	if err != nil {
		return err
	}

	if current == nil || current.Token != token {
		return nil
	}

	if err := repository.store.Delete(sessionCollection); err != nil {
		return fmt.Errorf("local_session_repo_delete_failed: %w", err)
	}
	return nil
}

/*
DeleteAllForUser clears the pointer when it belongs to the userID.

Parameters:
  - context: context.Context (unused)
  - userID: string

Returns:
  - error: Blob persistence failures
*/
func (repository *LocalSessionRepository) DeleteAllForUser(_ context.Context, userID string) error {
	current, err := repository.current()
	if err != nil {
		return err
	}

	if current == nil || current.UserID != userID {
		return nil
	}

	if err := repository.store.Delete(sessionCollection); err != nil {
		return fmt.Errorf("local_session_repo_delete_all_failed: %w", err)
	}
	return nil
}

// current reads the pointer, mapping an absent collection to nil.
func (repository *LocalSessionRepository) current() (*Session, error) {
	var stored storedSession
	if err := repository.store.Get(sessionCollection, &stored); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("local_session_repo_load_failed: %w", err)
	}

	session := stored.Session
	session.Token = stored.Token
	return &session, nil
}
