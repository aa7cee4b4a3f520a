// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package auth

import "context"

// # User Data Access
//
// Both the PostgreSQL and the embedded implementations of these contracts
// must honor identical semantics. Credential encoding is the one sanctioned
// divergence: the relational adapter stores a salted one-way hash, the
// embedded adapter stores the plaintext secret (a documented property of its
// single-user, single-device trust model). Because of that, the secret is
// handed to the repository and never read back out.

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account together with its credential secret.

		Parameters:
		  - context: context.Context
		  - user: *User
		  - secret: string (plaintext; adapter decides the at-rest encoding)

		Returns:
		  - error: apperr.DuplicateUsername on a username conflict, or persistence failures
	*/
	Create(context context.Context, user *User, secret string) error

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		VerifyCredential checks a username/secret pair against stored credentials.

		Parameters:
		  - context: context.Context
		  - username: string
		  - secret: string (plaintext, compared per the adapter's encoding)

		Returns:
		  - *User: The matching account on success
		  - error: apperr.InvalidCredential when either part of the pair is wrong
	*/
	VerifyCredential(context context.Context, username, secret string) (*User, error)

	/*
		Update persists changes to mutable profile fields (nickname, avatar, email).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error
}

// # Session Data Access

// SessionRepository defines the data access contract for bearer-token sessions.
type SessionRepository interface {

	/*
		Create establishes the session for a fresh login.

		It first removes every prior session belonging to session.UserID and then
		inserts the new one. This delete-then-insert ordering is what enforces the
		single-active-session invariant: a login from a second context immediately
		invalidates every other live token for the account.

		The two steps are deliberately separate statements, not one transaction.
		Two simultaneous logins for one account can interleave so that two
		sessions briefly coexist. That weak-consistency window is accepted.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByToken resolves an opaque bearer token to its live session.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *Session: Hydrated session
		  - error: apperr.NotFound when no live session carries the token
	*/
	FindByToken(context context.Context, token string) (*Session, error)

	/*
		Delete removes the session carrying the given token. Removing an absent
		token is a no-op.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error

	/*
		DeleteAllForUser removes every session belonging to the userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteAllForUser(context context.Context, userID string) error
}
