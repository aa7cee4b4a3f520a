// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// PostgreSQL implementations of the auth data access contracts.
//
// # Architecture
//
// Repositories here are strictly separated from domain logic. They implement
// the domain-defined interfaces ([UserRepository], [SessionRepository]) using
// the [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types to avoid leaking storage
// implementation details.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/dberr"
	"github.com/minhanle/photolens/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool     *pgxpool.Pool
	hashCost int
}

// NewPostgresUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewPostgresUserRepository(pool *pgxpool.Pool, hashCost int) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool, hashCost: hashCost}
}

/*
Create persists a new user record into the users.account table.

Description: Hashes the plaintext secret with the configured bcrypt work
factor before anything touches disk, so no plaintext credential ever persists
in this adapter.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)
  - secret: string (plaintext credential)

Returns:
  - error: apperr.DuplicateUsername on a username conflict, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User, secret string) error {
	const query = `
		INSERT INTO users.account (
			id, username, secret, nickname, avatarurl, email, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	hash, err := sec.HashPassword(secret, repository.hashCost)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_hash_failed: %w", err)
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err = repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		hash,
		user.Nickname,
		user.Avatar,
		user.Email,
		user.CreatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.DuplicateUsername()
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, nickname, avatarurl, email, createdat
		FROM users.account
		WHERE username = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Nickname,
		&user.Avatar,
		&user.Email,
		&user.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, username, nickname, avatarurl, email, createdat
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Nickname,
		&user.Avatar,
		&user.Email,
		&user.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
VerifyCredential checks a username/secret pair against the stored bcrypt hash.

Description: Fetches the stored hash and performs bcrypt's constant-time
comparison. The same generic error covers both an unknown username and a
wrong secret to prevent account enumeration.

Parameters:
  - context: context.Context
  - username: string
  - secret: string (plaintext)

Returns:
  - *User: The matching account on success
  - error: apperr.InvalidCredential or database errors
*/
func (repository *PostgresUserRepository) VerifyCredential(context context.Context, username, secret string) (*User, error) {
	const query = `
		SELECT id, username, secret, nickname, avatarurl, email, createdat
		FROM users.account
		WHERE username = $1`

	var storedHash string
	user := &User{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&user.ID,
		&user.Username,
		&storedHash,
		&user.Nickname,
		&user.Avatar,
		&user.Email,
		&user.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.InvalidCredential()
		}
		return nil, fmt.Errorf("postgres_user_repo_verify_failed: %w", err)
	}

	if !sec.CheckPasswordHash(secret, storedHash) {
		return nil, apperr.InvalidCredential()
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET nickname = $2, avatarurl = $3, email = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Nickname,
		user.Avatar,
		user.Email,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	return nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create establishes the single live session for a fresh login.

Description: Deletes every prior session for the user and then inserts the
new one. The two statements run back to back without a transaction, matching
the documented weak-consistency window for simultaneous logins.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const deleteQuery = "DELETE FROM users.session WHERE userid = $1"
	const insertQuery = `
		INSERT INTO users.session (
			id, userid, token, deviceinfo, createdat
		) VALUES ($1, $2, $3, $4, $5)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	if _, err := repository.pool.Exec(context, deleteQuery, session.UserID); err != nil {
		return fmt.Errorf("postgres_session_repo_invalidate_failed: %w", err)
	}

	_, err := repository.pool.Exec(context, insertQuery,
		session.ID,
		session.UserID,
		session.Token,
		session.DeviceInfo,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByToken retrieves the live session carrying the given bearer token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *Session: Hydrated session metadata
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresSessionRepository) FindByToken(context context.Context, token string) (*Session, error) {
	const query = `
		SELECT id, userid, token, deviceinfo, createdat
		FROM users.session
		WHERE token = $1`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.DeviceInfo,
		&session.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
Delete removes the session carrying the given token.

Description: Deleting an absent token affects zero rows and is not an error,
which makes logout idempotent.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresSessionRepository) Delete(context context.Context, token string) error {
	const query = "DELETE FROM users.session WHERE token = $1"
	_, err := repository.pool.Exec(context, query, token)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_failed: %w", err)
	}
	return nil
}

/*
DeleteAllForUser removes every session belonging to the userID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch deletion failures
*/
func (repository *PostgresSessionRepository) DeleteAllForUser(context context.Context, userID string) error {
	const query = "DELETE FROM users.session WHERE userid = $1"
	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_all_failed: %w", err)
	}
	return nil
}
