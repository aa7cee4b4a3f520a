// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/sec"
	"github.com/minhanle/photolens/pkg/uuid"
)

// # Service

// Service implements the user identity use cases: registration, login,
// logout, bearer-token resolution, and profile management.
//
// It is adapter-agnostic. The same service orchestrates either the PostgreSQL
// repositories or the embedded ones, chosen once at composition time.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenPrefix       string

	// onSessionInvalid fires when a previously issued token is rejected
	// because a newer login elsewhere displaced it. Edge-triggered: at most
	// once per distinct rejected token, at the moment of rejection.
	onSessionInvalid func(token string)

	notifyMutex sync.Mutex
	notified    map[string]struct{}
}

// NewService constructs a new [Service] with its repository dependencies.
//
// tokenPrefix is prepended to every issued token. The embedded adapter passes
// [LocalTokenPrefix]; the relational adapter passes the empty string.
func NewService(userRepo UserRepository, sessionRepo SessionRepository, tokenPrefix string) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenPrefix:       tokenPrefix,
		notified:          make(map[string]struct{}),
	}
}

// SetSessionInvalidHook registers the one-shot invalidation notification.
//
// The callback runs synchronously inside the rejecting request. Callers use
// it to clear cached credentials and force re-authentication. Passing nil
// disables the notification.
func (service *Service) SetSessionInvalidHook(hook func(token string)) {
	service.onSessionInvalid = hook
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username   string
	Password   string
	Nickname   string
	Email      string
	DeviceInfo string
}

// AuthSession represents a successfully established login: the opaque bearer
// token plus the public profile of its owner.
type AuthSession struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

/*
Register validates uniqueness, persists a brand-new account, and immediately
establishes its first session.

Description: Registration doubles as the first login. The caller receives a
live token without a separate login round trip.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthSession: Live token and created profile
  - error: apperr.DuplicateUsername or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthSession, error) {

	// Pre-check username uniqueness for a clean client-safe error. The unique
	// index remains the real guard against the concurrent-register race.
	if _, err := service.userRepository.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.DuplicateUsername()
	}

	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Nickname: input.Nickname,
		Email:    input.Email,
	}
	if user.Nickname == "" {
		user.Nickname = input.Username
	}

	if err := service.userRepository.Create(context, user, input.Password); err != nil {
		return nil, err
	}

	return service.establishSession(context, user, input.DeviceInfo)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username   string
	Password   string
	DeviceInfo string
}

/*
Login validates user credentials and establishes the single live session.

Description: Credential verification is delegated to the active adapter
(constant-time bcrypt comparison in relational mode, plain equality in
embedded mode). Session creation displaces every prior session for the
account, which is what enforces single-active-session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthSession: Live token and profile
  - error: apperr.InvalidCredential or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthSession, error) {
	user, err := service.userRepository.VerifyCredential(context, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	return service.establishSession(context, user, input.DeviceInfo)
}

/*
Logout removes the session carrying the given token.

Description: Idempotent. A token that no longer resolves is already logged
out, so the operation still reports success.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Storage failures
*/
func (service *Service) Logout(context context.Context, token string) error {
	if token == "" {
		return nil
	}
	return service.sessionRepository.Delete(context, token)
}

// establishSession mints an opaque token and persists the session for it.
func (service *Service) establishSession(context context.Context, user *User, deviceInfo string) (*AuthSession, error) {
	raw, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	session := &Session{
		ID:         uuid.New(),
		UserID:     user.ID,
		Token:      service.tokenPrefix + raw,
		DeviceInfo: deviceInfo,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &AuthSession{Token: session.Token, User: user}, nil
}

// # Token Resolution

/*
Resolve maps an opaque bearer token to the identity of its owner.

Description: Failure modes apply in strict priority order. An absent token is
Unauthenticated. A token that resolves to no live session is SessionInvalid,
which also fires the one-shot invalidation notification. A session whose user
record has vanished is fatal to the session: the session is discarded and the
caller receives a user-gone rejection.

Parameters:
  - context: context.Context
  - token: string (empty when the caller supplied no credential)

Returns:
  - *sec.Identity: Resolved caller identity
  - error: apperr.Unauthenticated, apperr.SessionInvalid, apperr.UserGone, or storage failures
*/
func (service *Service) Resolve(context context.Context, token string) (*sec.Identity, error) {
	if token == "" {
		return nil, apperr.Unauthenticated()
	}

	session, err := service.sessionRepository.FindByToken(context, token)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			service.notifySessionInvalid(token)
			return nil, apperr.SessionInvalid()
		}
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			// The session points at a ghost. Discard it so the token can
			// never half-authenticate again.
			_ = service.sessionRepository.Delete(context, token)
			return nil, apperr.UserGone()
		}
		return nil, err
	}

	return &sec.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Nickname: user.Nickname,
		Avatar:   user.Avatar,
		Email:    user.Email,
		Token:    token,
	}, nil
}

// notifiedCap bounds the dedup set in long-lived processes. When the cap is
// reached the set resets, so a token displaced before a reset may fire the
// hook a second time if it is ever presented again.
const notifiedCap = 4096

// notifySessionInvalid fires the hook at most once per distinct token.
func (service *Service) notifySessionInvalid(token string) {
	if service.onSessionInvalid == nil {
		return
	}

	service.notifyMutex.Lock()
	if _, seen := service.notified[token]; seen {
		service.notifyMutex.Unlock()
		return
	}
	if len(service.notified) >= notifiedCap {
		service.notified = make(map[string]struct{})
	}
	service.notified[token] = struct{}{}
	service.notifyMutex.Unlock()

	service.onSessionInvalid(token)
}

// # Profile Management

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	Nickname string
	Avatar   string
	Email    string
}

/*
GetProfile returns the public profile of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated profile
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

/*
UpdateProfile applies changes to the mutable profile fields and returns the
refreshed entity.

Description: Only nickname, avatar, and email are caller-mutable. Username
and credential are fixed after registration in this subsystem.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *User: Updated profile
  - error: apperr.NotFound or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.Nickname != "" {
		user.Nickname = input.Nickname
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.Email != "" {
		user.Email = input.Email
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}
