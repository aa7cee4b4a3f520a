// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// HTTP delivery layer for user identity management.
//
// # Architecture
//
// The handler acts as a thin mediation layer between the web and the domain
// service:
//   - Protocol: Standard RESTful JSON interface.
//   - Security: Bearer tokens only; the token never travels in a cookie.
//   - Verification: Enforces strict input validation before passing to [Service].
//
// This layer is strictly responsible for transport concerns (status codes, headers, JSON).

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhanle/photolens/internal/platform/middleware"
	requestutil "github.com/minhanle/photolens/internal/platform/request"
	"github.com/minhanle/photolens/internal/platform/respond"
	"github.com/minhanle/photolens/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with identity routes.
//
// # Endpoints
//   - POST /register : Creates a new account and returns its first token.
//   - POST /login    : Authenticates and returns a fresh token.
//   - POST /logout   : Discards the caller's session.
//   - GET  /verify   : Confirms the token still resolves.
//   - GET  /user     : Returns the caller's profile.
//   - PUT  /user     : Updates the caller's profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/verify", handler.verify)
		r.Get("/user", handler.getUser)
		r.Put("/user", handler.updateUser)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
}

/*
Register handles the creation of a new user account.

POST /api/register

Description: Validates input, checks for username conflicts, persists the new
account, and returns its first live session token.

Request:
  - Body: registerRequest (Username, Password, Nickname, Email)

Response:
  - 200: AuthSession: token and created user profile
  - 400: ErrInvalidJSON / validation failure / DUPLICATE_USERNAME
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLen).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLen).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:   input.Username,
		Password:   input.Password,
		Nickname:   input.Nickname,
		Email:      input.Email,
		DeviceInfo: request.UserAgent(),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Login authenticates a user and establishes the single live session.

POST /api/login

Description: Verifies credentials against the active adapter and issues a
fresh opaque token. Any previously live token for the account stops working
the moment this call succeeds.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: AuthSession: token and user profile
  - 400: INVALID_CREDENTIAL or validation failure
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username:   input.Username,
		Password:   input.Password,
		DeviceInfo: request.UserAgent(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Logout terminates the caller's session.

POST /api/logout

Description: Deletes the session carrying the caller's token. Idempotent.

Response:
  - 200: {"success": true}
  - 401: UNAUTHENTICATED / SESSION_INVALID
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), identity.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Success(writer)
}

/*
Verify confirms that the caller's token still resolves to a live session.

GET /api/verify

Description: The heavy lifting happened in the authentication middleware. If
execution reaches this handler, the token is valid, so it just echoes the
resolved profile.

Response:
  - 200: {"user": User}
  - 401: UNAUTHENTICATED / SESSION_INVALID / USER_NOT_FOUND
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetProfile(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

/*
GetUser returns the caller's profile.

GET /api/user

Response:
  - 200: {"user": User}
  - 401: UNAUTHENTICATED / SESSION_INVALID
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetProfile(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

/*
UpdateUser updates the caller's mutable profile fields.

PUT /api/user

Request:
  - Body: updateUserRequest (Nickname, Avatar, Email; omitted fields stay unchanged)

Response:
  - 200: {"user": User} with the refreshed profile
  - 400: validation failure
  - 401: UNAUTHENTICATED / SESSION_INVALID
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateProfile(request.Context(), identity.UserID, UpdateProfileInput{
		Nickname: input.Nickname,
		Avatar:   input.Avatar,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}
