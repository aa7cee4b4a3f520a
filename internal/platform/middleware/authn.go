// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// Package middleware provides the HTTP middleware chain for the Photolens API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. Authentication is resolved against
// the session store on every privileged call. Tokens are opaque and
// revocable, so there is nothing to verify offline.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/internal/platform/ctxutil"
	"github.com/minhanle/photolens/internal/platform/respond"
	"github.com/minhanle/photolens/internal/platform/sec"
)

// TokenResolver defines the interface needed to resolve bearer tokens.
//
// # Why an interface?
//
// Defining TokenResolver here decouples the middleware from the auth
// service implementation, allowing us to easily inject fakes during unit
// testing.
type TokenResolver interface {
	// Resolve maps a raw bearer token to the caller identity. It returns
	// apperr.SessionInvalid for unknown/replaced tokens and apperr.UserGone
	// when the session points at a deleted account.
	Resolve(ctx context.Context, token string) (*sec.Identity, error)
}

// Authenticate extracts and resolves the bearer token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, resolve the token against the live session store.
//  4. Inject [*sec.Identity] into the request context for downstream use.
//
// Resolution failures abort the request immediately: a presented-but-dead
// token must surface SESSION_INVALID rather than fall through to a generic
// 401, because the client clears its cached credentials on that exact code.
func Authenticate(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthenticated())
				return
			}

			// ── 3. Token Resolution ───────────────────────────────────────────
			token := parts[1]
			identity, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 UNAUTHENTICATED.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthenticated())
			return
		}
		next.ServeHTTP(writer, request)
	})
}
