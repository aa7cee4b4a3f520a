// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package sec

// Identity is the authenticated caller attached to the request context after
// a bearer token has been resolved against the session store.
//
// # Why not the full User entity?
//
// Keeping a transport-neutral snapshot here decouples the middleware from the
// users domain package and guarantees the credential secret can never leak
// into the request context.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`

	// Token is the raw bearer token that resolved to this identity.
	// Needed by logout, never serialized.
	Token string `json:"-"`
}
