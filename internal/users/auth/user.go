// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the logic for
registration, login, and bearer-token resolution.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
The same entities are persisted by two interchangeable adapters: a PostgreSQL
repository pair and an embedded blob-store pair.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Photolens platform.
//
// The credential secret is deliberately NOT a field of this entity. It enters
// the system once at registration, lives only inside the storage adapter, and
// is never exposed to callers afterwards.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents the single live bearer-token session of a user.
//
// At most one session per user is live at any moment. Creating a new session
// invalidates every prior one for that user as part of the same operation.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Token      string    `json:"-"` // Opaque bearer credential. Omitted for security.
	DeviceInfo string    `json:"device_info,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername   = "username"
	FieldPassword   = "password"
	FieldNickname   = "nickname"
	FieldAvatar     = "avatar"
	FieldEmail      = "email"
	FieldToken      = "token"
	FieldUser       = "user"
	FieldDeviceInfo = "device_info"
)
