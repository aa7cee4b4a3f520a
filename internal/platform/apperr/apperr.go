// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

/*
Package apperr defines the centralized error handling framework for Photolens.

It provides a rich error type that bridges the gap between low-level storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: One constructor per error category the storage contract can produce.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses. The two 401 variants matter: clients rely on the
machine code to tell a missing token (UNAUTHENTICATED) apart from a token that
was invalidated by a newer login elsewhere (SESSION_INVALID).
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

// Machine-readable codes consumed by API clients. These are part of the wire
// contract and must not be renamed.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeDuplicateUser    = "DUPLICATE_USERNAME"
	CodeInvalidCred      = "INVALID_CREDENTIAL"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeSessionInvalid   = "SESSION_INVALID"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeNotFound         = "NOT_FOUND"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeStorageExhausted = "STORAGE_EXHAUSTED"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Photolens API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "SESSION_INVALID").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// DuplicateUsername creates a 400 [AppError] for a username that is already taken.
func DuplicateUsername() *AppError {
	return &AppError{
		Code:       CodeDuplicateUser,
		Message:    "Username is already taken",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidCredential creates a 400 [AppError] for a failed login attempt.
//
// The message is deliberately generic to prevent account enumeration.
func InvalidCredential() *AppError {
	return &AppError{
		Code:       CodeInvalidCred,
		Message:    "Invalid username or password",
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unauthenticated creates a 401 [AppError] for requests carrying no token at all.
func Unauthenticated() *AppError {
	return &AppError{
		Code:       CodeUnauthenticated,
		Message:    "Authentication required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// SessionInvalid creates a 401 [AppError] for a token that no longer resolves
// to a live session, typically because a newer login elsewhere replaced it.
func SessionInvalid() *AppError {
	return &AppError{
		Code:       CodeSessionInvalid,
		Message:    "Session expired or signed in on another device",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// UserGone creates a 401 [AppError] for a live session whose user record no
// longer exists. The caller discards the session before returning this.
func UserGone() *AppError {
	return &AppError{
		Code:       CodeUserNotFound,
		Message:    "User no longer exists",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("History record") // Returns "History record not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// CapacityExceeded creates a 400 [AppError] for a per-user record limit breach.
func CapacityExceeded(limit int) *AppError {
	return &AppError{
		Code:       CodeCapacityExceeded,
		Message:    fmt.Sprintf("History limit reached (%d records), delete older records first", limit),
		HTTPStatus: http.StatusBadRequest,
	}
}

// # Server Errors (5xx)

// StorageExhausted creates a 507 [AppError] raised by the embedded adapter when
// a write still fails after the eviction retry.
func StorageExhausted() *AppError {
	return &AppError{
		Code:       CodeStorageExhausted,
		Message:    "Local storage is full",
		HTTPStatus: http.StatusInsufficientStorage,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given machine code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
