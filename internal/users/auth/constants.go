// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package auth

// # Identity Constraints

const (
	// UsernameMinLen is the shortest acceptable username.
	UsernameMinLen = 3

	// UsernameMaxLen is the longest acceptable username.
	UsernameMaxLen = 20

	// PasswordMinLen is the shortest acceptable password.
	PasswordMinLen = 6

	// SessionTokenLength is the byte length of the random opaque session token.
	// 32 bytes of entropy makes collision a non-event at practical scale; the
	// unique index on the token column turns the astronomically unlikely
	// collision into a retry-worthy insert error rather than a silent overwrite.
	SessionTokenLength = 32

	// LocalTokenPrefix marks tokens issued by the embedded adapter. Purely
	// cosmetic, but useful when eyeballing logs from a local-mode process.
	LocalTokenPrefix = "local_"
)
