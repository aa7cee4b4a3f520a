// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// Package sec provides the cryptographic primitives of the platform:
// credential hashing and opaque session token generation.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. The
// server-backed storage adapter is its only credential-hashing consumer; the
// embedded adapter deliberately stores secrets in the clear (documented
// single-user trust model) and never calls into this package for hashing.
package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when no cost is configured.
// Matches the cost the production deployment has always used.
const DefaultHashCost = 10

// HashPassword hashes a plain-text password using bcrypt with the given work
// factor. A cost of 0 selects [DefaultHashCost].
func HashPassword(plainTextPassword string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultHashCost
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// bcrypt performs the comparison in constant time.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
