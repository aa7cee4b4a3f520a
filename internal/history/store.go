// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package history

import (
	"context"
	"time"
)

// # History Data Access

// Repository defines the data access contract for history records. Both the
// PostgreSQL and the embedded implementations honor identical semantics;
// each carries its own capacity constant.
type Repository interface {

	/*
		List returns the user's records in reverse-chronological order,
		truncated to limit.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int

		Returns:
		  - []Record: Newest first
		  - error: Retrieval failures
	*/
	List(context context.Context, userID string, limit int) ([]Record, error)

	/*
		Insert persists a new record. The capacity check happens in the
		service layer before this is called; Insert itself only writes.

		Parameters:
		  - context: context.Context
		  - record: *Record

		Returns:
		  - error: apperr.StorageExhausted (embedded mode, after the eviction
		    retry fails) or persistence failures
	*/
	Insert(context context.Context, record *Record) error

	/*
		Delete removes the record with the given opaque ID when it belongs to
		the userID. A nonexistent or non-owned ID is a no-op, not an error.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - recordID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, userID, recordID string) error

	/*
		SweepExpired deletes every record of the user older than maxAge and
		reports how many were removed. Records within the age bound are left
		untouched regardless of order.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - maxAge: time.Duration

		Returns:
		  - int: Number of records removed
		  - error: Persistence failures
	*/
	SweepExpired(context context.Context, userID string, maxAge time.Duration) (int, error)

	/*
		Count returns how many records the user currently has.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int: Current record count
		  - error: Retrieval failures
	*/
	Count(context context.Context, userID string) (int, error)

	// Capacity returns the per-user record limit this adapter enforces.
	Capacity() int
}
