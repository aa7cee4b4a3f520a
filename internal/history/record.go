// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

/*
Package history implements the capacity- and expiry-bounded analysis history.

Each user keeps a bounded shelf of past analyses. Inserts are rejected once
the shelf is full, stale records are removed only by an explicit sweep, and
listings always come back newest first. The same policy layer runs against
either storage adapter; only the capacity constant and the embedded mode's
quota-eviction write path differ between them.
*/
package history

import "time"

// # Domain Entity

// Record is one persisted analysis: the photo, the annotated overlay image,
// and the structured result document, serialized as text.
//
// ID is an opaque record identifier, distinct from any storage row key. It is
// the handle callers use to delete a record.
type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ImageData     string    `json:"image_data"`
	AnalysisImage string    `json:"analysis_image,omitempty"`
	Result        string    `json:"result"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExpiredBy reports whether the record's age strictly exceeds the cutoff.
// A record created exactly at the cutoff instant is not yet expired.
func (record Record) ExpiredBy(cutoff time.Time) bool {
	return record.CreatedAt.Before(cutoff)
}

// # Retention Policy

const (
	// ServerCapacity is the per-user record limit in relational mode.
	ServerCapacity = 50

	// LocalCapacity is the per-user record limit in embedded mode. Smaller
	// than the server limit on purpose; the two constants are independent
	// configuration, not one derived from the other.
	LocalCapacity = 5

	// ListReturnLimit caps how many records a listing returns, independent
	// of the storage capacity.
	ListReturnLimit = 50

	// MaxRecordAge is the age past which a record becomes sweep-eligible.
	// Nothing is deleted automatically; only an explicit sweep removes them.
	MaxRecordAge = 24 * time.Hour

	// QuotaEvictKeep is how many most-recent records survive the eviction
	// pass the embedded adapter runs when its blob quota rejects a write.
	QuotaEvictKeep = 3
)

// # Field Identifiers

const (
	FieldImageData     = "image_data"
	FieldAnalysisImage = "analysis_image"
	FieldResult        = "result"
	FieldRecord        = "record"
	FieldRecords       = "records"
	FieldDeleted       = "deleted"
)
