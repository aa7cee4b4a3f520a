// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package history

import (
	"context"

	"github.com/minhanle/photolens/internal/analysis"
	"github.com/minhanle/photolens/internal/platform/apperr"
	"github.com/minhanle/photolens/pkg/uuid"
)

// # Service

// Service owns the retention policy: validation before write, the capacity
// gate, reverse-chronological listing, and the explicit expiry sweep.
//
// It is adapter-agnostic; the injected repository decides the substrate and
// its capacity constant.
type Service struct {
	repository Repository
}

// NewService constructs a new history [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// SaveInput holds the payload of a new analysis record.
type SaveInput struct {
	ImageData     string
	AnalysisImage string
	Result        string
}

/*
List returns the caller's records, newest first, capped at [ListReturnLimit].

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Record: At most ListReturnLimit records
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, userID string) ([]Record, error) {
	return service.repository.List(context, userID, ListReturnLimit)
}

/*
Save validates and persists a new analysis record for the user.

Description: The result document must pass the five-mandatory-keys check
before anything is written. The capacity gate is check-then-insert, two
separate repository calls. Under concurrent writers for one account that
leaves a narrow over-capacity race, the same accepted window the login
sequence has.

Parameters:
  - context: context.Context
  - userID: string
  - input: SaveInput

Returns:
  - *Record: The persisted record, including its minted opaque ID
  - error: apperr.ValidationError, apperr.CapacityExceeded, apperr.StorageExhausted, or storage failures
*/
func (service *Service) Save(context context.Context, userID string, input SaveInput) (*Record, error) {
	if input.ImageData == "" {
		return nil, apperr.ValidationError("Image data is required")
	}
	if input.Result == "" {
		return nil, apperr.ValidationError("Analysis result is required")
	}
	if err := analysis.ValidateDocument(input.Result); err != nil {
		return nil, err
	}

	capacity := service.repository.Capacity()
	count, err := service.repository.Count(context, userID)
	if err != nil {
		return nil, err
	}
	if count >= capacity {
		return nil, apperr.CapacityExceeded(capacity)
	}

	record := &Record{
		ID:            uuid.New(),
		UserID:        userID,
		ImageData:     input.ImageData,
		AnalysisImage: input.AnalysisImage,
		Result:        input.Result,
	}

	if err := service.repository.Insert(context, record); err != nil {
		return nil, err
	}

	return record, nil
}

/*
Delete removes one of the caller's records by its opaque ID.

Description: Deleting a nonexistent or non-owned ID is a successful no-op.

Parameters:
  - context: context.Context
  - userID: string
  - recordID: string

Returns:
  - error: Storage failures
*/
func (service *Service) Delete(context context.Context, userID, recordID string) error {
	return service.repository.Delete(context, userID, recordID)
}

/*
Cleanup sweeps the caller's records older than [MaxRecordAge].

Description: Explicitly invoked, never a background timer. Records within
the age bound stay untouched.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Number of records removed
  - error: Storage failures
*/
func (service *Service) Cleanup(context context.Context, userID string) (int, error) {
	return service.repository.SweepExpired(context, userID, MaxRecordAge)
}
