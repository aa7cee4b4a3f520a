// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// HTTP delivery layer for the analysis history.

package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhanle/photolens/internal/platform/middleware"
	requestutil "github.com/minhanle/photolens/internal/platform/request"
	"github.com/minhanle/photolens/internal/platform/respond"
	"github.com/minhanle/photolens/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements history-related HTTP endpoints.
type Handler struct {
	historyService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{historyService: service}
}

// Routes returns a [chi.Router] configured with history routes.
//
// Every endpoint requires a resolved identity; the authentication middleware
// upstream already turned the bearer token into one (or rejected it).
//
// # Endpoints
//   - GET    /            : Lists the caller's records, newest first.
//   - POST   /            : Saves a new analysis record.
//   - DELETE /{recordID}  : Removes one record by its opaque ID.
//   - POST   /cleanup     : Sweeps records older than the age bound.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.save)
	router.Delete("/{recordID}", handler.remove)
	router.Post("/cleanup", handler.cleanup)

	return router
}

// # Request Payloads

type saveRequest struct {
	ImageData     string `json:"image_data"`
	AnalysisImage string `json:"analysis_image"`
	Result        string `json:"result"`
}

/*
List returns the caller's history.

GET /api/history

Response:
  - 200: {"records": [Record]} newest first, at most ListReturnLimit entries
  - 401: UNAUTHENTICATED / SESSION_INVALID
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.historyService.List(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldRecords: records})
}

/*
Save persists a new analysis record.

POST /api/history

Request:
  - Body: saveRequest (ImageData, AnalysisImage, Result)

Response:
  - 200: {"record": Record} with the minted opaque ID
  - 400: VALIDATION_ERROR (incomplete document) or CAPACITY_EXCEEDED
  - 401: UNAUTHENTICATED / SESSION_INVALID
  - 507: STORAGE_EXHAUSTED (embedded mode, after eviction retry)
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input saveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	record, err := handler.historyService.Save(request.Context(), identity.UserID, SaveInput{
		ImageData:     input.ImageData,
		AnalysisImage: input.AnalysisImage,
		Result:        input.Result,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldRecord: record})
}

/*
Remove deletes one record by its opaque ID.

DELETE /api/history/{recordID}

Description: Succeeds whether or not the ID existed; a nonexistent or
non-owned ID is a no-op.

Response:
  - 200: {"success": true}
  - 401: UNAUTHENTICATED / SESSION_INVALID
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recordID := requestutil.Param(request, "recordID")
	if err := handler.historyService.Delete(request.Context(), identity.UserID, recordID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Success(writer)
}

/*
Cleanup sweeps the caller's expired records.

POST /api/history/cleanup

Response:
  - 200: {"deleted": N} count of removed records
  - 401: UNAUTHENTICATED / SESSION_INVALID
*/
func (handler *Handler) cleanup(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.historyService.Cleanup(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldDeleted: deleted})
}
