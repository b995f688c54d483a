// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package folder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harutoki/tsundoku/internal/platform/middleware"
	requestutil "github.com/harutoki/tsundoku/internal/platform/request"
	"github.com/harutoki/tsundoku/internal/platform/respond"
	"github.com/harutoki/tsundoku/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements folder-related HTTP endpoints.
type Handler struct {
	folderService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{folderService: service}
}

// Routes returns a [chi.Router] configured with folder routes.
//
// All endpoints require authentication; the owner is always taken from the
// access token, never from the payload.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{folderID}", handler.get)
	router.Patch("/{folderID}", handler.update)
	router.Delete("/{folderID}", handler.delete)

	return router
}

// # Request Payloads

type createRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

/*
List returns the user's folders with derived book counts.

GET /api/v1/folders

Response:
  - 200: []Folder: Owned folders, oldest first
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	folders, err := handler.folderService.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Serialize as an empty array rather than null when the user has no folders
	if folders == nil {
		folders = []*Folder{}
	}

	respond.OK(writer, folders)
}

/*
Get returns a single owned folder.

GET /api/v1/folders/{folderID}

Response:
  - 200: Folder: The requested folder
  - 404: ErrNotFound: Folder missing or owned by someone else
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	f, err := handler.folderService.Get(request.Context(), userID, requestutil.ID(request, "folderID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, f)
}

/*
Create adds a new folder to the user's library.

POST /api/v1/folders

Request:
  - Body: createRequest (Name, Color)

Response:
  - 201: Folder: Created folder
  - 400: ErrInvalidJSON: Bad input or blank name
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	f, err := handler.folderService.Create(request.Context(), userID, CreateInput{
		Name:  input.Name,
		Color: input.Color,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, f)
}

/*
Update applies partial changes to an owned folder.

PATCH /api/v1/folders/{folderID}

Request:
  - Body: updateRequest (Name, Color; omitted fields are unchanged)

Response:
  - 200: Folder: Updated folder
  - 400: ErrInvalidJSON: Bad input or blank name
  - 404: ErrNotFound: Folder missing or owned by someone else
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	f, err := handler.folderService.Update(request.Context(), userID, requestutil.ID(request, "folderID"), UpdateInput{
		Name:  input.Name,
		Color: input.Color,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, f)
}

/*
Delete removes an owned folder and everything in it.

DELETE /api/v1/folders/{folderID}

Response:
  - 204: No Content: Folder removed
  - 404: ErrNotFound: Folder missing or owned by someone else
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.folderService.Delete(request.Context(), userID, requestutil.ID(request, "folderID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
