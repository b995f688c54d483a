// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package book

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harutoki/tsundoku/internal/platform/middleware"
	requestutil "github.com/harutoki/tsundoku/internal/platform/request"
	"github.com/harutoki/tsundoku/internal/platform/respond"
	"github.com/harutoki/tsundoku/internal/platform/validate"
	"github.com/harutoki/tsundoku/pkg/query"
)

// # Definitions & Constructors

// Handler implements book-related HTTP endpoints.
type Handler struct {
	bookService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{bookService: service}
}

// Routes returns a [chi.Router] configured with book routes.
//
// All endpoints require authentication; the owner is always taken from the
// access token, never from the payload.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{bookID}", handler.get)
	router.Patch("/{bookID}", handler.update)
	router.Delete("/{bookID}", handler.delete)
	router.Post("/{bookID}/move", handler.move)
	router.Post("/{bookID}/copy", handler.copy)

	return router
}

// # Request Payloads

type createBookRequest struct {
	FolderID      string     `json:"folder_id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Status        Status     `json:"status"`
	Progress      int        `json:"progress"`
	TotalChapters int        `json:"total_chapters"`
	Rating        float64    `json:"rating"`
	CoverURL      string     `json:"cover_url"`
	Notes         string     `json:"notes"`
	Synopsis      string     `json:"synopsis"`
	Genre         []string   `json:"genre"`
	Tags          []string   `json:"tags"`
	Year          *int       `json:"year"`
	Publisher     string     `json:"publisher"`
	Language      string     `json:"language"`
	Favorite      bool       `json:"favorite"`
	StartDate     *time.Time `json:"start_date"`
}

type updateBookRequest struct {
	FolderID      *string    `json:"folder_id"`
	Title         *string    `json:"title"`
	Author        *string    `json:"author"`
	Status        *Status    `json:"status"`
	Progress      *int       `json:"progress"`
	TotalChapters *int       `json:"total_chapters"`
	Rating        *float64   `json:"rating"`
	CoverURL      *string    `json:"cover_url"`
	Notes         *string    `json:"notes"`
	Synopsis      *string    `json:"synopsis"`
	Genre         []string   `json:"genre"`
	Tags          []string   `json:"tags"`
	Year          *int       `json:"year"`
	Publisher     *string    `json:"publisher"`
	Language      *string    `json:"language"`
	Favorite      *bool      `json:"favorite"`
	StartDate     *time.Time `json:"start_date"`
}

type placementRequest struct {
	FolderID string `json:"folder_id"`
}

/*
List returns the user's books, optionally filtered.

GET /api/v1/books?folder_id=&status=&genre=

Request:
  - genre: comma-separated; matches books carrying any listed genre

Response:
  - 200: []Book: Matching books, newest first
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		FolderID: request.URL.Query().Get("folder_id"),
		Status:   Status(request.URL.Query().Get("status")),
		Genre:    query.StringSlice(request.URL.Query().Get("genre")),
	}

	books, err := handler.bookService.List(request.Context(), userID, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Serialize as an empty array rather than null for an empty library
	if books == nil {
		books = []*Book{}
	}

	respond.OK(writer, books)
}

/*
Get returns a single owned book.

GET /api/v1/books/{bookID}

Response:
  - 200: Book: The requested book
  - 404: ErrNotFound: Book missing or owned by someone else
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	b, err := handler.bookService.Get(request.Context(), userID, requestutil.ID(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, b)
}

/*
Create adds a new tracked title to one of the user's folders.

POST /api/v1/books

Request:
  - Body: createBookRequest

Response:
  - 201: Book: Created book with defaults and clamping applied
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound: Target folder missing or owned by someone else
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	b, err := handler.bookService.Create(request.Context(), userID, CreateInput{
		FolderID:      input.FolderID,
		Title:         input.Title,
		Author:        input.Author,
		Status:        input.Status,
		Progress:      input.Progress,
		TotalChapters: input.TotalChapters,
		Rating:        input.Rating,
		CoverURL:      input.CoverURL,
		Notes:         input.Notes,
		Synopsis:      input.Synopsis,
		Genre:         input.Genre,
		Tags:          input.Tags,
		Year:          input.Year,
		Publisher:     input.Publisher,
		Language:      input.Language,
		Favorite:      input.Favorite,
		StartDate:     input.StartDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, b)
}

/*
Update applies partial changes to an owned book.

PATCH /api/v1/books/{bookID}

Request:
  - Body: updateBookRequest (omitted fields are unchanged)

Response:
  - 200: Book: Updated book with progress rules applied
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound: Book or target folder missing
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	b, err := handler.bookService.Update(request.Context(), userID, requestutil.ID(request, "bookID"), UpdateInput{
		FolderID:      input.FolderID,
		Title:         input.Title,
		Author:        input.Author,
		Status:        input.Status,
		Progress:      input.Progress,
		TotalChapters: input.TotalChapters,
		Rating:        input.Rating,
		CoverURL:      input.CoverURL,
		Notes:         input.Notes,
		Synopsis:      input.Synopsis,
		Genre:         input.Genre,
		Tags:          input.Tags,
		Year:          input.Year,
		Publisher:     input.Publisher,
		Language:      input.Language,
		Favorite:      input.Favorite,
		StartDate:     input.StartDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, b)
}

/*
Delete removes an owned book.

DELETE /api/v1/books/{bookID}

Response:
  - 204: No Content: Book removed
  - 404: ErrNotFound: Book missing or owned by someone else
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.bookService.Delete(request.Context(), userID, requestutil.ID(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Move relocates an owned book into another owned folder.

POST /api/v1/books/{bookID}/move

Request:
  - Body: placementRequest (FolderID)

Response:
  - 200: Book: The book in its new folder
  - 404: ErrNotFound: Book or target folder missing
*/
func (handler *Handler) move(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input placementRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.FolderID == "" {
		respond.Error(writer, request, validate.RequiredError(FieldFolderID, "is required"))
		return
	}

	b, err := handler.bookService.Move(request.Context(), userID, requestutil.ID(request, "bookID"), input.FolderID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, b)
}

/*
Copy duplicates an owned book into another owned folder.

POST /api/v1/books/{bookID}/copy

Request:
  - Body: placementRequest (FolderID)

Response:
  - 201: Book: The newly created duplicate
  - 404: ErrNotFound: Book or target folder missing
*/
func (handler *Handler) copy(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input placementRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.FolderID == "" {
		respond.Error(writer, request, validate.RequiredError(FieldFolderID, "is required"))
		return
	}

	b, err := handler.bookService.Copy(request.Context(), userID, requestutil.ID(request, "bookID"), input.FolderID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, b)
}
