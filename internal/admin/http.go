// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harutoki/tsundoku/internal/platform/middleware"
	requestutil "github.com/harutoki/tsundoku/internal/platform/request"
	"github.com/harutoki/tsundoku/internal/platform/respond"
	"github.com/harutoki/tsundoku/internal/platform/sec"
	"github.com/harutoki/tsundoku/pkg/convert"
)

// # Definitions & Constructors

// Handler implements the administrative HTTP endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] configured with admin routes.
//
// The whole subtree is gated on the admin role; non-admin tokens receive
// 403 before any aggregation work happens.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/stats", handler.stats)
	router.Get("/users", handler.listUsers)
	router.Delete("/users/{userID}", handler.deleteUser)
	router.Get("/books", handler.listBooks)
	router.Delete("/books/{bookID}", handler.deleteBook)

	return router
}

/*
Stats returns the aggregate usage overview.

GET /api/v1/admin/stats

Response:
  - 200: Stats: Totals, active estimate, and genre digest
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.adminService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

/*
ListUsers returns every account with its derived book count.

GET /api/v1/admin/users

Response:
  - 200: []UserRow: Account listing
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.adminService.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if users == nil {
		users = []*UserRow{}
	}

	respond.OK(writer, users)
}

/*
DeleteUser removes an account and its entire library.

DELETE /api/v1/admin/users/{userID}

Response:
  - 204: No Content: Account removed
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.adminService.DeleteUser(request.Context(), requestutil.ID(request, "userID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ListBooks returns the newest books across every library, capped.

GET /api/v1/admin/books?limit=

Request:
  - limit: optional row cap; malformed or oversized values fall back to
    the maximum

Response:
  - 200: []BookRow: Recent books with owner emails
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	limit := convert.ToIntD(request.URL.Query().Get("limit"), RecentBookLimit)

	books, err := handler.adminService.ListRecentBooks(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if books == nil {
		books = []*BookRow{}
	}

	respond.OK(writer, books)
}

/*
DeleteBook removes a single book from any library.

DELETE /api/v1/admin/books/{bookID}

Response:
  - 204: No Content: Book removed
  - 404: ErrNotFound: No such book
*/
func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	if err := handler.adminService.DeleteBook(request.Context(), requestutil.ID(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
