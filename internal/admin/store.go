// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package admin

import (
	"context"
	"time"
)

// # Aggregate Data Access

// Repository defines the cross-user data access contract for the
// administrative overview.
type Repository interface {

	/*
		Counts returns the global user, book, and folder totals in one call.

		Parameters:
		  - context: context.Context

		Returns:
		  - users, books, folders: int
		  - error: Database retrieval failures
	*/
	Counts(context context.Context) (users, books, folders int, err error)

	/*
		ListRecentBooks returns the newest books across every library,
		capped at limit.

		Parameters:
		  - context: context.Context
		  - limit: int

		Returns:
		  - []*BookRow: Hydrated listing rows
		  - error: Database retrieval failures
	*/
	ListRecentBooks(context context.Context, limit int) ([]*BookRow, error)

	/*
		ListUsers returns every account with its derived book count.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*UserRow: Hydrated listing rows
		  - error: Database retrieval failures
	*/
	ListUsers(context context.Context) ([]*UserRow, error)

	/*
		DeleteUser removes an account and, via cascade, its entire library.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	DeleteUser(context context.Context, userID string) error

	/*
		DeleteBook removes a single book from any library.

		Parameters:
		  - context: context.Context
		  - bookID: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	DeleteBook(context context.Context, bookID string) error
}

// # Overview Cache

// StatsCache is a short-lived store for the computed overview, keeping
// repeated dashboard loads off the database.
type StatsCache interface {

	/*
		Get returns the cached overview, or ok=false on a miss.

		Parameters:
		  - context: context.Context

		Returns:
		  - *Stats: Cached overview
		  - bool: Hit indicator
		  - error: Cache transport failures
	*/
	Get(context context.Context) (*Stats, bool, error)

	/*
		Set stores a freshly computed overview for the given duration.

		Parameters:
		  - context: context.Context
		  - stats: *Stats
		  - ttl: time.Duration

		Returns:
		  - error: Cache transport failures
	*/
	Set(context context.Context, stats *Stats, ttl time.Duration) error

	/*
		Invalidate drops the cached overview so the next read recomputes.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Cache transport failures
	*/
	Invalidate(context context.Context) error
}
