// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package book

import "context"

// # Book Data Access

// Filter narrows a book list query. Zero values mean "no constraint".
type Filter struct {
	FolderID string   // Restrict to one folder
	Status   Status   // Restrict to one status
	Genre    []string // Keep books tagged with at least one of these genres
}

// Repository defines the data access contract for books.
//
// Every method takes the owning user's ID; implementations must scope all
// reads and writes to that owner.
type Repository interface {

	/*
		ListByUser returns the user's books matching the filter, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - filter: Filter

		Returns:
		  - []*Book: Hydrated entities
		  - error: Database retrieval failures
	*/
	ListByUser(context context.Context, userID string, filter Filter) ([]*Book, error)

	/*
		FindByID returns the user's book with the given ID.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string

		Returns:
		  - *Book: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, userID, bookID string) (*Book, error)

	/*
		Create persists a new book.

		Parameters:
		  - context: context.Context
		  - book: *Book

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, book *Book) error

	/*
		Update persists the full mutable state of an existing book.

		Parameters:
		  - context: context.Context
		  - book: *Book

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, book *Book) error

	/*
		Delete removes the user's book.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - bookID: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, userID, bookID string) error
}
