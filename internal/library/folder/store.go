// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package folder

import "context"

// # Folder Data Access

// Repository defines the data access contract for folders.
//
// Every method takes the owning user's ID; implementations must scope all
// reads and writes to that owner.
type Repository interface {

	/*
		ListByUser returns all folders belonging to the user, oldest first,
		each hydrated with its derived book count.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Folder: Hydrated entities
		  - error: Database retrieval failures
	*/
	ListByUser(context context.Context, userID string) ([]*Folder, error)

	/*
		FindByID returns the user's folder with the given ID.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - folderID: string

		Returns:
		  - *Folder: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, userID, folderID string) (*Folder, error)

	/*
		Create persists a new folder.

		Parameters:
		  - context: context.Context
		  - folder: *Folder

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, folder *Folder) error

	/*
		Update persists name and color changes to an existing folder.

		Parameters:
		  - context: context.Context
		  - folder: *Folder

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, folder *Folder) error

	/*
		Delete removes the user's folder. Books inside are removed by the
		storage layer's cascade.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - folderID: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, userID, folderID string) error
}
