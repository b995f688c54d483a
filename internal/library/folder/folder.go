// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package folder implements the shelf layer of a Tsundoku library.

A folder is a named, colored grouping of books owned by exactly one user.
Folders carry no content of their own; the number of books they hold is
always derived from the book table at query time, never stored.

Core Responsibility:

  - Grouping: Creation, renaming, recoloring, and removal of shelves.
  - Ownership: Every query is scoped to the owning account.
  - Derived counts: Book totals are recomputed per list call.
*/
package folder

import "time"

// # Core Entities

// Folder represents a single shelf in a user's library.
type Folder struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`

	// BookCount is derived from library.book on every read. It is never
	// written to storage, so it can not drift from the actual contents.
	BookCount int `json:"book_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID    = "id"
	FieldName  = "name"
	FieldColor = "color"
)

// MaxNameLength bounds folder names; long enough for any real shelf title.
const MaxNameLength = 100
