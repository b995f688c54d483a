// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package admin implements the aggregate usage overview of Tsundoku.

It is the only part of the system that looks across user boundaries: total
account and library counts, a genre popularity digest, and row-level
moderation (removing accounts or individual books).

Access is restricted to admin-role accounts at the routing layer; the
service additionally assumes every caller has already been authorized.
*/
package admin

import "time"

// # Aggregation Parameters

const (
	// RecentBookLimit caps the bulk book fetch used for the genre digest.
	// Aggregation works on a recent sample, not the full table.
	RecentBookLimit = 100

	// TopGenreLimit is the number of genre buckets in the digest.
	TopGenreLimit = 10

	// ActiveUserRatio approximates how many registered accounts are active.
	ActiveUserRatio = 0.7

	// StatsCacheTTL is how long a computed overview may be served from
	// cache before it is recomputed.
	StatsCacheTTL = 60 * time.Second
)

// # Aggregate Types

// GenreCount is one bucket in the genre popularity digest.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats is the aggregate usage overview served to administrators.
type Stats struct {
	TotalUsers   int `json:"total_users"`
	TotalBooks   int `json:"total_books"`
	TotalFolders int `json:"total_folders"`

	// ActiveUsers is estimated from TotalUsers via [ActiveUserRatio].
	ActiveUsers int `json:"active_users"`

	TopGenres []GenreCount `json:"top_genres"`

	GeneratedAt time.Time `json:"generated_at"`
}

// UserRow is one account in the administrative user listing.
type UserRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	BookCount int       `json:"book_count"`
	CreatedAt time.Time `json:"created_at"`
}

// BookRow is one book in the administrative book listing. It carries the
// owner's email so moderators can see whose library a title belongs to.
type BookRow struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	OwnerEmail string    `json:"owner_email"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Status     string    `json:"status"`
	Genre      []string  `json:"genre"`
	CreatedAt  time.Time `json:"created_at"`
}
