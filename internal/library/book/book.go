// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package book defines the reading-progress tracking core of Tsundoku.

A book is a single tracked title (manga volume, light novel, series) living
inside exactly one folder of one user's library. The package owns every
progress rule: chapter clamping, completion stamping, and last-read tracking.

Core Responsibility:

  - Progress: Chapter counts are clamped into [0, total], never rejected.
  - Lifecycle: Statuses from plan-to-read through completed/dropped.
  - Timestamps: lastread follows every progress change; finishdate follows
    completion.

This package acts as the source of truth for all reading-state data models.
*/
package book

import "time"

// # Domain Enums

// Status represents the reader's relationship with a title.
type Status string

const (
	// StatusPlanToRead is the default for a freshly added title.
	StatusPlanToRead Status = "plan-to-read"

	// StatusReading indicates the title is actively being read.
	StatusReading Status = "reading"

	// StatusCompleted indicates every chapter has been read.
	// Setting it force-syncs progress to the chapter total.
	StatusCompleted Status = "completed"

	// StatusDropped indicates the reader abandoned the title.
	StatusDropped Status = "dropped"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case
		StatusPlanToRead,
		StatusReading,
		StatusCompleted,
		StatusDropped:
		return true
	}
	return false
}

// All lists every recognised status, in lifecycle order. Used by
// validation and by clients populating status pickers.
func AllStatuses() []Status {
	return []Status{
		StatusPlanToRead,
		StatusReading,
		StatusCompleted,
		StatusDropped,
	}
}

// # Core Entities

// Book is the central aggregate of the Tsundoku domain.
// It represents a single tracked title in a user's library.
type Book struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	FolderID string `json:"folder_id"`

	Title  string `json:"title"`
	Author string `json:"author"`

	Status        Status  `json:"status"`
	Progress      int     `json:"progress"`       // Chapters read, always within [0, TotalChapters]
	TotalChapters int     `json:"total_chapters"` // Always >= 1
	Rating        float64 `json:"rating"`         // Personal score within [0, 5]

	CoverURL  string   `json:"cover_url"`
	Notes     string   `json:"notes"`
	Synopsis  string   `json:"synopsis"`
	Genre     []string `json:"genre"`
	Tags      []string `json:"tags"`
	Year      *int     `json:"year,omitempty"`
	Publisher string   `json:"publisher"`
	Language  string   `json:"language"`
	Favorite  bool     `json:"favorite"`

	StartDate  *time.Time `json:"start_date,omitempty"`
	FinishDate *time.Time `json:"finish_date,omitempty"` // Stamped when status becomes completed
	LastRead   *time.Time `json:"last_read,omitempty"`   // Stamped on every progress change

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Defaults

const (
	// DefaultLanguage is applied when a new title omits its language.
	DefaultLanguage = "Japanese"

	// DefaultTotalChapters keeps the progress invariant satisfiable for
	// titles added before their chapter count is known.
	DefaultTotalChapters = 1

	// MaxRating is the upper bound of the personal score scale.
	MaxRating = 5.0

	// MaxTitleLength bounds titles; generous for long light-novel names.
	MaxTitleLength = 500
)

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID            = "id"
	FieldFolderID      = "folder_id"
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldStatus        = "status"
	FieldProgress      = "progress"
	FieldTotalChapters = "total_chapters"
	FieldRating        = "rating"
	FieldLanguage      = "language"
)
