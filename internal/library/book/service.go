// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package book

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/harutoki/tsundoku/internal/library/folder"
	"github.com/harutoki/tsundoku/internal/platform/metrics"
	"github.com/harutoki/tsundoku/internal/platform/validate"
	"github.com/harutoki/tsundoku/pkg/uuidv7"
)

// # Service Layer

// FolderResolver verifies that a target folder exists and belongs to the
// user before a book is placed in it.
type FolderResolver interface {
	Get(context context.Context, userID, folderID string) (*folder.Folder, error)
}

// Service orchestrates the business logic for tracked books.
//
// All progress rules live here: chapter clamping, completion stamping, and
// last-read tracking. The storage layer only ever sees already-normalized
// entities.
type Service struct {
	repository Repository
	folders    FolderResolver
	logger     *slog.Logger
	collector  *metrics.Collector

	// now is swappable for deterministic timestamp tests.
	now func() time.Time
}

// NewService constructs a new [Service].
//
// The collector may be nil in tests; metric calls are skipped in that case.
func NewService(repository Repository, folders FolderResolver, logger *slog.Logger, collector *metrics.Collector) *Service {
	return &Service{
		repository: repository,
		folders:    folders,
		logger:     logger,
		collector:  collector,
		now:        time.Now,
	}
}

// # Lookups

/*
List returns the user's books matching the filter, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - filter: Filter

Returns:
  - []*Book: Hydrated entities
  - error: Repository failures
*/
func (service *Service) List(context context.Context, userID string, filter Filter) ([]*Book, error) {
	return service.repository.ListByUser(context, userID, filter)
}

/*
Get returns the user's book with the given ID.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - *Book: Hydrated entity
  - error: apperr.NotFound or repository failures
*/
func (service *Service) Get(context context.Context, userID, bookID string) (*Book, error) {
	return service.repository.FindByID(context, userID, bookID)
}

// # Creation

// CreateInput holds the attributes for a newly tracked title. Zero values
// fall back to the domain defaults.
type CreateInput struct {
	FolderID      string
	Title         string
	Author        string
	Status        Status
	Progress      int
	TotalChapters int
	Rating        float64
	CoverURL      string
	Notes         string
	Synopsis      string
	Genre         []string
	Tags          []string
	Year          *int
	Publisher     string
	Language      string
	Favorite      bool
	StartDate     *time.Time
}

/*
Create validates, normalizes, and persists a new book in the target folder.

Description: Missing attributes receive the domain defaults (plan-to-read,
one total chapter, Japanese). Progress is then clamped into range rather
than rejected, and the completion rule runs so a book created directly as
completed is stamped consistently.

Parameters:
  - context: context.Context
  - userID: string
  - input: CreateInput

Returns:
  - *Book: Created entity
  - error: Validation, apperr.NotFound (bad folder), or persistence failures
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Book, error) {
	title := strings.TrimSpace(input.Title)

	// Defaults before validation, so an omitted status passes OneOf
	status := input.Status
	if status == "" {
		status = StatusPlanToRead
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLength).
		Required(FieldFolderID, input.FolderID).
		Custom(FieldStatus, !status.IsValid(), "must be a recognised status")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// The folder must exist and belong to the same user
	if _, err := service.folders.Get(context, userID, input.FolderID); err != nil {
		return nil, err
	}

	totalChapters := input.TotalChapters
	if totalChapters == 0 {
		totalChapters = DefaultTotalChapters
	}

	language := input.Language
	if language == "" {
		language = DefaultLanguage
	}

	b := &Book{
		ID:            uuidv7.New(),
		UserID:        userID,
		FolderID:      input.FolderID,
		Title:         title,
		Author:        input.Author,
		Status:        status,
		Progress:      input.Progress,
		TotalChapters: totalChapters,
		Rating:        input.Rating,
		CoverURL:      input.CoverURL,
		Notes:         input.Notes,
		Synopsis:      input.Synopsis,
		Genre:         input.Genre,
		Tags:          input.Tags,
		Year:          input.Year,
		Publisher:     input.Publisher,
		Language:      language,
		Favorite:      input.Favorite,
		StartDate:     input.StartDate,
	}

	service.normalize(b, b.Progress != 0, status == StatusCompleted)

	if err := service.repository.Create(context, b); err != nil {
		return nil, err
	}

	if service.collector != nil {
		service.collector.RecordBookCreated()
	}

	service.logger.Info("book_created",
		slog.String("book_id", b.ID),
		slog.String("user_id", userID),
		slog.String("title", b.Title),
	)

	return b, nil
}

// # Updates

// UpdateInput holds the mutable attributes of a book. Nil fields are left
// unchanged.
type UpdateInput struct {
	FolderID      *string
	Title         *string
	Author        *string
	Status        *Status
	Progress      *int
	TotalChapters *int
	Rating        *float64
	CoverURL      *string
	Notes         *string
	Synopsis      *string
	Genre         []string
	Tags          []string
	Year          *int
	Publisher     *string
	Language      *string
	Favorite      *bool
	StartDate     *time.Time
}

/*
Update applies partial changes to the user's book and re-runs the
progress rules.

Description: Out-of-range progress is clamped, never rejected. Shrinking
the chapter total below the current progress clamps progress down to the
new total. A transition into completed overrides any progress the caller
supplied in the same request and stamps the finish date. Every effective
progress change stamps lastread.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - input: UpdateInput

Returns:
  - *Book: Updated entity
  - error: Validation, apperr.NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, userID, bookID string, input UpdateInput) (*Book, error) {
	b, err := service.repository.FindByID(context, userID, bookID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
		b.Title = title
	}

	if input.Status != nil {
		validator.Custom(FieldStatus, !input.Status.IsValid(), "must be a recognised status")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.FolderID != nil && *input.FolderID != b.FolderID {
		// Destination must exist and belong to the same user
		if _, err := service.folders.Get(context, userID, *input.FolderID); err != nil {
			return nil, err
		}
		b.FolderID = *input.FolderID
	}

	if input.Author != nil {
		b.Author = *input.Author
	}

	progressTouched := false
	if input.Progress != nil && *input.Progress != b.Progress {
		b.Progress = *input.Progress
		progressTouched = true
	}

	if input.TotalChapters != nil {
		b.TotalChapters = *input.TotalChapters
	}

	completing := false
	if input.Status != nil && *input.Status != b.Status {
		b.Status = *input.Status
		completing = b.Status == StatusCompleted
	}

	if input.Rating != nil {
		b.Rating = *input.Rating
	}
	if input.CoverURL != nil {
		b.CoverURL = *input.CoverURL
	}
	if input.Notes != nil {
		b.Notes = *input.Notes
	}
	if input.Synopsis != nil {
		b.Synopsis = *input.Synopsis
	}
	if input.Genre != nil {
		b.Genre = input.Genre
	}
	if input.Tags != nil {
		b.Tags = input.Tags
	}
	if input.Year != nil {
		b.Year = input.Year
	}
	if input.Publisher != nil {
		b.Publisher = *input.Publisher
	}
	if input.Language != nil {
		b.Language = *input.Language
	}
	if input.Favorite != nil {
		b.Favorite = *input.Favorite
	}
	if input.StartDate != nil {
		b.StartDate = input.StartDate
	}

	service.normalize(b, progressTouched, completing)

	if err := service.repository.Update(context, b); err != nil {
		return nil, err
	}

	service.logger.Info("book_updated", slog.String("book_id", bookID))

	return b, nil
}

/*
Delete removes the user's book.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) Delete(context context.Context, userID, bookID string) error {
	if err := service.repository.Delete(context, userID, bookID); err != nil {
		return err
	}

	service.logger.Info("book_deleted", slog.String("book_id", bookID))

	return nil
}

// # Folder Placement

/*
Move relocates the user's book into another owned folder.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - targetFolderID: string

Returns:
  - *Book: The book in its new folder
  - error: apperr.NotFound (book or folder) or persistence failures
*/
func (service *Service) Move(context context.Context, userID, bookID, targetFolderID string) (*Book, error) {
	b, err := service.repository.FindByID(context, userID, bookID)
	if err != nil {
		return nil, err
	}

	if _, err := service.folders.Get(context, userID, targetFolderID); err != nil {
		return nil, err
	}

	if b.FolderID == targetFolderID {
		return b, nil
	}

	b.FolderID = targetFolderID
	if err := service.repository.Update(context, b); err != nil {
		return nil, err
	}

	service.logger.Info("book_moved",
		slog.String("book_id", bookID),
		slog.String("folder_id", targetFolderID),
	)

	return b, nil
}

/*
Copy duplicates the user's book into another owned folder.

Description: The duplicate keeps every reading attribute (progress, rating,
notes, timestamps) but receives a fresh identity and creation time, so it
sorts as the newest title in the destination.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - targetFolderID: string

Returns:
  - *Book: The newly created duplicate
  - error: apperr.NotFound (book or folder) or persistence failures
*/
func (service *Service) Copy(context context.Context, userID, bookID, targetFolderID string) (*Book, error) {
	original, err := service.repository.FindByID(context, userID, bookID)
	if err != nil {
		return nil, err
	}

	if _, err := service.folders.Get(context, userID, targetFolderID); err != nil {
		return nil, err
	}

	duplicate := *original
	duplicate.ID = uuidv7.New()
	duplicate.FolderID = targetFolderID
	duplicate.CreatedAt = time.Time{} // Repository stamps a fresh creation time

	if err := service.repository.Create(context, &duplicate); err != nil {
		return nil, err
	}

	if service.collector != nil {
		service.collector.RecordBookCreated()
	}

	service.logger.Info("book_copied",
		slog.String("source_book_id", bookID),
		slog.String("book_id", duplicate.ID),
		slog.String("folder_id", targetFolderID),
	)

	return &duplicate, nil
}

// # Progress Rules

// normalize enforces every cross-field invariant on a book about to be
// persisted.
//
//   - totalchapters is forced to at least 1.
//   - completing forces progress to the chapter total and stamps finishdate,
//     overriding whatever progress the caller sent in the same request.
//   - progress is clamped into [0, totalchapters] instead of rejected.
//   - rating is clamped into [0, MaxRating].
//   - any effective progress change stamps lastread.
func (service *Service) normalize(b *Book, progressTouched, completing bool) {
	if b.TotalChapters < 1 {
		b.TotalChapters = 1
	}

	if completing {
		if b.Progress != b.TotalChapters {
			progressTouched = true
		}
		b.Progress = b.TotalChapters

		now := service.now()
		b.FinishDate = &now
	}

	if b.Progress < 0 {
		b.Progress = 0
		progressTouched = true
	}
	if b.Progress > b.TotalChapters {
		b.Progress = b.TotalChapters
		progressTouched = true
	}

	if b.Rating < 0 {
		b.Rating = 0
	}
	if b.Rating > MaxRating {
		b.Rating = MaxRating
	}

	if progressTouched {
		now := service.now()
		b.LastRead = &now
	}
}
