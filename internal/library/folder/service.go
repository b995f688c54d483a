// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package folder

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harutoki/tsundoku/internal/platform/metrics"
	"github.com/harutoki/tsundoku/internal/platform/validate"
	"github.com/harutoki/tsundoku/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates the business logic for library folders.
type Service struct {
	repository Repository
	logger     *slog.Logger
	collector  *metrics.Collector
}

// NewService constructs a new [Service].
//
// The collector may be nil in tests; metric calls are skipped in that case.
func NewService(repository Repository, logger *slog.Logger, collector *metrics.Collector) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
		collector:  collector,
	}
}

/*
List returns every folder owned by the user, oldest first, with derived
book counts.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Folder: Hydrated entities
  - error: Repository failures
*/
func (service *Service) List(context context.Context, userID string) ([]*Folder, error) {
	return service.repository.ListByUser(context, userID)
}

/*
Get returns the user's folder with the given ID.

Parameters:
  - context: context.Context
  - userID: string
  - folderID: string

Returns:
  - *Folder: Hydrated entity
  - error: apperr.NotFound or repository failures
*/
func (service *Service) Get(context context.Context, userID, folderID string) (*Folder, error) {
	return service.repository.FindByID(context, userID, folderID)
}

// CreateInput holds the attributes for a new folder.
type CreateInput struct {
	Name  string
	Color string
}

/*
Create validates and persists a new folder for the user.

Description: The name is trimmed before validation, so whitespace-only
names are rejected the same as empty ones.

Parameters:
  - context: context.Context
  - userID: string
  - input: CreateInput

Returns:
  - *Folder: Created entity with derived count zero
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Folder, error) {
	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	f := &Folder{
		ID:     uuidv7.New(),
		UserID: userID,
		Name:   name,
		Color:  input.Color,
	}

	if err := service.repository.Create(context, f); err != nil {
		return nil, err
	}

	if service.collector != nil {
		service.collector.RecordFolderCreated()
	}

	service.logger.Info("folder_created",
		slog.String("folder_id", f.ID),
		slog.String("user_id", userID),
	)

	return f, nil
}

// UpdateInput holds the mutable attributes of a folder. Nil fields are
// left unchanged.
type UpdateInput struct {
	Name  *string
	Color *string
}

/*
Update applies partial changes to the user's folder.

Parameters:
  - context: context.Context
  - userID: string
  - folderID: string
  - input: UpdateInput

Returns:
  - *Folder: Updated entity
  - error: Validation, apperr.NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, userID, folderID string, input UpdateInput) (*Folder, error) {
	existing, err := service.repository.FindByID(context, userID, folderID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)

		validator := &validate.Validator{}
		validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
		if err := validator.Err(); err != nil {
			return nil, err
		}

		existing.Name = name
	}

	if input.Color != nil {
		existing.Color = *input.Color
	}

	if err := service.repository.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("folder_updated", slog.String("folder_id", folderID))

	return existing, nil
}

/*
Delete removes the user's folder and, via cascade, every book in it.

Parameters:
  - context: context.Context
  - userID: string
  - folderID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) Delete(context context.Context, userID, folderID string) error {
	if err := service.repository.Delete(context, userID, folderID); err != nil {
		return err
	}

	service.logger.Info("folder_deleted", slog.String("folder_id", folderID))

	return nil
}
