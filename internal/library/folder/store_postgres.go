// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package folder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the folder Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
ListByUser returns the user's folders oldest first, with derived book counts.

Description: The LEFT JOIN keeps empty folders in the result with a count of
zero. Counts are computed here on every call rather than maintained as a
stored column.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Folder: Hydrated entities
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListByUser(context context.Context, userID string) ([]*Folder, error) {
	const query = `
		SELECT f.id, f.userid, f.name, f.color, COUNT(b.id), f.createdat, f.updatedat
		FROM library.folder f
		LEFT JOIN library.book b ON b.folderid = f.id
		WHERE f.userid = $1
		GROUP BY f.id
		ORDER BY f.createdat ASC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_folder_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var folders []*Folder
	for rows.Next() {
		f := &Folder{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.BookCount, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres_folder_repo_scan_failed: %w", err)
		}
		folders = append(folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_folder_repo_rows_failed: %w", err)
	}

	return folders, nil
}

/*
FindByID returns the user's folder with the given ID, including its
derived book count.

Parameters:
  - context: context.Context
  - userID: string
  - folderID: string

Returns:
  - *Folder: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, userID, folderID string) (*Folder, error) {
	const query = `
		SELECT f.id, f.userid, f.name, f.color, COUNT(b.id), f.createdat, f.updatedat
		FROM library.folder f
		LEFT JOIN library.book b ON b.folderid = f.id
		WHERE f.id = $1 AND f.userid = $2
		GROUP BY f.id`

	f := &Folder{}
	err := repository.pool.QueryRow(context, query, folderID, userID).Scan(
		&f.ID, &f.UserID, &f.Name, &f.Color, &f.BookCount, &f.CreatedAt, &f.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Folder not found")
		}
		return nil, fmt.Errorf("postgres_folder_repo_find_failed: %w", err)
	}

	return f, nil
}

/*
Create persists a new folder record.

Parameters:
  - context: context.Context
  - folder: *Folder

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, folder *Folder) error {
	const query = `
		INSERT INTO library.folder (id, userid, name, color, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.Color,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_folder_repo_create")
	}

	return nil
}

/*
Update persists name and color changes to the user's folder.

Parameters:
  - context: context.Context
  - folder: *Folder

Returns:
  - error: apperr.NotFound when no owned row matches, or execution errors
*/
func (repository *PostgresRepository) Update(context context.Context, folder *Folder) error {
	const query = `
		UPDATE library.folder
		SET name = $3, color = $4, updatedat = $5
		WHERE id = $1 AND userid = $2`

	folder.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.Color,
		folder.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_folder_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Folder not found")
	}

	return nil
}

/*
Delete removes the user's folder. The book table's ON DELETE CASCADE
removes its contents in the same statement.

Parameters:
  - context: context.Context
  - userID: string
  - folderID: string

Returns:
  - error: apperr.NotFound when no owned row matches, or execution errors
*/
func (repository *PostgresRepository) Delete(context context.Context, userID, folderID string) error {
	const query = "DELETE FROM library.folder WHERE id = $1 AND userid = $2"

	tag, err := repository.pool.Exec(context, query, folderID, userID)
	if err != nil {
		return fmt.Errorf("postgres_folder_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Folder not found")
	}

	return nil
}
