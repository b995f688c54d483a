// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package book

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

// bookColumns is the canonical SELECT column list shared by every read query.
const bookColumns = `
	id, userid, folderid, title, author, status, progress, totalchapters,
	coverurl, rating, notes, synopsis, genre, tags, year, publisher, language,
	startdate, finishdate, lastread, favorite, createdat, updatedat`

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the book Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scanBook hydrates one row into a Book entity.
func scanBook(row pgx.Row) (*Book, error) {
	b := &Book{}
	err := row.Scan(
		&b.ID, &b.UserID, &b.FolderID, &b.Title, &b.Author, &b.Status,
		&b.Progress, &b.TotalChapters, &b.CoverURL, &b.Rating, &b.Notes,
		&b.Synopsis, &b.Genre, &b.Tags, &b.Year, &b.Publisher, &b.Language,
		&b.StartDate, &b.FinishDate, &b.LastRead, &b.Favorite,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

/*
ListByUser returns the user's books matching the filter, newest first.

Description: Filter clauses are appended dynamically; an empty filter lists
the whole library. Ordering follows the time-sortable primary key so the
most recently added titles come first.

Parameters:
  - context: context.Context
  - userID: string
  - filter: Filter

Returns:
  - []*Book: Hydrated entities
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListByUser(context context.Context, userID string, filter Filter) ([]*Book, error) {
	query := "SELECT " + bookColumns + " FROM library.book WHERE userid = $1"
	args := []any{userID}

	if filter.FolderID != "" {
		args = append(args, filter.FolderID)
		query += fmt.Sprintf(" AND folderid = $%d", len(args))
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if len(filter.Genre) > 0 {
		args = append(args, filter.Genre)
		query += fmt.Sprintf(" AND genre && $%d", len(args))
	}

	query += " ORDER BY createdat DESC"

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_book_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_book_repo_scan_failed: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_book_repo_rows_failed: %w", err)
	}

	return books, nil
}

/*
FindByID returns the user's book with the given ID.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - *Book: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, userID, bookID string) (*Book, error) {
	query := "SELECT " + bookColumns + " FROM library.book WHERE id = $1 AND userid = $2"

	b, err := scanBook(repository.pool.QueryRow(context, query, bookID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book not found")
		}
		return nil, fmt.Errorf("postgres_book_repo_find_failed: %w", err)
	}

	return b, nil
}

/*
Create persists a new book record.

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: Constraint violations (bad folder reference) or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	const query = `
		INSERT INTO library.book (
			id, userid, folderid, title, author, status, progress, totalchapters,
			coverurl, rating, notes, synopsis, genre, tags, year, publisher,
			language, startdate, finishdate, lastread, favorite, createdat, updatedat
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23
		)`

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		book.ID,
		book.UserID,
		book.FolderID,
		book.Title,
		book.Author,
		book.Status,
		book.Progress,
		book.TotalChapters,
		book.CoverURL,
		book.Rating,
		book.Notes,
		book.Synopsis,
		book.Genre,
		book.Tags,
		book.Year,
		book.Publisher,
		book.Language,
		book.StartDate,
		book.FinishDate,
		book.LastRead,
		book.Favorite,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_book_repo_create")
	}

	return nil
}

/*
Update persists the full mutable state of the user's book.

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: apperr.NotFound when no owned row matches, or execution errors
*/
func (repository *PostgresRepository) Update(context context.Context, book *Book) error {
	const query = `
		UPDATE library.book
		SET folderid = $3, title = $4, author = $5, status = $6, progress = $7,
			totalchapters = $8, coverurl = $9, rating = $10, notes = $11,
			synopsis = $12, genre = $13, tags = $14, year = $15, publisher = $16,
			language = $17, startdate = $18, finishdate = $19, lastread = $20,
			favorite = $21, updatedat = $22
		WHERE id = $1 AND userid = $2`

	book.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		book.ID,
		book.UserID,
		book.FolderID,
		book.Title,
		book.Author,
		book.Status,
		book.Progress,
		book.TotalChapters,
		book.CoverURL,
		book.Rating,
		book.Notes,
		book.Synopsis,
		book.Genre,
		book.Tags,
		book.Year,
		book.Publisher,
		book.Language,
		book.StartDate,
		book.FinishDate,
		book.LastRead,
		book.Favorite,
		book.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_book_repo_update")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book not found")
	}

	return nil
}

/*
Delete removes the user's book.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - error: apperr.NotFound when no owned row matches, or execution errors
*/
func (repository *PostgresRepository) Delete(context context.Context, userID, bookID string) error {
	const query = "DELETE FROM library.book WHERE id = $1 AND userid = $2"

	tag, err := repository.pool.Exec(context, query, bookID, userID)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book not found")
	}

	return nil
}
