// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harutoki/tsundoku/internal/platform/apperr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the admin Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Counts returns the global user, book, and folder totals in one round trip.

Parameters:
  - context: context.Context

Returns:
  - users, books, folders: int
  - error: Retrieval failures
*/
func (repository *PostgresRepository) Counts(context context.Context) (int, int, int, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users.account),
			(SELECT COUNT(*) FROM library.book),
			(SELECT COUNT(*) FROM library.folder)`

	var users, books, folders int
	err := repository.pool.QueryRow(context, query).Scan(&users, &books, &folders)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("postgres_admin_repo_counts_failed: %w", err)
	}

	return users, books, folders, nil
}

/*
ListRecentBooks returns the newest books across every library, capped at limit.

Parameters:
  - context: context.Context
  - limit: int

Returns:
  - []*BookRow: Hydrated listing rows
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListRecentBooks(context context.Context, limit int) ([]*BookRow, error) {
	const query = `
		SELECT b.id, b.userid, a.email, b.title, b.author, b.status, b.genre, b.createdat
		FROM library.book b
		JOIN users.account a ON a.id = b.userid
		ORDER BY b.createdat DESC
		LIMIT $1`

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_recent_books_failed: %w", err)
	}
	defer rows.Close()

	var books []*BookRow
	for rows.Next() {
		row := &BookRow{}
		err := rows.Scan(
			&row.ID, &row.OwnerID, &row.OwnerEmail, &row.Title,
			&row.Author, &row.Status, &row.Genre, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_admin_repo_recent_books_scan_failed: %w", err)
		}
		books = append(books, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_recent_books_rows_failed: %w", err)
	}

	return books, nil
}

/*
ListUsers returns every account with its derived book count, newest first.

Parameters:
  - context: context.Context

Returns:
  - []*UserRow: Hydrated listing rows
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListUsers(context context.Context) ([]*UserRow, error) {
	const query = `
		SELECT a.id, a.email, a.role, COUNT(b.id), a.createdat
		FROM users.account a
		LEFT JOIN library.book b ON b.userid = a.id
		GROUP BY a.id
		ORDER BY a.createdat DESC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_list_users_failed: %w", err)
	}
	defer rows.Close()

	var users []*UserRow
	for rows.Next() {
		row := &UserRow{}
		if err := rows.Scan(&row.ID, &row.Email, &row.Role, &row.BookCount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_admin_repo_list_users_scan_failed: %w", err)
		}
		users = append(users, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_list_users_rows_failed: %w", err)
	}

	return users, nil
}

/*
DeleteUser removes an account. Sessions, folders, and books follow via
the schema's cascades.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) DeleteUser(context context.Context, userID string) error {
	const query = "DELETE FROM users.account WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_delete_user_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

/*
DeleteBook removes a single book from any library.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) DeleteBook(context context.Context, bookID string) error {
	const query = "DELETE FROM library.book WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, bookID)
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_delete_book_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book not found")
	}

	return nil
}
