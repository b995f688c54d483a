// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package books manages the client-side book collection for one folder at a
time.

The manager holds the books of the folder currently open, plus a text
filter and a status filter that compose. As with folders, local state
mutates only from successful remote responses, and a single in-flight
flag is the only double-submit guard.
*/
package books

import (
	"context"
	"strings"
	"sync"

	"github.com/harutoki/tsundoku/internal/library/book"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/pkg/searchfold"
)

// Remote is the server surface the manager drives.
type Remote interface {
	ListBooks(context context.Context, filter book.Filter) ([]*book.Book, error)
	CreateBook(context context.Context, input book.CreateInput) (*book.Book, error)
	UpdateBook(context context.Context, bookID string, input book.UpdateInput) (*book.Book, error)
	DeleteBook(context context.Context, bookID string) error
	MoveBook(context context.Context, bookID, folderID string) (*book.Book, error)
	CopyBook(context context.Context, bookID, folderID string) (*book.Book, error)
}

// EditSession tracks which book is open in the detail editor. The draft
// accumulates field edits until the caller submits them as one update.
type EditSession struct {
	BookID string
	Draft  book.UpdateInput
}

// Manager holds the snapshot for the open folder.
type Manager struct {
	remote Remote

	mu         sync.Mutex
	folderID   string
	books      []*book.Book
	textFilter string
	status     book.Status
	editing    *EditSession
	inFlight   bool
}

// NewManager constructs an empty Manager over the given remote.
func NewManager(remote Remote) *Manager {
	return &Manager{remote: remote}
}

// # Snapshot Access

// FolderID returns the folder the snapshot was loaded for, empty when no
// folder has been opened yet.
func (manager *Manager) FolderID() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.folderID
}

// All returns a copy of the snapshot in server order (newest first).
func (manager *Manager) All() []*book.Book {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return cloneBooks(manager.books)
}

// GetByID returns the snapshot entry with the given ID, or nil.
func (manager *Manager) GetByID(bookID string) *book.Book {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.findLocked(bookID)
}

func (manager *Manager) findLocked(bookID string) *book.Book {
	for _, item := range manager.books {
		if item.ID == bookID {
			clone := *item
			return &clone
		}
	}
	return nil
}

// SetTextFilter updates the title/author text filter.
func (manager *Manager) SetTextFilter(filter string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.textFilter = filter
}

// SetStatusFilter restricts Visible to one reading status. The empty
// status clears the restriction.
func (manager *Manager) SetStatusFilter(status book.Status) error {
	if status != "" && !status.IsValid() {
		return apperr.ValidationError("Unknown status",
			apperr.FieldError{Field: book.FieldStatus, Message: "Unknown status"})
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.status = status
	return nil
}

// Visible returns the snapshot entries matching both active filters. The
// text filter matches title or author with accent- and case-insensitive
// containment; the status filter is exact.
func (manager *Manager) Visible() []*book.Book {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	text := strings.TrimSpace(manager.textFilter)
	matched := make([]*book.Book, 0, len(manager.books))
	for _, item := range manager.books {
		if manager.status != "" && item.Status != manager.status {
			continue
		}
		if text != "" && !searchfold.Contains(item.Title, text) && !searchfold.Contains(item.Author, text) {
			continue
		}
		clone := *item
		matched = append(matched, &clone)
	}
	return matched
}

// Busy reports whether a mutation is currently in flight.
func (manager *Manager) Busy() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.inFlight
}

// # Edit Session

// BeginEdit opens the detail editor for a snapshot entry.
func (manager *Manager) BeginEdit(bookID string) error {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.findLocked(bookID) == nil {
		return apperr.NotFound("Book")
	}
	manager.editing = &EditSession{BookID: bookID}
	return nil
}

// Editing returns a copy of the open edit session, or nil.
func (manager *Manager) Editing() *EditSession {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.editing == nil {
		return nil
	}
	clone := *manager.editing
	return &clone
}

// Stage merges field edits into the open draft.
func (manager *Manager) Stage(mutate func(draft *book.UpdateInput)) error {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.editing == nil {
		return apperr.Conflict("No edit in progress")
	}
	mutate(&manager.editing.Draft)
	return nil
}

// DiscardEdit drops the open edit session without submitting.
func (manager *Manager) DiscardEdit() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.editing = nil
}

/*
CommitEdit submits the open draft as a single update.

Description: On success the edit session closes and the snapshot entry is
replaced with the server's answer, which carries the canonical clamped
and stamped values. On failure the session stays open so the draft can be
corrected and resubmitted.

Parameters:
  - context: context.Context

Returns:
  - *book.Book: The updated book as stored by the server
  - error: apperr.Conflict when no edit is open, or remote failures
*/
func (manager *Manager) CommitEdit(context context.Context) (*book.Book, error) {
	manager.mu.Lock()
	if manager.editing == nil {
		manager.mu.Unlock()
		return nil, apperr.Conflict("No edit in progress")
	}
	session := *manager.editing
	manager.mu.Unlock()

	updated, err := manager.Update(context, session.BookID, session.Draft)
	if err != nil {
		return nil, err
	}

	manager.mu.Lock()
	manager.editing = nil
	manager.mu.Unlock()
	return updated, nil
}

// # Mutations

func (manager *Manager) begin() error {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.inFlight {
		return apperr.Conflict("Another request is still in progress")
	}
	manager.inFlight = true
	return nil
}

func (manager *Manager) end() {
	manager.mu.Lock()
	manager.inFlight = false
	manager.mu.Unlock()
}

/*
Open loads the snapshot for one folder, replacing whatever was loaded.

Parameters:
  - context: context.Context
  - folderID: string

Returns:
  - error: Remote failures; the previous snapshot survives on error
*/
func (manager *Manager) Open(context context.Context, folderID string) error {
	if err := manager.begin(); err != nil {
		return err
	}
	defer manager.end()

	remote, err := manager.remote.ListBooks(context, book.Filter{FolderID: folderID})
	if err != nil {
		return err
	}

	manager.mu.Lock()
	manager.folderID = folderID
	manager.books = remote
	manager.editing = nil
	manager.mu.Unlock()
	return nil
}

/*
Create submits a new book into the open folder.

Description: A blank title is rejected locally before any network call.
The snapshot gains the book the server returned, so defaults and clamps
applied server-side are what the client displays. New entries go to the
front, matching the server's newest-first ordering.

Parameters:
  - context: context.Context
  - input: book.CreateInput (FolderID defaulted to the open folder)

Returns:
  - *book.Book: The created book as stored by the server
  - error: Local validation or remote failures
*/
func (manager *Manager) Create(context context.Context, input book.CreateInput) (*book.Book, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.ValidationError("Title is required",
			apperr.FieldError{Field: book.FieldTitle, Message: "Title must not be empty"})
	}

	manager.mu.Lock()
	if input.FolderID == "" {
		input.FolderID = manager.folderID
	}
	manager.mu.Unlock()

	if err := manager.begin(); err != nil {
		return nil, err
	}
	defer manager.end()

	created, err := manager.remote.CreateBook(context, input)
	if err != nil {
		return nil, err
	}

	manager.mu.Lock()
	if created.FolderID == manager.folderID {
		manager.books = append([]*book.Book{created}, manager.books...)
	}
	manager.mu.Unlock()

	clone := *created
	return &clone, nil
}

/*
Update submits a partial edit and replaces the snapshot entry with the
server's answer.

Parameters:
  - context: context.Context
  - bookID: string
  - input: book.UpdateInput

Returns:
  - *book.Book: The updated book as stored by the server
  - error: Remote failures; the snapshot is untouched on error
*/
func (manager *Manager) Update(context context.Context, bookID string, input book.UpdateInput) (*book.Book, error) {
	if err := manager.begin(); err != nil {
		return nil, err
	}
	defer manager.end()

	updated, err := manager.remote.UpdateBook(context, bookID, input)
	if err != nil {
		return nil, err
	}

	manager.mu.Lock()
	if updated.FolderID != manager.folderID {
		// Moved out of the open folder via the edit.
		manager.removeLocked(bookID)
	} else {
		for i, item := range manager.books {
			if item.ID == bookID {
				manager.books[i] = updated
				break
			}
		}
	}
	manager.mu.Unlock()

	clone := *updated
	return &clone, nil
}

/*
Delete removes a book remotely, then from the snapshot.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - error: Remote failures; the snapshot keeps the book on error
*/
func (manager *Manager) Delete(context context.Context, bookID string) error {
	if err := manager.begin(); err != nil {
		return err
	}
	defer manager.end()

	if err := manager.remote.DeleteBook(context, bookID); err != nil {
		return err
	}

	manager.mu.Lock()
	manager.removeLocked(bookID)
	if manager.editing != nil && manager.editing.BookID == bookID {
		manager.editing = nil
	}
	manager.mu.Unlock()
	return nil
}

/*
Move relocates a book to another folder.

Description: When the destination is a different folder the book leaves
the open snapshot; the destination folder picks it up on its next Open.

Parameters:
  - context: context.Context
  - bookID, folderID: string

Returns:
  - *book.Book: The moved book as stored by the server
  - error: Remote failures
*/
func (manager *Manager) Move(context context.Context, bookID, folderID string) (*book.Book, error) {
	if err := manager.begin(); err != nil {
		return nil, err
	}
	defer manager.end()

	moved, err := manager.remote.MoveBook(context, bookID, folderID)
	if err != nil {
		return nil, err
	}

	manager.mu.Lock()
	if moved.FolderID != manager.folderID {
		manager.removeLocked(bookID)
	}
	manager.mu.Unlock()

	clone := *moved
	return &clone, nil
}

/*
Copy duplicates a book into a destination folder.

Description: The copy appears in the open snapshot only when the
destination is the open folder.

Parameters:
  - context: context.Context
  - bookID, folderID: string

Returns:
  - *book.Book: The new duplicate as stored by the server
  - error: Remote failures
*/
func (manager *Manager) Copy(context context.Context, bookID, folderID string) (*book.Book, error) {
	if err := manager.begin(); err != nil {
		return nil, err
	}
	defer manager.end()

	copied, err := manager.remote.CopyBook(context, bookID, folderID)
	if err != nil {
		return nil, err
	}

	manager.mu.Lock()
	if copied.FolderID == manager.folderID {
		manager.books = append([]*book.Book{copied}, manager.books...)
	}
	manager.mu.Unlock()

	clone := *copied
	return &clone, nil
}

func (manager *Manager) removeLocked(bookID string) {
	kept := manager.books[:0]
	for _, item := range manager.books {
		if item.ID != bookID {
			kept = append(kept, item)
		}
	}
	manager.books = kept
}

func cloneBooks(items []*book.Book) []*book.Book {
	cloned := make([]*book.Book, len(items))
	for i, item := range items {
		clone := *item
		cloned[i] = &clone
	}
	return cloned
}
