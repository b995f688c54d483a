// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package adminview manages the client-side admin dashboard state.

Every operation checks the admin gate before touching the network: a
non-admin session gets a local Forbidden and no remote call is ever
issued. Deletions refetch the affected listing so the view always shows
server truth rather than a locally patched guess.
*/
package adminview

import (
	"context"
	"sync"

	"github.com/harutoki/tsundoku/internal/admin"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
)

// Remote is the server surface the manager drives.
type Remote interface {
	AdminStats(context context.Context) (*admin.Stats, error)
	AdminListUsers(context context.Context) ([]*admin.UserRow, error)
	AdminListBooks(context context.Context) ([]*admin.BookRow, error)
	AdminDeleteUser(context context.Context, userID string) error
	AdminDeleteBook(context context.Context, bookID string) error
}

// Manager holds the dashboard snapshot.
type Manager struct {
	remote  Remote
	isAdmin func() bool

	mu    sync.Mutex
	stats *admin.Stats
	users []*admin.UserRow
	books []*admin.BookRow
}

// NewManager constructs a Manager gated by isAdmin.
func NewManager(remote Remote, isAdmin func() bool) *Manager {
	return &Manager{remote: remote, isAdmin: isAdmin}
}

// gate refuses every operation for non-admin sessions without touching
// the network.
func (manager *Manager) gate() error {
	if !manager.isAdmin() {
		return apperr.Forbidden("Admin access required")
	}
	return nil
}

// Stats returns the cached dashboard aggregates, nil before the first
// successful refresh.
func (manager *Manager) Stats() *admin.Stats {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.stats == nil {
		return nil
	}
	clone := *manager.stats
	return &clone
}

// Users returns the cached account listing.
func (manager *Manager) Users() []*admin.UserRow {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	cloned := make([]*admin.UserRow, len(manager.users))
	for i, row := range manager.users {
		clone := *row
		cloned[i] = &clone
	}
	return cloned
}

// Books returns the cached recent-book listing.
func (manager *Manager) Books() []*admin.BookRow {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	cloned := make([]*admin.BookRow, len(manager.books))
	for i, row := range manager.books {
		clone := *row
		cloned[i] = &clone
	}
	return cloned
}

/*
RefreshStats fetches the dashboard aggregates.

Parameters:
  - context: context.Context

Returns:
  - error: apperr.Forbidden without admin rights, or remote failures
*/
func (manager *Manager) RefreshStats(context context.Context) error {
	if err := manager.gate(); err != nil {
		return err
	}

	stats, err := manager.remote.AdminStats(context)
	if err != nil {
		return err
	}

	manager.mu.Lock()
	manager.stats = stats
	manager.mu.Unlock()
	return nil
}

/*
RefreshUsers fetches the account listing.

Parameters:
  - context: context.Context

Returns:
  - error: apperr.Forbidden without admin rights, or remote failures
*/
func (manager *Manager) RefreshUsers(context context.Context) error {
	if err := manager.gate(); err != nil {
		return err
	}

	users, err := manager.remote.AdminListUsers(context)
	if err != nil {
		return err
	}

	manager.mu.Lock()
	manager.users = users
	manager.mu.Unlock()
	return nil
}

/*
RefreshBooks fetches the recent-book listing.

Parameters:
  - context: context.Context

Returns:
  - error: apperr.Forbidden without admin rights, or remote failures
*/
func (manager *Manager) RefreshBooks(context context.Context) error {
	if err := manager.gate(); err != nil {
		return err
	}

	books, err := manager.remote.AdminListBooks(context)
	if err != nil {
		return err
	}

	manager.mu.Lock()
	manager.books = books
	manager.mu.Unlock()
	return nil
}

/*
DeleteUser removes an account and refetches every dashboard aggregate.

Description: A user delete cascades through that account's folders and
books, so the overview and both listings are all stale afterwards; the
whole dashboard is refetched, not just the account listing.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.Forbidden without admin rights, or remote failures
*/
func (manager *Manager) DeleteUser(context context.Context, userID string) error {
	if err := manager.gate(); err != nil {
		return err
	}

	if err := manager.remote.AdminDeleteUser(context, userID); err != nil {
		return err
	}
	return manager.refreshAll(context)
}

/*
DeleteBook removes a book and refetches every dashboard aggregate.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - error: apperr.Forbidden without admin rights, or remote failures
*/
func (manager *Manager) DeleteBook(context context.Context, bookID string) error {
	if err := manager.gate(); err != nil {
		return err
	}

	if err := manager.remote.AdminDeleteBook(context, bookID); err != nil {
		return err
	}
	return manager.refreshAll(context)
}

// refreshAll refetches the overview and both listings in one sweep.
func (manager *Manager) refreshAll(context context.Context) error {
	if err := manager.RefreshStats(context); err != nil {
		return err
	}
	if err := manager.RefreshUsers(context); err != nil {
		return err
	}
	return manager.RefreshBooks(context)
}
