// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package adminview_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/admin"
	"github.com/harutoki/tsundoku/internal/client/adminview"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
)

// # Fakes

type fakeRemote struct {
	stats *admin.Stats
	users []*admin.UserRow
	books []*admin.BookRow

	calls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		stats: &admin.Stats{
			ActiveUsers: 29,
			TopGenres:   []admin.GenreCount{{Genre: "Shounen", Count: 80}},
			GeneratedAt: time.Now(),
		},
		users: []*admin.UserRow{
			{ID: "user-1", Email: "haru@example.com", BookCount: 12},
			{ID: "user-2", Email: "yuki@example.com", BookCount: 3},
		},
		books: []*admin.BookRow{
			{ID: "book-1", OwnerEmail: "haru@example.com", Title: "Naruto"},
		},
	}
}

// AdminStats derives the totals from the live listings, like the server
// would after a delete.
func (remote *fakeRemote) AdminStats(_ context.Context) (*admin.Stats, error) {
	remote.calls++
	clone := *remote.stats
	clone.TotalUsers = len(remote.users)
	clone.TotalBooks = len(remote.books)
	return &clone, nil
}

func (remote *fakeRemote) AdminListUsers(_ context.Context) ([]*admin.UserRow, error) {
	remote.calls++
	return remote.users, nil
}

func (remote *fakeRemote) AdminListBooks(_ context.Context) ([]*admin.BookRow, error) {
	remote.calls++
	return remote.books, nil
}

func (remote *fakeRemote) AdminDeleteUser(_ context.Context, userID string) error {
	remote.calls++
	kept := remote.users[:0]
	for _, row := range remote.users {
		if row.ID != userID {
			kept = append(kept, row)
		}
	}
	remote.users = kept
	return nil
}

func (remote *fakeRemote) AdminDeleteBook(_ context.Context, bookID string) error {
	remote.calls++
	kept := remote.books[:0]
	for _, row := range remote.books {
		if row.ID != bookID {
			kept = append(kept, row)
		}
	}
	remote.books = kept
	return nil
}

// # Tests

/*
TestManager_GateBlocksEveryOperation verifies that without the admin
flag no operation issues a remote call and each returns Forbidden.
*/
func TestManager_GateBlocksEveryOperation(t *testing.T) {
	remote := newFakeRemote()
	manager := adminview.NewManager(remote, func() bool { return false })

	operations := map[string]func() error{
		"stats":       func() error { return manager.RefreshStats(context.Background()) },
		"users":       func() error { return manager.RefreshUsers(context.Background()) },
		"books":       func() error { return manager.RefreshBooks(context.Background()) },
		"delete user": func() error { return manager.DeleteUser(context.Background(), "user-1") },
		"delete book": func() error { return manager.DeleteBook(context.Background(), "book-1") },
	}

	for name, operation := range operations {
		err := operation()
		require.Error(t, err, name)
		appErr := apperr.As(err)
		require.NotNil(t, appErr, name)
		assert.Equal(t, "FORBIDDEN", appErr.Code, name)
	}
	assert.Equal(t, 0, remote.calls, "gated operations must never touch the network")
}

/*
TestManager_RefreshStats verifies that the dashboard aggregates land in
the snapshot.
*/
func TestManager_RefreshStats(t *testing.T) {
	manager := adminview.NewManager(newFakeRemote(), func() bool { return true })
	require.Nil(t, manager.Stats())

	require.NoError(t, manager.RefreshStats(context.Background()))

	stats := manager.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 29, stats.ActiveUsers)
	require.Len(t, stats.TopGenres, 1)
	assert.Equal(t, "Shounen", stats.TopGenres[0].Genre)
}

/*
TestManager_DeleteUser_RefetchesDashboard verifies that a per-row delete
refetches the overview and both listings, so no aggregate keeps serving
pre-delete totals.
*/
func TestManager_DeleteUser_RefetchesDashboard(t *testing.T) {
	remote := newFakeRemote()
	manager := adminview.NewManager(remote, func() bool { return true })
	require.NoError(t, manager.RefreshStats(context.Background()))
	require.NoError(t, manager.RefreshUsers(context.Background()))
	require.Len(t, manager.Users(), 2)
	require.Equal(t, 2, manager.Stats().TotalUsers)

	require.NoError(t, manager.DeleteUser(context.Background(), "user-2"))

	users := manager.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "user-1", users[0].ID)
	assert.Equal(t, 1, manager.Stats().TotalUsers)
	assert.Len(t, manager.Books(), 1)
}

/*
TestManager_DeleteBook_RefetchesDashboard verifies the same full refetch
for a book delete, including the overview totals.
*/
func TestManager_DeleteBook_RefetchesDashboard(t *testing.T) {
	remote := newFakeRemote()
	manager := adminview.NewManager(remote, func() bool { return true })
	require.NoError(t, manager.RefreshStats(context.Background()))
	require.NoError(t, manager.RefreshBooks(context.Background()))
	require.Len(t, manager.Books(), 1)
	require.Equal(t, 1, manager.Stats().TotalBooks)

	require.NoError(t, manager.DeleteBook(context.Background(), "book-1"))

	assert.Empty(t, manager.Books())
	assert.Equal(t, 0, manager.Stats().TotalBooks)
	assert.Len(t, manager.Users(), 2)
}

/*
TestManager_GateReevaluated verifies that revoking the admin flag blocks
subsequent calls even after earlier successes.
*/
func TestManager_GateReevaluated(t *testing.T) {
	remote := newFakeRemote()
	isAdmin := true
	manager := adminview.NewManager(remote, func() bool { return isAdmin })
	require.NoError(t, manager.RefreshStats(context.Background()))

	isAdmin = false
	err := manager.RefreshStats(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, remote.calls)
}
