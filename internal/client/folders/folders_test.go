// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package folders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/client/folders"
	"github.com/harutoki/tsundoku/internal/library/folder"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/pkg/pointer"
)

// # Fakes

type fakeRemote struct {
	listResult []*folder.Folder
	failAll    error
	blockUntil chan struct{} // when set, calls park here first

	createCalls int
	deleteCalls int
}

func (remote *fakeRemote) wait() {
	if remote.blockUntil != nil {
		<-remote.blockUntil
	}
}

func (remote *fakeRemote) ListFolders(_ context.Context) ([]*folder.Folder, error) {
	remote.wait()
	if remote.failAll != nil {
		return nil, remote.failAll
	}
	return remote.listResult, nil
}

func (remote *fakeRemote) CreateFolder(_ context.Context, input folder.CreateInput) (*folder.Folder, error) {
	remote.wait()
	remote.createCalls++
	if remote.failAll != nil {
		return nil, remote.failAll
	}
	return &folder.Folder{ID: "folder-new", Name: input.Name, Color: input.Color}, nil
}

func (remote *fakeRemote) UpdateFolder(_ context.Context, folderID string, input folder.UpdateInput) (*folder.Folder, error) {
	remote.wait()
	if remote.failAll != nil {
		return nil, remote.failAll
	}
	updated := &folder.Folder{ID: folderID, Name: "Shounen", Color: "#1d4ed8"}
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Color != nil {
		updated.Color = *input.Color
	}
	return updated, nil
}

func (remote *fakeRemote) DeleteFolder(_ context.Context, _ string) error {
	remote.wait()
	remote.deleteCalls++
	return remote.failAll
}

func seeded() *fakeRemote {
	return &fakeRemote{listResult: []*folder.Folder{
		{ID: "folder-1", Name: "Shounen", BookCount: 12},
		{ID: "folder-2", Name: "Seinen", BookCount: 3},
		{ID: "folder-3", Name: "Light Novels", BookCount: 0},
	}}
}

// # Tests

/*
TestManager_Create_RejectsBlankNameLocally verifies that a blank name
never reaches the remote.
*/
func TestManager_Create_RejectsBlankNameLocally(t *testing.T) {
	remote := &fakeRemote{}
	manager := folders.NewManager(remote)

	_, err := manager.Create(context.Background(), folder.CreateInput{Name: "   "})

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, 0, remote.createCalls)
	assert.Empty(t, manager.All())
}

/*
TestManager_LocalStateFollowsRemote verifies that the snapshot only ever
changes from successful remote responses: a failed delete keeps the
folder, a successful create appends the server's folder.
*/
func TestManager_LocalStateFollowsRemote(t *testing.T) {
	remote := seeded()
	manager := folders.NewManager(remote)
	require.NoError(t, manager.Refresh(context.Background()))
	require.Len(t, manager.All(), 3)

	remote.failAll = errors.New("gateway timeout")
	require.Error(t, manager.Delete(context.Background(), "folder-1"))
	assert.Len(t, manager.All(), 3, "failed delete must not touch the snapshot")

	remote.failAll = nil
	created, err := manager.Create(context.Background(), folder.CreateInput{Name: "Josei"})
	require.NoError(t, err)
	assert.Equal(t, "folder-new", created.ID)

	all := manager.All()
	require.Len(t, all, 4)
	assert.Equal(t, "folder-new", all[3].ID)
}

/*
TestManager_InFlightGuard verifies the double-submit guard: while one
mutation is parked in the remote, a second is refused with a conflict
and never reaches the network.
*/
func TestManager_InFlightGuard(t *testing.T) {
	remote := seeded()
	remote.blockUntil = make(chan struct{})
	manager := folders.NewManager(remote)

	firstDone := make(chan error, 1)
	go func() {
		_, err := manager.Create(context.Background(), folder.CreateInput{Name: "Josei"})
		firstDone <- err
	}()

	// Wait until the first call holds the flag.
	require.Eventually(t, manager.Busy, time.Second, time.Millisecond)

	_, err := manager.Create(context.Background(), folder.CreateInput{Name: "Josei"})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	close(remote.blockUntil)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, remote.createCalls)
	assert.False(t, manager.Busy())
}

/*
TestManager_Visible_NameFilter verifies accent- and case-insensitive
name filtering, with the empty filter showing everything.
*/
func TestManager_Visible_NameFilter(t *testing.T) {
	remote := seeded()
	manager := folders.NewManager(remote)
	require.NoError(t, manager.Refresh(context.Background()))

	manager.SetFilter("SHOU")
	visible := manager.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Shounen", visible[0].Name)

	manager.SetFilter("")
	assert.Len(t, manager.Visible(), 3)
}

/*
TestManager_Update_ReplacesSnapshotEntry verifies that a partial rename
swaps in the server's version of the folder.
*/
func TestManager_Update_ReplacesSnapshotEntry(t *testing.T) {
	remote := seeded()
	manager := folders.NewManager(remote)
	require.NoError(t, manager.Refresh(context.Background()))

	updated, err := manager.Update(context.Background(), "folder-2", folder.UpdateInput{
		Name: pointer.To("Seinen Picks"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Seinen Picks", updated.Name)

	entry := manager.Get("folder-2")
	require.NotNil(t, entry)
	assert.Equal(t, "Seinen Picks", entry.Name)
}

/*
TestManager_Count verifies that derived book counts come straight from
the snapshot and unknown folders count zero.
*/
func TestManager_Count(t *testing.T) {
	remote := seeded()
	manager := folders.NewManager(remote)
	require.NoError(t, manager.Refresh(context.Background()))

	assert.Equal(t, 12, manager.Count("folder-1"))
	assert.Equal(t, 0, manager.Count("folder-3"))
	assert.Equal(t, 0, manager.Count("no-such-folder"))
}
