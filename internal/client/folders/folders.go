// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package folders manages the client-side folder collection.

The manager mirrors the remote collection in a local snapshot. Local
state only ever changes when a remote call succeeds with a payload: a
failed or abandoned request leaves the snapshot exactly as it was. A
single in-flight flag is the only double-submit guard; there is no
request queue and no retry.
*/
package folders

import (
	"context"
	"strings"
	"sync"

	"github.com/harutoki/tsundoku/internal/library/folder"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/pkg/searchfold"
)

// Remote is the server surface the manager drives.
type Remote interface {
	ListFolders(context context.Context) ([]*folder.Folder, error)
	CreateFolder(context context.Context, input folder.CreateInput) (*folder.Folder, error)
	UpdateFolder(context context.Context, folderID string, input folder.UpdateInput) (*folder.Folder, error)
	DeleteFolder(context context.Context, folderID string) error
}

// Manager holds the local folder snapshot.
type Manager struct {
	remote Remote

	mu       sync.Mutex
	folders  []*folder.Folder
	filter   string
	inFlight bool
}

// NewManager constructs an empty Manager over the given remote.
func NewManager(remote Remote) *Manager {
	return &Manager{remote: remote}
}

// # Snapshot Access

// All returns a copy of the full snapshot in server order.
func (manager *Manager) All() []*folder.Folder {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return cloneFolders(manager.folders)
}

// SetFilter updates the name filter applied by Visible. An empty filter
// shows everything.
func (manager *Manager) SetFilter(filter string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.filter = filter
}

// Visible returns the folders whose name matches the current filter,
// using accent- and case-insensitive containment.
func (manager *Manager) Visible() []*folder.Folder {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if strings.TrimSpace(manager.filter) == "" {
		return cloneFolders(manager.folders)
	}

	matched := make([]*folder.Folder, 0, len(manager.folders))
	for _, item := range manager.folders {
		if searchfold.Contains(item.Name, manager.filter) {
			clone := *item
			matched = append(matched, &clone)
		}
	}
	return matched
}

// Get returns the folder with the given ID from the snapshot, or nil.
func (manager *Manager) Get(folderID string) *folder.Folder {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for _, item := range manager.folders {
		if item.ID == folderID {
			clone := *item
			return &clone
		}
	}
	return nil
}

// Count returns the derived book count for a folder, 0 when unknown.
func (manager *Manager) Count(folderID string) int {
	if item := manager.Get(folderID); item != nil {
		return item.BookCount
	}
	return 0
}

// Busy reports whether a mutation is currently in flight.
func (manager *Manager) Busy() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.inFlight
}

// # Mutations

// begin claims the in-flight flag, failing with Conflict if a request is
// already running.
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
Refresh replaces the snapshot with the remote collection.

Parameters:
  - context: context.Context

Returns:
  - error: Remote failures; the snapshot is untouched on error
*/
func (manager *Manager) Refresh(context context.Context) error {
	if err := manager.begin(); err != nil {
		return err
	}
	defer manager.end()

	remote, err := manager.remote.ListFolders(context)
	if err != nil {
		return err
	}

	manager.mu.Lock()
	manager.folders = remote
	manager.mu.Unlock()
	return nil
}

/*
Create submits a new folder and appends the server's answer.

Description: A blank name is rejected locally before any network call.
The snapshot gains the folder the server returned, never a locally
constructed one.

Parameters:
  - context: context.Context
  - input: folder.CreateInput

Returns:
  - *folder.Folder: The created folder as stored by the server
  - error: Local validation or remote failures
*/
func (manager *Manager) Create(context context.Context, input folder.CreateInput) (*folder.Folder, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.ValidationError("Folder name is required",
			apperr.FieldError{Field: folder.FieldName, Message: "Name must not be empty"})
	}

	if err := manager.begin(); err != nil {
		return nil, err
	}
	defer manager.end()

	created, err := manager.remote.CreateFolder(context, input)
	if err != nil {
		return nil, err
	}

	manager.mu.Lock()
	manager.folders = append(manager.folders, created)
	manager.mu.Unlock()

	clone := *created
	return &clone, nil
}

/*
Update submits a partial edit and replaces the snapshot entry with the
server's answer.

Parameters:
  - context: context.Context
  - folderID: string
  - input: folder.UpdateInput

Returns:
  - *folder.Folder: The updated folder as stored by the server
  - error: Remote failures; the snapshot is untouched on error
*/
func (manager *Manager) Update(context context.Context, folderID string, input folder.UpdateInput) (*folder.Folder, error) {
	if err := manager.begin(); err != nil {
		return nil, err
	}
	defer manager.end()

	updated, err := manager.remote.UpdateFolder(context, folderID, input)
	if err != nil {
		return nil, err
	}

	manager.mu.Lock()
	for i, item := range manager.folders {
		if item.ID == folderID {
			manager.folders[i] = updated
			break
		}
	}
	manager.mu.Unlock()

	clone := *updated
	return &clone, nil
}

/*
Delete removes a folder remotely, then from the snapshot.

Parameters:
  - context: context.Context
  - folderID: string

Returns:
  - error: Remote failures; the snapshot keeps the folder on error
*/
func (manager *Manager) Delete(context context.Context, folderID string) error {
	if err := manager.begin(); err != nil {
		return err
	}
	defer manager.end()

	if err := manager.remote.DeleteFolder(context, folderID); err != nil {
		return err
	}

	manager.mu.Lock()
	kept := manager.folders[:0]
	for _, item := range manager.folders {
		if item.ID != folderID {
			kept = append(kept, item)
		}
	}
	manager.folders = kept
	manager.mu.Unlock()
	return nil
}

func cloneFolders(items []*folder.Folder) []*folder.Folder {
	cloned := make([]*folder.Folder, len(items))
	for i, item := range items {
		clone := *item
		cloned[i] = &clone
	}
	return cloned
}
