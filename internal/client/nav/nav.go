// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package nav implements the client screen state machine.

There is no history stack: every screen has exactly one logical parent,
and Back always returns to it. The screen context (which folder is open,
which book is selected) travels with the transitions and is cleared on
the way back out. The admin screen is gated on a role check supplied by
the session layer.
*/
package nav

import (
	"sync"

	"github.com/harutoki/tsundoku/internal/platform/apperr"
)

// Screen identifies a top-level client view.
type Screen string

const (
	ScreenFolders    Screen = "folders"
	ScreenBooks      Screen = "books"
	ScreenBookDetail Screen = "book-detail"
	ScreenSettings   Screen = "settings"
	ScreenAdmin      Screen = "admin"
)

// Context is the payload carried by the active screen: the open folder
// on the books screens, plus the selected book on the detail screen.
type Context struct {
	FolderID   string
	FolderName string
	BookID     string
}

// Machine is the navigation state machine. The initial position is the
// folders screen with an empty context.
type Machine struct {
	isAdmin func() bool

	mu      sync.Mutex
	current Screen
	context Context
}

// NewMachine constructs a Machine positioned on the folders screen.
// isAdmin gates entry to the admin screen.
func NewMachine(isAdmin func() bool) *Machine {
	return &Machine{
		isAdmin: isAdmin,
		current: ScreenFolders,
	}
}

// Current returns the active screen.
func (machine *Machine) Current() Screen {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.current
}

// Context returns a copy of the active screen's payload.
func (machine *Machine) Context() Context {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.context
}

// transition validates the source screen before moving.
func (machine *Machine) transition(from, to Screen, mutate func(*Context)) error {
	machine.mu.Lock()
	defer machine.mu.Unlock()

	if machine.current != from {
		return apperr.Conflict("Cannot open " + string(to) + " from " + string(machine.current))
	}
	mutate(&machine.context)
	machine.current = to
	return nil
}

/*
OpenFolder moves from the folders screen into a folder's book list.

Parameters:
  - folderID, folderName: string, carried as the books screen context

Returns:
  - error: apperr.Conflict when not on the folders screen
*/
func (machine *Machine) OpenFolder(folderID, folderName string) error {
	return machine.transition(ScreenFolders, ScreenBooks, func(context *Context) {
		context.FolderID = folderID
		context.FolderName = folderName
	})
}

/*
OpenBook moves from the book list into a book's detail view. The folder
context is retained.

Parameters:
  - bookID: string

Returns:
  - error: apperr.Conflict when not on the books screen
*/
func (machine *Machine) OpenBook(bookID string) error {
	return machine.transition(ScreenBooks, ScreenBookDetail, func(context *Context) {
		context.BookID = bookID
	})
}

// OpenSettings moves from the folders screen to settings.
func (machine *Machine) OpenSettings() error {
	return machine.transition(ScreenFolders, ScreenSettings, func(*Context) {})
}

/*
OpenAdmin moves from the folders screen to the admin overview. Entry is
refused without admin rights, checked on every attempt so a revoked flag
closes the screen immediately.

Returns:
  - error: apperr.Forbidden without admin rights, apperr.Conflict when
    not on the folders screen
*/
func (machine *Machine) OpenAdmin() error {
	if !machine.isAdmin() {
		return apperr.Forbidden("Admin access required")
	}
	return machine.transition(ScreenFolders, ScreenAdmin, func(*Context) {})
}

/*
Back returns to the active screen's single logical parent.

Description: book-detail goes back to the book list, clearing the
selected book but keeping the folder; the book list, settings and admin
all go back to the folders screen. There is no deeper history, and Back
on the folders screen is a no-op.

Returns:
  - bool: Whether a step back occurred
*/
func (machine *Machine) Back() bool {
	machine.mu.Lock()
	defer machine.mu.Unlock()

	switch machine.current {
	case ScreenBookDetail:
		machine.context.BookID = ""
		machine.current = ScreenBooks
	case ScreenBooks:
		machine.context = Context{}
		machine.current = ScreenFolders
	case ScreenSettings, ScreenAdmin:
		machine.current = ScreenFolders
	default:
		return false
	}
	return true
}

// Reset returns to the folders screen and clears the context. Called on
// sign-out so a new session never inherits navigation state.
func (machine *Machine) Reset() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.current = ScreenFolders
	machine.context = Context{}
}
