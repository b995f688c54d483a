// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package nav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/client/nav"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
)

func alwaysAdmin() bool { return true }
func neverAdmin() bool  { return false }

/*
TestMachine_DrillDownAndBack verifies the folder → book drill-down: the
context accumulates on the way in and peels off one level per Back.
*/
func TestMachine_DrillDownAndBack(t *testing.T) {
	machine := nav.NewMachine(neverAdmin)

	require.NoError(t, machine.OpenFolder("folder-1", "Shounen"))
	assert.Equal(t, nav.ScreenBooks, machine.Current())
	assert.Equal(t, "Shounen", machine.Context().FolderName)

	require.NoError(t, machine.OpenBook("book-1"))
	assert.Equal(t, nav.ScreenBookDetail, machine.Current())
	assert.Equal(t, "book-1", machine.Context().BookID)

	// Back from detail keeps the folder, drops the selected book.
	require.True(t, machine.Back())
	assert.Equal(t, nav.ScreenBooks, machine.Current())
	assert.Empty(t, machine.Context().BookID)
	assert.Equal(t, "folder-1", machine.Context().FolderID)

	// Back from the book list drops the folder context entirely.
	require.True(t, machine.Back())
	assert.Equal(t, nav.ScreenFolders, machine.Current())
	assert.Equal(t, nav.Context{}, machine.Context())
}

/*
TestMachine_BackFromFolders verifies that the folders screen is terminal
for Back.
*/
func TestMachine_BackFromFolders(t *testing.T) {
	machine := nav.NewMachine(neverAdmin)

	assert.False(t, machine.Back())
	assert.Equal(t, nav.ScreenFolders, machine.Current())
}

/*
TestMachine_SettingsAndAdminReturnToFolders verifies that both side
screens go back to the folders screen.
*/
func TestMachine_SettingsAndAdminReturnToFolders(t *testing.T) {
	t.Run("settings", func(t *testing.T) {
		machine := nav.NewMachine(neverAdmin)
		require.NoError(t, machine.OpenSettings())
		assert.Equal(t, nav.ScreenSettings, machine.Current())

		require.True(t, machine.Back())
		assert.Equal(t, nav.ScreenFolders, machine.Current())
	})

	t.Run("admin", func(t *testing.T) {
		machine := nav.NewMachine(alwaysAdmin)
		require.NoError(t, machine.OpenAdmin())
		assert.Equal(t, nav.ScreenAdmin, machine.Current())

		require.True(t, machine.Back())
		assert.Equal(t, nav.ScreenFolders, machine.Current())
	})
}

/*
TestMachine_AdminGate verifies that the admin screen is refused without
admin rights.
*/
func TestMachine_AdminGate(t *testing.T) {
	machine := nav.NewMachine(neverAdmin)

	err := machine.OpenAdmin()

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Equal(t, nav.ScreenFolders, machine.Current())
}

/*
TestMachine_AdminGateReevaluated verifies that the gate is consulted on
every attempt, so a revoked admin flag closes the screen immediately.
*/
func TestMachine_AdminGateReevaluated(t *testing.T) {
	admin := true
	machine := nav.NewMachine(func() bool { return admin })
	require.NoError(t, machine.OpenAdmin())
	require.True(t, machine.Back())

	admin = false
	err := machine.OpenAdmin()

	require.Error(t, err)
	assert.Equal(t, nav.ScreenFolders, machine.Current())
}

/*
TestMachine_InvalidTransitions verifies that transitions are only legal
from their declared source screen.
*/
func TestMachine_InvalidTransitions(t *testing.T) {
	machine := nav.NewMachine(alwaysAdmin)

	// A book cannot be opened before a folder is.
	err := machine.OpenBook("book-1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// Settings is reachable from folders only.
	require.NoError(t, machine.OpenFolder("folder-1", "Shounen"))
	err = machine.OpenSettings()
	require.Error(t, err)
	assert.Equal(t, nav.ScreenBooks, machine.Current())
}

/*
TestMachine_Reset verifies that Reset returns to the folders screen with
an empty context.
*/
func TestMachine_Reset(t *testing.T) {
	machine := nav.NewMachine(neverAdmin)
	require.NoError(t, machine.OpenFolder("folder-1", "Shounen"))
	require.NoError(t, machine.OpenBook("book-1"))

	machine.Reset()

	assert.Equal(t, nav.ScreenFolders, machine.Current())
	assert.Equal(t, nav.Context{}, machine.Context())
}
