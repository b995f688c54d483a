// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/client/session"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
)

// # Fakes

type fakeAPI struct {
	identity   *session.Identity
	signInErr  error
	profileErr error
	signOutErr error

	signInCalls  int
	profileCalls int
	signOutCalls int
}

func (api *fakeAPI) SignUp(_ context.Context, _, _ string) error { return nil }

func (api *fakeAPI) SignIn(_ context.Context, _, _ string) error {
	api.signInCalls++
	return api.signInErr
}

func (api *fakeAPI) SignOut(_ context.Context) error {
	api.signOutCalls++
	return api.signOutErr
}

func (api *fakeAPI) ChangePassword(_ context.Context, _, _ string) error { return nil }

func (api *fakeAPI) Profile(_ context.Context) (*session.Identity, error) {
	api.profileCalls++
	if api.profileErr != nil {
		return nil, api.profileErr
	}
	clone := *api.identity
	return &clone, nil
}

// # Tests

/*
TestManager_SignIn_InstallsProbedIdentity verifies that a successful
sign-in takes its identity from the profile probe, admin flag included.
*/
func TestManager_SignIn_InstallsProbedIdentity(t *testing.T) {
	api := &fakeAPI{identity: &session.Identity{UserID: "user-1", Email: "haru@example.com", Admin: true}}
	manager := session.NewManager(api)

	err := manager.SignIn(context.Background(), "haru@example.com", "s3cret-pass")
	require.NoError(t, err)

	snapshot := manager.Snapshot()
	require.NotNil(t, snapshot.Identity)
	assert.Equal(t, "user-1", snapshot.Identity.UserID)
	assert.True(t, snapshot.Identity.Admin)
	assert.True(t, manager.IsAdmin())
	assert.False(t, snapshot.Loading)
	assert.Equal(t, 1, api.profileCalls)
}

/*
TestManager_SignIn_CredentialFailure verifies that a rejected credential
exchange leaves the manager signed out and never probes the profile.
*/
func TestManager_SignIn_CredentialFailure(t *testing.T) {
	api := &fakeAPI{signInErr: apperr.Unauthorized("Invalid email or password")}
	manager := session.NewManager(api)

	err := manager.SignIn(context.Background(), "haru@example.com", "wrong")
	require.Error(t, err)

	assert.Nil(t, manager.Snapshot().Identity)
	assert.Equal(t, 0, api.profileCalls)
}

/*
TestManager_SignIn_DegradedProbe verifies that a live session with a
failed role probe is treated as a plain non-admin user instead of
failing the sign-in.
*/
func TestManager_SignIn_DegradedProbe(t *testing.T) {
	api := &fakeAPI{profileErr: errors.New("upstream timeout")}
	manager := session.NewManager(api)

	err := manager.SignIn(context.Background(), "haru@example.com", "s3cret-pass")
	require.NoError(t, err)

	snapshot := manager.Snapshot()
	require.NotNil(t, snapshot.Identity)
	assert.Equal(t, "haru@example.com", snapshot.Identity.Email)
	assert.False(t, manager.IsAdmin())
}

/*
TestManager_SignOut_ClearsIdentityImmediately verifies that sign-out
drops the local identity even when the remote revocation fails.
*/
func TestManager_SignOut_ClearsIdentityImmediately(t *testing.T) {
	api := &fakeAPI{
		identity:   &session.Identity{UserID: "user-1", Email: "haru@example.com", Admin: true},
		signOutErr: errors.New("network down"),
	}
	manager := session.NewManager(api)
	require.NoError(t, manager.SignIn(context.Background(), "haru@example.com", "s3cret-pass"))
	require.True(t, manager.IsAdmin())

	err := manager.SignOut(context.Background())

	assert.Error(t, err)
	assert.Nil(t, manager.Snapshot().Identity)
	assert.False(t, manager.IsAdmin())
	assert.Equal(t, 1, api.signOutCalls)
}

/*
TestManager_Restore verifies the startup probe: success installs the
identity, failure forces a full local sign-out.
*/
func TestManager_Restore(t *testing.T) {
	t.Run("valid stored session", func(t *testing.T) {
		api := &fakeAPI{identity: &session.Identity{UserID: "user-1", Email: "haru@example.com"}}
		manager := session.NewManager(api)

		require.NoError(t, manager.Restore(context.Background()))
		require.NotNil(t, manager.Snapshot().Identity)
		assert.Equal(t, "user-1", manager.Snapshot().Identity.UserID)
	})

	t.Run("expired stored session", func(t *testing.T) {
		api := &fakeAPI{identity: &session.Identity{UserID: "user-1"}}
		manager := session.NewManager(api)
		require.NoError(t, manager.Restore(context.Background()))

		api.profileErr = apperr.Unauthorized("Session expired")
		err := manager.Restore(context.Background())

		assert.Error(t, err)
		assert.Nil(t, manager.Snapshot().Identity)
	})
}

/*
TestManager_ChangePassword_RequiresSession verifies that a signed-out
manager refuses the password change locally.
*/
func TestManager_ChangePassword_RequiresSession(t *testing.T) {
	manager := session.NewManager(&fakeAPI{})

	err := manager.ChangePassword(context.Background(), "old-pass", "new-pass")

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

/*
TestManager_Subscribe verifies that listeners observe the loading flag
flip and the final identity during sign-in.
*/
func TestManager_Subscribe(t *testing.T) {
	api := &fakeAPI{identity: &session.Identity{UserID: "user-1", Email: "haru@example.com"}}
	manager := session.NewManager(api)

	var snapshots []session.Snapshot
	manager.Subscribe(func(snapshot session.Snapshot) {
		snapshots = append(snapshots, snapshot)
	})

	require.NoError(t, manager.SignIn(context.Background(), "haru@example.com", "s3cret-pass"))

	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].Loading)
	assert.Nil(t, snapshots[0].Identity)
	assert.False(t, snapshots[1].Loading)
	require.NotNil(t, snapshots[1].Identity)
	assert.Equal(t, "user-1", snapshots[1].Identity.UserID)
}
