// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package session manages the client-side identity lifecycle.

The manager keeps a single identity snapshot derived from the remote auth
service. It never invents identity locally: sign-in and sign-up only talk
to the remote, and the snapshot changes when the follow-up profile probe
succeeds. Sign-out is the one exception, clearing the snapshot immediately
so stale admin rights can never outlive the session.

# Concurrency

All state access is mutex-guarded; listeners are invoked outside the lock
with a copy of the snapshot.
*/
package session

import (
	"context"
	"sync"

	"github.com/harutoki/tsundoku/internal/platform/apperr"
)

// # Remote Contract

// Identity is what the client knows about the signed-in account.
type Identity struct {
	UserID string
	Email  string
	Admin  bool
}

// API is the remote surface the manager drives. Implemented by the HTTP
// API client in production and by fakes in tests.
type API interface {
	// SignUp registers a new account. It does not establish a session.
	SignUp(context context.Context, email, password string) error

	// SignIn authenticates and stores transport credentials (access token,
	// refresh cookie) inside the API client.
	SignIn(context context.Context, email, password string) error

	// SignOut revokes the current session and clears stored credentials.
	SignOut(context context.Context) error

	// ChangePassword rotates the account password.
	ChangePassword(context context.Context, currentPassword, newPassword string) error

	// Profile resolves the current credentials into an identity. An
	// Unauthorized error means the stored session is no longer valid.
	Profile(context context.Context) (*Identity, error)
}

// # Manager

// Snapshot is the observable state of the session manager.
type Snapshot struct {
	Identity *Identity // nil when signed out
	Loading  bool
}

// Listener receives a snapshot copy after every state change.
type Listener func(Snapshot)

// Manager owns the client-side identity state.
type Manager struct {
	remote API

	mu        sync.Mutex
	identity  *Identity
	loading   bool
	listeners []Listener
}

// NewManager constructs a signed-out Manager over the given remote.
func NewManager(remote API) *Manager {
	return &Manager{remote: remote}
}

// Subscribe registers a listener for snapshot changes. Listeners are
// called synchronously, outside the state lock.
func (manager *Manager) Subscribe(listener Listener) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.listeners = append(manager.listeners, listener)
}

// Snapshot returns a copy of the current state.
func (manager *Manager) Snapshot() Snapshot {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.snapshotLocked()
}

func (manager *Manager) snapshotLocked() Snapshot {
	snapshot := Snapshot{Loading: manager.loading}
	if manager.identity != nil {
		clone := *manager.identity
		snapshot.Identity = &clone
	}
	return snapshot
}

// IsAdmin reports whether the current identity carries admin rights.
// Signed-out means no.
func (manager *Manager) IsAdmin() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.identity != nil && manager.identity.Admin
}

// setState mutates state under the lock and notifies listeners after
// releasing it.
func (manager *Manager) setState(mutate func()) {
	manager.mu.Lock()
	mutate()
	snapshot := manager.snapshotLocked()
	listeners := make([]Listener, len(manager.listeners))
	copy(listeners, manager.listeners)
	manager.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

// # Lifecycle Operations

/*
Restore probes the remote with previously stored credentials.

Description: Called once at startup. A successful probe installs the
returned identity. Any probe failure forces a full local sign-out so the
client never operates on a phantom session.

Parameters:
  - context: context.Context

Returns:
  - error: The probe failure, after the local state has been cleared
*/
func (manager *Manager) Restore(context context.Context) error {
	manager.setState(func() { manager.loading = true })

	identity, err := manager.remote.Profile(context)

	manager.setState(func() {
		manager.loading = false
		if err != nil {
			manager.identity = nil
			return
		}
		manager.identity = identity
	})

	return err
}

/*
SignUp registers a new account.

Description: Registration alone never installs an identity; the caller
still signs in afterwards.

Parameters:
  - context: context.Context
  - email, password: string

Returns:
  - error: Remote validation or conflict errors
*/
func (manager *Manager) SignUp(context context.Context, email, password string) error {
	return manager.remote.SignUp(context, email, password)
}

/*
SignIn authenticates and installs the probed identity.

Description: The identity snapshot is only ever taken from the remote's
answer: after the credential exchange succeeds, a profile probe supplies
the identity. If that probe fails the account is treated as a regular
non-admin user rather than failing the whole sign-in; admin rights are
never granted on a degraded path.

Parameters:
  - context: context.Context
  - email, password: string

Returns:
  - error: Credential failures
*/
func (manager *Manager) SignIn(context context.Context, email, password string) error {
	manager.setState(func() { manager.loading = true })

	err := manager.remote.SignIn(context, email, password)
	if err != nil {
		manager.setState(func() { manager.loading = false })
		return err
	}

	identity, probeErr := manager.remote.Profile(context)

	manager.setState(func() {
		manager.loading = false
		if probeErr != nil {
			// Degraded probe: session is live but the role is unknown.
			// Fall back to a minimal non-admin identity.
			manager.identity = &Identity{Email: email, Admin: false}
			return
		}
		manager.identity = identity
	})

	return nil
}

/*
SignOut revokes the session and clears the snapshot immediately.

Description: The local identity (and with it any admin flag) is dropped
before the remote call completes, so UI gates close at once even if the
network is slow or the revocation fails.

Parameters:
  - context: context.Context

Returns:
  - error: Remote revocation failures (local state is already cleared)
*/
func (manager *Manager) SignOut(context context.Context) error {
	manager.setState(func() {
		manager.identity = nil
		manager.loading = false
	})

	return manager.remote.SignOut(context)
}

/*
ChangePassword rotates the password for the signed-in account.

Parameters:
  - context: context.Context
  - currentPassword, newPassword: string

Returns:
  - error: apperr.Unauthorized when signed out, or remote failures
*/
func (manager *Manager) ChangePassword(context context.Context, currentPassword, newPassword string) error {
	manager.mu.Lock()
	signedIn := manager.identity != nil
	manager.mu.Unlock()

	if !signedIn {
		return apperr.Unauthorized("Not signed in")
	}

	return manager.remote.ChangePassword(context, currentPassword, newPassword)
}
