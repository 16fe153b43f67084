package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduline/eduline-client/internal/client/api"
	"github.com/eduline/eduline-client/internal/client/snapshot"
	"github.com/eduline/eduline-client/internal/logging"
	"github.com/eduline/eduline-client/internal/tokenx"
)

// Manager executes the session actions. Each action calls exactly one
// backend endpoint and commits exactly one success/failure transition to
// the store, plus its persistence side-effect where the action warrants
// one.
type Manager struct {
	store     *Store
	api       api.Client
	creds     *api.Credentials
	snapshots *snapshot.Adapter
	window    time.Duration
	log       logging.Logger
}

// NewManager wires the actions to their collaborators. window is the
// assumed access-token lifetime used when the token itself carries no
// expiry.
func NewManager(store *Store, client api.Client, creds *api.Credentials,
	snapshots *snapshot.Adapter, window time.Duration, log logging.Logger) *Manager {
	return &Manager{
		store:     store,
		api:       client,
		creds:     creds,
		snapshots: snapshots,
		window:    window,
		log:       log.With("component", "session"),
	}
}

// Store exposes the state store for subscribers (scheduler, UI).
func (m *Manager) Store() *Store {
	return m.store
}

// expiry derives when the current credential should be treated as stale:
// the token's own exp claim when it is a JWT, the configured window
// otherwise.
func (m *Manager) expiry() time.Time {
	if exp, ok := tokenx.Expiry(m.creds.Token()); ok {
		return exp
	}
	return time.Now().Add(m.window)
}

// Hydrate seeds the in-memory credential from the persisted snapshot. Call
// it once, before Initialize, so the first "who am I" request already
// carries the stored bearer token. A missing or unreadable snapshot is a
// normal logged-out start.
func (m *Manager) Hydrate(ctx context.Context) {
	snap, err := m.snapshots.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to load persisted session", "error", err)
		return
	}
	if snap == nil {
		return
	}
	if snap.Token != "" {
		m.creds.Set(snap.Token)
	}
	m.log.Debug(ctx, "session snapshot rehydrated", "has_token", snap.Token != "")
}

// Initialize probes the backend for an existing session. It never reports
// an error to the caller: a 401 means "not logged in", and a network
// failure leaves the session initialized with a recoverable error so the
// UI can proceed to a logged-out view instead of hanging.
func (m *Manager) Initialize(ctx context.Context) {
	m.store.Commit(Session.BeginInitialize)

	user, err := m.api.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			m.creds.Clear()
			m.store.CommitIf(PhaseInitializing, func(s Session) Session {
				return s.FailInitialize("", true)
			})
			m.log.Info(ctx, "no active session")
			return
		}
		m.store.CommitIf(PhaseInitializing, func(s Session) Session {
			return s.FailInitialize(err.Error(), false)
		})
		m.log.Warn(ctx, "session probe failed", "error", err)
		return
	}

	exp := m.expiry()
	m.store.CommitIf(PhaseInitializing, func(s Session) Session {
		return s.CompleteInitialize(user, exp)
	})
	m.log.Info(ctx, "session restored", "user_id", user.ID, "role", user.Role)
}

// Login authenticates with an identifier/password pair and persists the
// resulting snapshot.
func (m *Manager) Login(ctx context.Context, identifier, password string) error {
	m.store.Commit(Session.BeginAuthenticate)

	res, err := m.api.Login(ctx, identifier, password)
	if err != nil {
		return m.failAuthenticate(ctx, err)
	}
	return m.completeAuthenticate(ctx, res)
}

// Signup registers a new account. Field-level validation happens before
// invocation; the response contract matches Login.
func (m *Manager) Signup(ctx context.Context, profile api.SignupProfile) error {
	m.store.Commit(Session.BeginAuthenticate)

	res, err := m.api.Signup(ctx, profile)
	if err != nil {
		return m.failAuthenticate(ctx, err)
	}
	return m.completeAuthenticate(ctx, res)
}

func (m *Manager) failAuthenticate(ctx context.Context, err error) error {
	m.creds.Clear()
	m.store.CommitIf(PhaseAuthenticating, func(s Session) Session {
		return s.FailAuthenticate(err.Error())
	})
	return err
}

func (m *Manager) completeAuthenticate(ctx context.Context, res *api.AuthResult) error {
	if res.Token != "" {
		m.creds.Set(res.Token)
	}
	exp := m.expiry()
	m.store.CommitIf(PhaseAuthenticating, func(s Session) Session {
		return s.CompleteAuthenticate(res.User, exp)
	})

	if err := m.snapshots.Save(ctx, snapshot.Snapshot{User: res.User, Token: res.Token}); err != nil {
		m.log.Warn(ctx, "failed to persist session snapshot", "error", err)
	}
	m.log.Info(ctx, "authenticated", "user_id", res.User.ID, "role", res.User.Role)
	return nil
}

// Logout always transitions to logged-out locally: the user-visible
// contract is "stop being authenticated on this client", not "backend
// confirms revocation". Backend failures are logged, never surfaced.
// Calling it when already logged out lands in the same terminal state.
func (m *Manager) Logout(ctx context.Context) {
	m.store.Commit(Session.BeginLogout)

	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn(ctx, "logout request failed", "error", err)
	}

	m.creds.Clear()
	if err := m.snapshots.Clear(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear session snapshot", "error", err)
	}

	m.store.Commit(func(s Session) Session { return s.CompleteLogout() })
	m.log.Info(ctx, "logged out")
}

// Refresh exchanges the ambient credential for a renewed one. Safe to call
// with no session: the backend rejects it and the failure transition is a
// no-op on an already logged-out store. Failures are terminal; there is
// no automatic retry.
//
// Refresh claims the store phase only when no other action holds it. When
// it runs nested inside another action's request (the transport recovering
// a 401 mid-Initialize, say), the enclosing action keeps ownership:
// Refresh renews the credential and lets the owner commit the outcome of
// the replayed call.
func (m *Manager) Refresh(ctx context.Context) error {
	_, owned := m.store.CommitIf(PhaseIdle, Session.BeginRefresh)

	res, err := m.api.Refresh(ctx)
	if err != nil {
		m.creds.Clear()
		if owned {
			// If a logout won the race while this refresh was in flight,
			// the phase has moved on and the late failure commits nothing.
			m.store.CommitIf(PhaseRefreshing, func(s Session) Session {
				return s.FailRefresh(err.Error())
			})
		}
		m.log.Warn(ctx, "session refresh failed", "error", err)
		return fmt.Errorf("%w: %v", api.ErrRefreshExhausted, err)
	}

	if res.Token != "" {
		m.creds.Set(res.Token)
	}
	exp := m.expiry()
	if owned {
		m.store.CommitIf(PhaseRefreshing, func(s Session) Session {
			return s.CompleteRefresh(res.User, exp)
		})
	}
	m.log.Debug(ctx, "session refreshed", "expires_at", exp)
	return nil
}
