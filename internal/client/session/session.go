// Package session implements the authentication session coordinator: the
// canonical in-memory session state, the actions that mutate it, and the
// timer that silently renews the access credential before it goes stale.
package session

import (
	"time"

	"github.com/eduline/eduline-client/internal/client/models"
)

// Phase tracks which action currently owns the session. It guards against
// late-arriving outcomes: a refresh that settles after the user logged out
// must not resurrect the session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitializing
	PhaseAuthenticating
	PhaseRefreshing
	PhaseLoggingOut
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseLoggingOut:
		return "logging-out"
	default:
		return "idle"
	}
}

// Session is the client's belief about who is authenticated and until when
// that belief is valid.
//
// Invariants, maintained by every transition:
//   - IsAuthenticated == (User != nil)
//   - IsLoading is true only while exactly one action is in flight
//   - TokenExpiresAt is zero when unauthenticated
type Session struct {
	User            *models.User
	IsAuthenticated bool
	IsInitialized   bool
	IsLoading       bool
	Err             string
	TokenExpiresAt  time.Time
	Phase           Phase
}

// New returns the unauthenticated initial state.
func New() Session {
	return Session{Phase: PhaseIdle}
}

// The transition methods below are total, pure functions of the current
// state and the action outcome. They read no external mutable state, so the
// state machine is testable without a network.

func (s Session) BeginInitialize() Session {
	s.IsLoading = true
	s.IsInitialized = false
	s.Err = ""
	s.Phase = PhaseInitializing
	return s
}

// CompleteInitialize records the result of the "who am I" probe. A nil user
// is a normal logged-out answer, not an error.
func (s Session) CompleteInitialize(user *models.User, expiresAt time.Time) Session {
	s.User = user
	s.IsAuthenticated = user != nil
	s.IsInitialized = true
	s.IsLoading = false
	s.Err = ""
	s.Phase = PhaseIdle
	if s.IsAuthenticated {
		s.TokenExpiresAt = expiresAt
	} else {
		s.TokenExpiresAt = time.Time{}
	}
	return s
}

// FailInitialize handles a failed probe. An authorization-class failure
// means "not logged in" and surfaces no error; any other failure surfaces
// the message but does not assert unauthenticated, so a transient network
// problem cannot silently log the user out. Either way the session counts
// as initialized.
func (s Session) FailInitialize(msg string, authFailure bool) Session {
	if authFailure {
		s.User = nil
		s.IsAuthenticated = false
		s.TokenExpiresAt = time.Time{}
		s.Err = ""
	} else {
		s.Err = msg
	}
	s.IsInitialized = true
	s.IsLoading = false
	s.Phase = PhaseIdle
	return s
}

func (s Session) BeginAuthenticate() Session {
	s.IsLoading = true
	s.Err = ""
	s.Phase = PhaseAuthenticating
	return s
}

// CompleteAuthenticate applies a successful login or signup. The caller
// guarantees a non-nil user; the API layer rejects a user-less success
// reply as malformed before it ever reaches the store.
func (s Session) CompleteAuthenticate(user *models.User, expiresAt time.Time) Session {
	s.User = user
	s.IsAuthenticated = true
	s.IsInitialized = true
	s.IsLoading = false
	s.Err = ""
	s.TokenExpiresAt = expiresAt
	s.Phase = PhaseIdle
	return s
}

func (s Session) FailAuthenticate(msg string) Session {
	s.User = nil
	s.IsAuthenticated = false
	s.IsLoading = false
	s.Err = msg
	s.TokenExpiresAt = time.Time{}
	s.Phase = PhaseIdle
	return s
}

func (s Session) BeginRefresh() Session {
	s.IsLoading = true
	s.Err = ""
	s.Phase = PhaseRefreshing
	return s
}

// CompleteRefresh updates the user only when the backend supplied one and
// always moves the expiry forward.
func (s Session) CompleteRefresh(user *models.User, expiresAt time.Time) Session {
	if user != nil {
		s.User = user
	}
	s.IsAuthenticated = s.User != nil
	s.IsLoading = false
	s.Err = ""
	s.Phase = PhaseIdle
	if s.IsAuthenticated {
		s.TokenExpiresAt = expiresAt
	} else {
		s.TokenExpiresAt = time.Time{}
	}
	return s
}

// FailRefresh is terminal for the session: a failed refresh almost always
// means the underlying credential was revoked or expired, and retrying
// cannot fix that.
func (s Session) FailRefresh(msg string) Session {
	s.User = nil
	s.IsAuthenticated = false
	s.IsLoading = false
	s.Err = msg
	s.TokenExpiresAt = time.Time{}
	s.Phase = PhaseIdle
	return s
}

func (s Session) BeginLogout() Session {
	s.IsLoading = true
	s.Err = ""
	s.Phase = PhaseLoggingOut
	return s
}

// CompleteLogout resets to the unauthenticated state regardless of prior
// phase. IsInitialized survives: the first initialize already resolved and
// the gate is never re-entered.
func (s Session) CompleteLogout() Session {
	return Session{IsInitialized: s.IsInitialized, Phase: PhaseIdle}
}

// ClearError drops a previously surfaced error message.
func (s Session) ClearError() Session {
	s.Err = ""
	return s
}
