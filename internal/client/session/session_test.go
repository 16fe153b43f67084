package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eduline/eduline-client/internal/client/models"
)

func requireConsistent(t *testing.T, s Session) {
	t.Helper()
	require.Equal(t, s.User != nil, s.IsAuthenticated,
		"IsAuthenticated must mirror User presence")
	if !s.IsAuthenticated {
		require.True(t, s.TokenExpiresAt.IsZero(),
			"unauthenticated session must not carry an expiry")
	}
}

func alice() *models.User {
	return &models.User{ID: "u1", Email: "alice@eduline.io", Role: models.RoleStudent}
}

func TestTransitions_KeepAuthConsistency(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)

	// every reachable state along the happy and unhappy paths stays
	// consistent
	states := []Session{New()}
	push := func(s Session) { states = append(states, s) }

	s := New().BeginInitialize()
	push(s)
	push(s.CompleteInitialize(nil, time.Time{}))
	push(s.CompleteInitialize(alice(), exp))
	push(s.FailInitialize("connection refused", false))
	push(s.FailInitialize("", true))

	s = New().BeginAuthenticate()
	push(s)
	push(s.CompleteAuthenticate(alice(), exp))
	push(s.FailAuthenticate("invalid credentials"))

	s = New().CompleteAuthenticate(alice(), exp).BeginRefresh()
	push(s)
	push(s.CompleteRefresh(nil, exp.Add(time.Minute)))
	push(s.CompleteRefresh(alice(), exp.Add(time.Minute)))
	push(s.FailRefresh("credential revoked"))

	s = New().CompleteAuthenticate(alice(), exp).BeginLogout()
	push(s)
	push(s.CompleteLogout())

	for i, st := range states {
		t.Run(fmt.Sprintf("state_%02d_%s", i, st.Phase), func(t *testing.T) {
			requireConsistent(t, st)
		})
	}
}

func TestCompleteInitialize_LoggedOutAnswer(t *testing.T) {
	s := New().BeginInitialize().CompleteInitialize(nil, time.Time{})

	require.True(t, s.IsInitialized)
	require.False(t, s.IsLoading)
	require.False(t, s.IsAuthenticated)
	require.Empty(t, s.Err)
}

func TestFailInitialize_NetworkErrorDoesNotAssertLoggedOut(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	authed := New().CompleteAuthenticate(alice(), exp)

	s := authed.BeginInitialize().FailInitialize("connection refused", false)

	require.True(t, s.IsInitialized)
	require.Equal(t, "connection refused", s.Err)
	// the prior identity survives a transient failure
	require.NotNil(t, s.User)
	require.True(t, s.IsAuthenticated)
}

func TestFailInitialize_AuthFailureMeansLoggedOut(t *testing.T) {
	s := New().BeginInitialize().FailInitialize("", true)

	require.True(t, s.IsInitialized)
	require.False(t, s.IsAuthenticated)
	require.Nil(t, s.User)
	require.Empty(t, s.Err, "a 401 probe answer is not a displayable error")
}

func TestBeginAuthenticate_ClearsPreviousError(t *testing.T) {
	s := New().BeginAuthenticate().FailAuthenticate("invalid credentials")
	require.Equal(t, "invalid credentials", s.Err)

	s = s.BeginAuthenticate()
	require.Empty(t, s.Err)
	require.True(t, s.IsLoading)
}

func TestCompleteRefresh_PreservesUserWhenBackendOmitsIt(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)
	s := New().CompleteAuthenticate(alice(), exp)

	next := exp.Add(10 * time.Minute)
	s = s.BeginRefresh().CompleteRefresh(nil, next)

	require.Equal(t, "u1", s.User.ID)
	require.True(t, s.IsAuthenticated)
	require.Equal(t, next, s.TokenExpiresAt)
}

func TestFailRefresh_IsTerminal(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)
	s := New().CompleteAuthenticate(alice(), exp).BeginRefresh().FailRefresh("revoked")

	require.Nil(t, s.User)
	require.False(t, s.IsAuthenticated)
	require.True(t, s.TokenExpiresAt.IsZero())
	require.Equal(t, "revoked", s.Err)
}

func TestCompleteLogout_ResetsButStaysInitialized(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)
	s := New().BeginInitialize().CompleteInitialize(alice(), exp)

	s = s.BeginLogout().CompleteLogout()

	require.Equal(t, Session{IsInitialized: true, Phase: PhaseIdle}, s)
}

func TestCompleteLogout_IdempotentFromLoggedOut(t *testing.T) {
	s := New().BeginLogout().CompleteLogout()
	again := s.BeginLogout().CompleteLogout()
	require.Equal(t, s, again)
}

func TestClearError(t *testing.T) {
	s := New().BeginAuthenticate().FailAuthenticate("bad").ClearError()
	require.Empty(t, s.Err)
}
