package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eduline/eduline-client/internal/client/api"
	"github.com/eduline/eduline-client/internal/client/models"
	"github.com/eduline/eduline-client/internal/client/snapshot"
	"github.com/eduline/eduline-client/internal/common"
)

// wired is the real composition the application runs: the transport's
// refresh action is Manager.Refresh, so a 401 on any request drives a
// store-aware credential renewal.
type wired struct {
	manager   *Manager
	transport *api.AuthTransport
	creds     *api.Credentials
	client    api.Client
	snaps     *snapshot.Adapter
}

func newWired(t *testing.T, baseURL string) *wired {
	t.Helper()
	creds := api.NewCredentials()
	transport := api.NewAuthTransport(nil, creds, testLogger())
	client, err := api.NewHTTPClient(baseURL, transport, 5*time.Second, testLogger())
	require.NoError(t, err)

	snaps := setupSnapshots(t)
	m := NewManager(NewStore(), client, creds, snaps, 15*time.Minute, testLogger())
	transport.SetRefreshFunc(m.Refresh)

	return &wired{manager: m, transport: transport, creds: creds, client: client, snaps: snaps}
}

func bearerOf(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get(common.AuthorizationHeader), common.BearerPrefix)
}

func writeUser(t *testing.T, w http.ResponseWriter, user models.User, token string) {
	t.Helper()
	body := map[string]any{"user": user}
	if token != "" {
		body["token"] = token
	}
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// A stale persisted bearer with a still-valid refresh credential is the
// common restart case: the first "who am I" 401s, the transport refreshes
// and replays it, and Initialize must still resolve as authenticated.
func TestInitialize_StaleTokenIsRefreshedAndReplayed(t *testing.T) {
	user := models.User{ID: "u1", Email: "alice@eduline.io", Role: models.RoleStudent}
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if bearerOf(r) != "fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeUser(t, w, user, "")
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeUser(t, w, user, "fresh-token")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	wc := newWired(t, srv.URL)
	require.NoError(t, wc.snaps.Save(ctx, snapshot.Snapshot{User: &user, Token: "stale-token"}))

	wc.manager.Hydrate(ctx)
	wc.manager.Initialize(ctx)

	s := wc.manager.Store().Current()
	require.True(t, s.IsInitialized, "initialize resolved, the gate must open")
	require.True(t, s.IsAuthenticated)
	require.Equal(t, "u1", s.User.ID)
	require.False(t, s.IsLoading)
	require.Equal(t, PhaseIdle, s.Phase)
	require.Equal(t, "fresh-token", wc.creds.Token())
	require.Equal(t, int32(1), refreshCalls.Load())
}

// When the refresh credential is also dead, the replay never happens and
// Initialize must still land in an initialized logged-out state.
func TestInitialize_DeadRefreshCredentialResolvesLoggedOut(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	wc := newWired(t, srv.URL)
	wc.creds.Set("stale-token")

	wc.manager.Initialize(ctx)

	s := wc.manager.Store().Current()
	require.True(t, s.IsInitialized)
	require.False(t, s.IsAuthenticated)
	require.Empty(t, s.Err, "an expired session is a normal logged-out start, not an error")
	require.Equal(t, PhaseIdle, s.Phase)
	require.Empty(t, wc.creds.Token())
	require.Equal(t, int32(1), refreshCalls.Load())
}

// N requests failing on the same stale token share one refresh and are all
// replayed with the renewed credential. The refresh handler blocks until
// every stale request has been rejected, so all callers are queued on the
// same in-flight refresh.
func TestConcurrent401s_ShareOneRefreshAndAllReplay(t *testing.T) {
	const callers = 3
	user := models.User{ID: "u1", Role: models.RoleTeacher}

	var refreshCalls, staleHits, freshHits atomic.Int32
	allStale := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if bearerOf(r) != "fresh-token" {
			if staleHits.Add(1) == callers {
				close(allStale)
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		freshHits.Add(1)
		writeUser(t, w, user, "")
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		<-allStale
		refreshCalls.Add(1)
		writeUser(t, w, user, "fresh-token")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	wc := newWired(t, srv.URL)
	wc.creds.Set("stale-token")

	var wg sync.WaitGroup
	users := make([]*models.User, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			users[i], errs[i] = wc.client.Me(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "u1", users[i].ID)
	}
	require.Equal(t, int32(1), refreshCalls.Load())
	require.Equal(t, int32(callers), staleHits.Load())
	require.Equal(t, int32(callers), freshHits.Load())
	require.Equal(t, "fresh-token", wc.creds.Token())
}
