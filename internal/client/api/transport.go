package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/eduline/eduline-client/internal/common"
	"github.com/eduline/eduline-client/internal/logging"
)

// RefreshFunc renews the session credential. It is injected after
// construction to break the cycle between the transport and the session
// layer that owns the refresh action.
type RefreshFunc func(ctx context.Context) error

type retriedKey struct{}

// AuthTransport is an http.RoundTripper that attaches the bearer
// credential to outgoing requests and coordinates recovery from 401
// responses: at most one refresh runs at a time, concurrently failing
// requests wait for its outcome, and every waiter of a given refresh
// observes the same result.
type AuthTransport struct {
	base  http.RoundTripper
	creds *Credentials
	log   logging.Logger

	mu           sync.Mutex
	refreshing   bool
	waiters      []chan error
	refresh      RefreshFunc
	onSessionEnd func()
}

// NewAuthTransport wraps base (http.DefaultTransport when nil).
func NewAuthTransport(base http.RoundTripper, creds *Credentials, log logging.Logger) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{base: base, creds: creds, log: log}
}

// SetRefreshFunc installs the refresh action invoked on 401 responses.
func (t *AuthTransport) SetRefreshFunc(fn RefreshFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refresh = fn
}

// SetSessionEndHook installs a callback fired once per failed refresh
// cycle, after the waiter queue has been rejected. The client application
// uses it to route the user to the unauthenticated entry point.
func (t *AuthTransport) SetSessionEndHook(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSessionEnd = fn
}

// authLifecyclePaths are never retried through a refresh: a 401 from any of
// them is the outcome, not a stale-token symptom.
var authLifecyclePaths = map[string]struct{}{
	"/api/auth/login":   {},
	"/api/auth/signup":  {},
	"/api/auth/logout":  {},
	"/api/auth/refresh": {},
}

func isAuthLifecyclePath(path string) bool {
	_, ok := authLifecyclePaths[strings.TrimRight(path, "/")]
	return ok
}

func wasRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey{}).(bool)
	return v
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.creds.Token()

	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A request is retried at most once, auth lifecycle endpoints are
	// never retried, and without a credential there is nothing to renew.
	if wasRetried(req.Context()) || isAuthLifecyclePath(req.URL.Path) || token == "" {
		return resp, nil
	}

	if rerr := t.Refresh(req.Context()); rerr != nil {
		// The refresh settled in failure; every request that waited on it
		// propagates its original 401 unchanged.
		t.log.Debug(req.Context(), "refresh failed, propagating 401",
			"path", req.URL.Path, "error", rerr)
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	retry := req.Clone(context.WithValue(req.Context(), retriedKey{}, true))
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return nil, berr
		}
		retry.Body = body
	}
	if tok := t.creds.Token(); tok != "" {
		retry.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
	}

	t.log.Debug(req.Context(), "replaying request after refresh", "path", req.URL.Path)
	return t.base.RoundTrip(retry)
}

// Refresh is the single-flight entry point for credential renewal. The
// first caller runs the injected RefreshFunc; callers arriving while it is
// in flight queue up and share its outcome. The queue is empty between
// refresh cycles.
func (t *AuthTransport) Refresh(ctx context.Context) error {
	t.mu.Lock()
	if t.refreshing {
		ch := make(chan error, 1)
		t.waiters = append(t.waiters, ch)
		t.mu.Unlock()

		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	t.refreshing = true
	fn := t.refresh
	t.mu.Unlock()

	err := ErrRefreshExhausted
	if fn != nil {
		err = fn(ctx)
	}

	t.mu.Lock()
	t.refreshing = false
	waiters := t.waiters
	t.waiters = nil
	hook := t.onSessionEnd
	t.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}

	if err != nil && hook != nil {
		hook()
	}
	return err
}
