package session

import (
	"context"
	"sync"
	"time"

	"github.com/eduline/eduline-client/internal/logging"
)

// Scheduler proactively renews the session: whenever the store reports an
// authenticated session with a known expiry, it arms a single timer that
// fires the refresh shortly before the credential goes stale, so ordinary
// request latency rarely observes an expired token.
//
// At most one timer is ever armed. A refresh failure deauthenticates the
// session through the store; the scheduler observes the resulting state
// and simply does not rearm.
type Scheduler struct {
	lead    time.Duration
	refresh func(ctx context.Context) error
	log     logging.Logger

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewScheduler builds a scheduler firing refresh lead before expiry.
// Subscribe its Observe method to the store to activate it.
func NewScheduler(lead time.Duration, refresh func(ctx context.Context) error, log logging.Logger) *Scheduler {
	return &Scheduler{
		lead:    lead,
		refresh: refresh,
		log:     log.With("component", "scheduler"),
	}
}

// Observe reacts to a committed session state. Any previously armed timer
// is cancelled first; a new one is armed only for an authenticated,
// non-loading session with a known expiry.
func (s *Scheduler) Observe(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.stopped {
		return
	}
	if !sess.IsAuthenticated || sess.IsLoading || sess.TokenExpiresAt.IsZero() {
		return
	}

	delay := time.Until(sess.TokenExpiresAt) - s.lead
	if delay < 0 {
		delay = 0
	}
	s.timer = time.AfterFunc(delay, s.fire)
	s.log.Debug(context.Background(), "refresh timer armed", "delay", delay)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.timer = nil
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}

	ctx := context.Background()
	s.log.Debug(ctx, "proactive refresh firing")
	if err := s.refresh(ctx); err != nil {
		// The failure transition has already deauthenticated the session;
		// no rearm will happen.
		s.log.Warn(ctx, "proactive refresh failed", "error", err)
	}
}

// Stop cancels any armed timer unconditionally and prevents future arming.
// Call on teardown so no timer outlives the session it was armed for.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
