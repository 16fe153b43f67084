package session

import "sync"

// Store is the single source of truth for the Session. State changes only
// through committed transitions; subscribers are notified after each
// commit.
type Store struct {
	mu   sync.Mutex
	cur  Session
	subs []func(Session)
}

// NewStore returns a store holding the initial unauthenticated session.
func NewStore() *Store {
	return &Store{cur: New()}
}

// Current returns the session as of the last commit.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Subscribe registers fn to run after every committed transition. The
// callback receives the committed session value and must not call back
// into the store.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Commit applies the transition to the current session unconditionally.
func (s *Store) Commit(transition func(Session) Session) Session {
	s.mu.Lock()
	s.cur = transition(s.cur)
	cur := s.cur
	subs := append([]func(Session){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cur)
	}
	return cur
}

// CommitIf applies the transition only when the store is still in the given
// phase. This is the guard against late-arriving outcomes: an action whose
// phase has since been taken over (say, by a logout) commits nothing.
func (s *Store) CommitIf(phase Phase, transition func(Session) Session) (Session, bool) {
	s.mu.Lock()
	if s.cur.Phase != phase {
		cur := s.cur
		s.mu.Unlock()
		return cur, false
	}
	s.cur = transition(s.cur)
	cur := s.cur
	subs := append([]func(Session){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cur)
	}
	return cur, true
}
