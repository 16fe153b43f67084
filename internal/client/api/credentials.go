package api

import "sync"

// Credentials holds the in-memory bearer token shared between the session
// layer (which updates it after login/refresh) and the transport (which
// attaches it to outgoing requests). Safe for concurrent use.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// NewCredentials returns an empty credential holder.
func NewCredentials() *Credentials {
	return &Credentials{}
}

// Token returns the current bearer token, "" when none is set.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Set replaces the bearer token.
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Clear drops the bearer token.
func (c *Credentials) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}
