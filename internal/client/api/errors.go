package api

import "errors"

var (
	// ErrUnauthorized signals a 401-class response: the current credential
	// is missing, stale, or revoked.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials signals that the backend rejected a login or
	// signup attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMalformedResponse signals a successful response that violates the
	// documented schema (e.g. a login reply without a user payload).
	ErrMalformedResponse = errors.New("malformed server response")
	// ErrUnavailable signals a transport-level failure, potentially
	// transient.
	ErrUnavailable = errors.New("server unavailable")
	// ErrRefreshExhausted signals that the refresh itself failed. It is
	// terminal for the session: retrying cannot fix a revoked credential.
	ErrRefreshExhausted = errors.New("session refresh failed")
)
