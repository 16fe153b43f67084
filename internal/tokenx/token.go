// Package tokenx extracts expiry information from access tokens.
//
// The backend does not report token lifetimes explicitly. When the access
// token happens to be a JWT carrying an exp claim, that claim is the real
// expiry; otherwise callers must fall back to a configured estimate.
package tokenx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry returns the exp claim of the token, when the token is a parseable
// JWT that carries one. The signature is NOT verified: the client has no
// key material and only needs the timestamp for scheduling, never for
// trust decisions.
func Expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
