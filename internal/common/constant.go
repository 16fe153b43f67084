// Package common defines shared constants and small helpers used across
// the EduLine client layers.
package common

const (
	// AuthorizationHeader is the HTTP header carrying the bearer credential.
	AuthorizationHeader = "Authorization"

	// BearerPrefix is prepended to the access token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-Id"
)
