// Package models defines the client-side domain types shared between the
// API layer and the session coordinator.
package models

// Role identifies the dashboard a user is routed to after login. It is
// opaque to the session coordinator itself.
type Role string

const (
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// User is the identity record returned by the backend. The session layer
// replaces it wholesale on every successful action and never mutates it
// in place.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role,omitempty"`
}
