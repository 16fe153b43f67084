package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduline/eduline-client/internal/client/api"
	"github.com/eduline/eduline-client/internal/client/models"
	"github.com/eduline/eduline-client/internal/common"
)

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) {
	identifier, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	err = a.manager.Login(ctx, identifier, string(password))
	switch {
	case err == nil:
		s := a.store.Current()
		fmt.Fprintf(a.out, "Logged in as %s (%s)\n", s.User.Email, s.User.Role)
	case errors.Is(err, api.ErrInvalidCredentials):
		fmt.Fprintln(a.out, "Login failed: invalid email or password")
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Login failed: server unavailable, try again later")
	default:
		fmt.Fprintf(a.out, "Login failed: %v\n", err)
	}
}

// Register prompts for a registration profile and signs up.
func (a *App) Register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	name, err := GetSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	role, err := GetSimpleText(a.reader, "Role (student/teacher, default student)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if role == "" {
		role = string(models.RoleStudent)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	err = a.manager.Signup(ctx, api.SignupProfile{
		Email:    email,
		Password: string(password),
		Name:     name,
		Role:     models.Role(role),
	})
	switch {
	case err == nil:
		s := a.store.Current()
		fmt.Fprintf(a.out, "Registered and logged in as %s (%s)\n", s.User.Email, s.User.Role)
	case errors.Is(err, api.ErrInvalidCredentials):
		fmt.Fprintf(a.out, "Registration rejected: %v\n", err)
	default:
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
	}
}

// WhoAmI prints the current session state.
func (a *App) WhoAmI() {
	s := a.store.Current()
	if !s.IsAuthenticated {
		fmt.Fprintln(a.out, "Not logged in")
		return
	}
	fmt.Fprintf(a.out, "%s (%s), session valid until %s\n",
		s.User.Email, s.User.Role, s.TokenExpiresAt.Format("15:04:05"))
}

// RefreshNow forces an immediate credential renewal through the same
// single-flight coordinator the scheduler and interceptor use.
func (a *App) RefreshNow(ctx context.Context) {
	if err := a.transport.Refresh(ctx); err != nil {
		fmt.Fprintf(a.out, "Refresh failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Session refreshed, valid until %s\n",
		a.store.Current().TokenExpiresAt.Format("15:04:05"))
}

// Logout ends the session on this client.
func (a *App) Logout(ctx context.Context) {
	a.manager.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
}
