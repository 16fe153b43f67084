package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduline/eduline-client/internal/client/models"
	"github.com/eduline/eduline-client/internal/common"
	"github.com/eduline/eduline-client/internal/logging"
)

// Client defines the auth endpoints of the EduLine backend consumed by the
// session coordinator.
//
// Contract:
//   - Me: return the current user, ErrUnauthorized when no valid session.
//   - Login/Signup: authenticate, returning the user and (optionally) a
//     bearer token; a success reply without a user is ErrMalformedResponse.
//   - Logout: best-effort server-side revocation.
//   - Refresh: exchange the ambient credential (cookie or bearer) for a
//     renewed one.
//
// All methods honor context cancellation and map transport failures to
// ErrUnavailable.
type Client interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Signup(ctx context.Context, profile SignupProfile) (*AuthResult, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*AuthResult, error)
}

// AuthResult is the outcome of a successful auth action. Token is empty
// when the backend relies purely on cookies.
type AuthResult struct {
	User  *models.User
	Token string
}

// SignupProfile is the registration payload. Field-level validation happens
// before the call reaches this client.
type SignupProfile struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// authResponse is the single documented reply schema for auth endpoints.
// The user object lives at exactly one place; anything else is a contract
// violation, not something to probe around.
type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client rooted at baseURL. Cookies are kept in an
// in-memory jar so cookie-based refresh credentials survive across calls
// within the process.
func NewHTTPClient(baseURL string, transport http.RoundTripper, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   timeout,
		},
		log: log.With("component", "api"),
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, requestID)

	c.log.Debug(ctx, "api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "api response", "path", path, "status", resp.StatusCode, "request_id", requestID)
	return resp.StatusCode, data, nil
}

func serverMessage(data []byte) string {
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil || er.Message == "" {
		return "request rejected"
	}
	return er.Message
}

func decodeAuthResponse(data []byte, requireUser bool) (*AuthResult, error) {
	var ar authResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if requireUser && ar.User == nil {
		return nil, fmt.Errorf("%w: missing user payload", ErrMalformedResponse)
	}
	return &AuthResult{User: ar.User, Token: ar.Token}, nil
}

// Me calls GET /api/auth/me.
func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrUnauthorized
	case status >= 400:
		return nil, fmt.Errorf("unexpected status %d: %s", status, serverMessage(data))
	}

	res, err := decodeAuthResponse(data, true)
	if err != nil {
		return nil, err
	}
	return res.User, nil
}

// Login calls POST /api/auth/login.
func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Identifier: identifier,
		Password:   password,
	})
	if err != nil {
		return nil, err
	}
	switch {
	case status >= 400 && status < 500:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, serverMessage(data))
	case status >= 500:
		return nil, fmt.Errorf("unexpected status %d: %s", status, serverMessage(data))
	}

	return decodeAuthResponse(data, true)
}

// Signup calls POST /api/auth/signup. Same response contract as Login.
func (c *HTTPClient) Signup(ctx context.Context, profile SignupProfile) (*AuthResult, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/api/auth/signup", profile)
	if err != nil {
		return nil, err
	}
	switch {
	case status >= 400 && status < 500:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, serverMessage(data))
	case status >= 500:
		return nil, fmt.Errorf("unexpected status %d: %s", status, serverMessage(data))
	}

	return decodeAuthResponse(data, true)
}

// Logout calls POST /api/auth/logout.
func (c *HTTPClient) Logout(ctx context.Context) error {
	status, data, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("logout rejected with status %d: %s", status, serverMessage(data))
	}
	return nil
}

// Refresh calls POST /api/auth/refresh. The reply may omit both user and
// token when the renewed credential travels back as a cookie.
func (c *HTTPClient) Refresh(ctx context.Context) (*AuthResult, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrUnauthorized
	case status >= 400:
		return nil, fmt.Errorf("unexpected status %d: %s", status, serverMessage(data))
	}

	return decodeAuthResponse(data, false)
}
