package memberapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the membership service. Unauthenticated operations hang
// off the Client directly; Login and Register return a Session for the
// authenticated ones.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session is a Client bound to a bearer token.
type Session struct {
	client *Client
	token  string
	user   *UserView
}

// Token returns the session JWT.
func (s *Session) Token() string { return s.token }

// User returns the user snapshot from login or register time.
func (s *Session) User() *UserView { return s.user }

// Register creates an account and returns the authenticated session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.Token, user: out.User}, nil
}

// Login authenticates and returns a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out AuthResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.Token, user: out.User}, nil
}

// NewSessionFromToken wraps an existing session token.
func (c *Client) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// VerifyEmail redeems an email verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*UserView, error) {
	var out UserResponse
	path := "/auth/verify-email/" + url.PathEscape(token)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	req := ForgotPasswordRequest{Email: email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword redeems a reset token with a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	path := "/auth/reset-password/" + url.PathEscape(token)
	req := ResetPasswordRequest{Password: newPassword}
	return c.do(ctx, http.MethodPut, path, "", req, nil)
}

// ResendVerification requests a fresh verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	req := ResendVerificationRequest{Email: email}
	return c.do(ctx, http.MethodPost, "/auth/resend-verification", "", req, nil)
}

// GetEvent fetches a single event.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*EventView, error) {
	var out EventResponse
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID), "", nil, &out); err != nil {
		return nil, err
	}
	return out.Event, nil
}

// Livez hits the liveness probe.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz hits the readiness probe.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authenticated user's record.
func (s *Session) Me(ctx context.Context) (*UserView, error) {
	var out UserResponse
	if err := s.client.do(ctx, http.MethodGet, "/auth/me", s.token, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateProfile updates the authenticated user's mutable fields.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserView, error) {
	var out UserResponse
	if err := s.client.do(ctx, http.MethodPut, "/auth/update-profile", s.token, req, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// CreateEvent records a new community event.
func (s *Session) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventView, error) {
	var out EventResponse
	if err := s.client.do(ctx, http.MethodPost, "/events", s.token, req, &out); err != nil {
		return nil, err
	}
	return out.Event, nil
}

// Attend joins the authenticated user to an event.
func (s *Session) Attend(ctx context.Context, eventID string) (*EventView, error) {
	var out EventResponse
	path := "/events/" + url.PathEscape(eventID) + "/attend"
	if err := s.client.do(ctx, http.MethodPost, path, s.token, nil, &out); err != nil {
		return nil, err
	}
	return out.Event, nil
}

// Leave removes the authenticated user from an event.
func (s *Session) Leave(ctx context.Context, eventID string) (*EventView, error) {
	var out EventResponse
	path := "/events/" + url.PathEscape(eventID) + "/attend"
	if err := s.client.do(ctx, http.MethodDelete, path, s.token, nil, &out); err != nil {
		return nil, err
	}
	return out.Event, nil
}

// do sends one JSON request and decodes the JSON response. Non-2xx
// statuses become *APIError.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope ErrorResponse
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Errors = envelope.Errors
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
