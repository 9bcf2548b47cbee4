package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// Client talks to a GoTrue-compatible hosted auth service over HTTP.
// Every request carries the project's public API key; authenticated
// requests additionally carry the user's access token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a provider client for the given service URL and
// public API key.
func NewClient(serviceURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(serviceURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Provider = (*Client)(nil)

// providerUser is the user object embedded in provider responses
type providerUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

// tokenResponse is the provider's token grant response
type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	RefreshToken string        `json:"refresh_token"`
	User         *providerUser `json:"user"`
}

// providerError is the provider's error envelope. Different endpoints use
// different field names; Message collapses them.
type providerError struct {
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func (e *providerError) message() string {
	for _, m := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}

// SignUp creates a new identity and returns its initial session
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}

	var resp tokenResponse
	if err := c.post(ctx, "/auth/v1/signup", "", body, &resp); err != nil {
		return nil, err
	}

	return c.sessionFromTokenResponse(&resp)
}

// SignInWithPassword exchanges credentials for a session
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}

	var resp tokenResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}

	return c.sessionFromTokenResponse(&resp)
}

// SignOut invalidates the session behind the given access token
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/auth/v1/logout", accessToken, nil, nil)
}

// GetUser fetches the identity behind an access token
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, accessToken)

	var user providerUser
	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	return identityFromUser(&user)
}

func (c *Client) sessionFromTokenResponse(resp *tokenResponse) (*Session, error) {
	if resp.User == nil {
		return nil, fmt.Errorf("provider response missing user")
	}

	ident, err := identityFromUser(resp.User)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:    tokenFromResponse(resp.AccessToken, resp.RefreshToken, resp.TokenType, resp.ExpiresIn),
		Identity: *ident,
	}, nil
}

func identityFromUser(user *providerUser) (*models.Identity, error) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("provider returned invalid subject id %q: %w", user.ID, err)
	}

	return &models.Identity{
		ID:    id,
		Email: user.Email,
		Name:  user.UserMetadata.Name,
	}, nil
}

func (c *Client) post(ctx context.Context, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, accessToken)

	return c.do(req, out)
}

func (c *Client) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var perr providerError
		_ = json.Unmarshal(raw, &perr)
		// 4xx carries a user-facing rejection; 5xx is a provider fault
		if resp.StatusCode < 500 {
			return models.NewAuthFailure(perr.message())
		}
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}

	return nil
}
