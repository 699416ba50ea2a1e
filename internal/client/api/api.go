// Package api implements the HTTP client for the auth collaborator. It is
// the only piece of the client that talks to a backend; the core state
// machines consume it through narrow interfaces and run against an
// in-memory stub in tests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/evanli/vaultkeep/internal/flow"
	"github.com/evanli/vaultkeep/internal/models"
)

const (
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
	logoutPath   = "/api/auth/logout"
	checkPath    = "/api/auth/check"
)

// Client talks to the vault auth server. The session cookie issued at
// login is held in the client's jar, so subsequent calls are
// authenticated.
type Client struct {
	http    *http.Client
	baseURL string
}

// New constructs a Client for the server at baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
		baseURL: baseURL,
	}, nil
}

// CreateAccount registers a new vault account. A rejection (taken
// username, criteria failure) is returned as an error carrying the
// server's message, suitable for surfacing in the form.
func (c *Client) CreateAccount(ctx context.Context, username, masterPassword string) error {
	resp, err := c.postJSON(ctx, registerPath, models.VaultAccount{
		Username:       username,
		MasterPassword: masterPassword,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(decodeMessage(resp, "registration failed"))
	}
	return nil
}

// Authenticate verifies the credentials against the server. A 401 answer
// is not an error: it reports authenticated=false, matching the login
// machine's two-argument resolution.
func (c *Client) Authenticate(ctx context.Context, username, masterPassword string) (bool, error) {
	resp, err := c.postJSON(ctx, loginPath, models.VaultAccount{
		Username:       username,
		MasterPassword: masterPassword,
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized:
		return false, nil
	default:
		return false, fmt.Errorf("login: %s", decodeMessage(resp, resp.Status))
	}
}

// Logout invalidates the current session on the server.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.postJSON(ctx, logoutPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout: %s", resp.Status)
	}
	return nil
}

// Check reports whether the client currently holds a valid session, and
// for whom.
func (c *Client) Check(ctx context.Context) (bool, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+checkPath, nil)
	if err != nil {
		return false, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("check session: %w: %v", flow.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	var body models.CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, "", fmt.Errorf("decode check response: %w", err)
	}
	if !body.Authenticated || body.User == nil {
		return false, "", nil
	}
	return true, body.User.Username, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	// Transport failures are tagged so the forms can show the generic
	// unreachable message instead of a dial error.
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w: %v", path, flow.ErrUnreachable, err)
	}
	return resp, nil
}

// decodeMessage pulls the server's message out of an error response,
// falling back when the body is not the expected shape.
func decodeMessage(resp *http.Response, fallback string) string {
	var body models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		return fallback
	}
	return body.Message
}
