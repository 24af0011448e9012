// Package client is a Go SDK for the resource board API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx answer from the board.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("board api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	session     *Session
	sessionPath string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSession hands the client an already loaded session. When path is set,
// Login and Logout persist the session there.
func WithSession(session *Session, path string) Option {
	return func(c *Client) {
		c.session = session
		c.sessionPath = path
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    &Session{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = &Session{}
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

type authPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Register creates an account. It does not sign in, like the board UI which
// sends new users to the login page.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var out authPayload
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, false, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, false, &out); err != nil {
		return nil, err
	}

	c.session.Token = out.Token
	c.session.User = out.User
	if c.sessionPath != "" {
		if err := c.session.Save(c.sessionPath); err != nil {
			return nil, err
		}
	}
	return out.User, nil
}

// Logout only forgets the token locally; the board keeps no token state.
func (c *Client) Logout() error {
	c.session.Token = ""
	c.session.User = nil
	if c.sessionPath != "" {
		return RemoveSession(c.sessionPath)
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, true, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

type resourcePayload struct {
	Resource *Resource `json:"resource"`
}

type resourceListPayload struct {
	Count     int        `json:"count"`
	Resources []Resource `json:"resources"`
}

func (c *Client) ListResources(ctx context.Context, opts ListOptions) ([]Resource, error) {
	q := url.Values{}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	path := "/api/resources"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out resourceListPayload
	if err := c.do(ctx, http.MethodGet, path, nil, false, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

func (c *Client) MyResources(ctx context.Context) ([]Resource, error) {
	var out resourceListPayload
	if err := c.do(ctx, http.MethodGet, "/api/resources/mine", nil, true, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

func (c *Client) GetResource(ctx context.Context, id string) (*Resource, error) {
	var out resourcePayload
	if err := c.do(ctx, http.MethodGet, "/api/resources/"+url.PathEscape(id), nil, false, &out); err != nil {
		return nil, err
	}
	return out.Resource, nil
}

func (c *Client) CreateResource(ctx context.Context, req ResourceRequest) (*Resource, error) {
	var out resourcePayload
	if err := c.do(ctx, http.MethodPost, "/api/resources", req, true, &out); err != nil {
		return nil, err
	}
	return out.Resource, nil
}

func (c *Client) UpdateResource(ctx context.Context, id string, patch ResourcePatch) (*Resource, error) {
	var out resourcePayload
	if err := c.do(ctx, http.MethodPut, "/api/resources/"+url.PathEscape(id), patch, true, &out); err != nil {
		return nil, err
	}
	return out.Resource, nil
}

func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/resources/"+url.PathEscape(id), nil, true, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, auth bool, out any) error {
	if auth && !c.session.Authenticated() {
		return ErrNotLoggedIn
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request failed: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}
