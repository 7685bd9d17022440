package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultHTTPTimeout = 10 * time.Second

// Client is a simple HTTP client for the input triage API.
type Client struct {
	baseURL   string
	http      *http.Client
	authToken string
}

// NewClient creates a new API client. A zero timeout uses DefaultHTTPTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent on every request.
func (c *Client) SetToken(token string) {
	c.authToken = strings.TrimSpace(token)
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Login exchanges credentials for a token using the OAuth2 password form.
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	var resp TokenResponse
	form := url.Values{"username": {email}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/login", strings.NewReader(form.Encode()))
	if err != nil {
		return resp, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	err = c.send(req, &resp)
	return resp, err
}

func (c *Client) Register(ctx context.Context, email, password string) (UserResponse, error) {
	var resp UserResponse
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/users/register", nil, body, &resp)
	return resp, err
}

func (c *Client) Me(ctx context.Context) (UserResponse, error) {
	var resp UserResponse
	err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &resp)
	return resp, err
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout", nil, nil, nil)
}

// ListInputs lists inputs in order; "" means dashboard.
func (c *Client) ListInputs(ctx context.Context, order string) ([]Input, error) {
	if order == "" {
		order = "dashboard"
	}
	var resp []Input
	err := c.do(ctx, http.MethodGet, "/inputs", url.Values{"order": {order}}, nil, &resp)
	return resp, err
}

func (c *Client) GetInput(ctx context.Context, id int64) (Input, error) {
	var resp Input
	err := c.do(ctx, http.MethodGet, inputPath(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) CreateInput(ctx context.Context, text string) (Input, error) {
	var resp Input
	err := c.do(ctx, http.MethodPost, "/inputs", nil, map[string]string{"text": text}, &resp)
	return resp, err
}

func (c *Client) UpdateInput(ctx context.Context, id int64, patch InputUpdate) (Input, error) {
	var resp Input
	err := c.do(ctx, http.MethodPatch, inputPath(id), nil, patch, &resp)
	return resp, err
}

func (c *Client) DeleteInput(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, inputPath(id), nil, nil, nil)
}

func inputPath(id int64) string {
	return "/inputs/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	c.setAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.authToken == "" || req == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
}
