// Package client talks to the judge HTTP API.
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

	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/subm"
)

// APIError is an error envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient replaces the underlying client, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response (http %d): %w", resp.StatusCode, err)
	}
	if env.Status != "success" {
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Login authenticates and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var res struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res.User, nil
}

type ContestsByStatus struct {
	Active   []contest.Contest `json:"active"`
	Upcoming []contest.Contest `json:"upcoming"`
	Past     []contest.Contest `json:"past"`
}

func (c *Client) ListContests(ctx context.Context) (*ContestsByStatus, error) {
	var res ContestsByStatus
	if err := c.do(ctx, http.MethodGet, "/contests", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetContest returns nil, nil for an unknown contest.
func (c *Client) GetContest(ctx context.Context, id string) (*contest.Contest, error) {
	var res contest.Contest
	err := c.do(ctx, http.MethodGet, "/contests/"+url.PathEscape(id), nil, &res)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetRanking(ctx context.Context, contestID string) ([]contest.Row, error) {
	var rows []contest.Row
	if err := c.do(ctx, http.MethodGet, "/contests/"+url.PathEscape(contestID)+"/ranking", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Submit(ctx context.Context, problemID, language, code string) (*subm.Subm, error) {
	var res subm.Subm
	err := c.do(ctx, http.MethodPost, "/submissions", map[string]string{
		"problemId": problemID, "language": language, "code": code,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetSubmission returns nil, nil for an unknown submission.
func (c *Client) GetSubmission(ctx context.Context, id string) (*subm.Subm, error) {
	var res subm.Subm
	err := c.do(ctx, http.MethodGet, "/submissions/"+url.PathEscape(id), nil, &res)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListUserSubmissions(ctx context.Context, userID string) ([]subm.Subm, error) {
	var res []subm.Subm
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/submissions", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}
