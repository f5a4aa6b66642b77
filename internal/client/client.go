// Package client provides an HTTP client for the visitor-pass JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evcraddock/visitor-pass/internal/auth"
	"github.com/evcraddock/visitor-pass/internal/request"
	"github.com/evcraddock/visitor-pass/internal/user"
)

// ErrUnauthorized is returned when the server rejects the session or credentials.
var ErrUnauthorized = errors.New("not logged in")

// Client is an HTTP client for the visitor-pass API. It carries the session
// cookie itself so the session can be persisted between CLI runs.
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
}

// New creates a new API client. session is a previously saved session cookie
// value, or empty.
func New(baseURL, session string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Session returns the current session cookie value.
func (c *Client) Session() string {
	return c.session
}

// SessionInfo identifies the logged-in user.
type SessionInfo struct {
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
}

// Login starts a session.
func (c *Client) Login(ctx context.Context, username, password string) (*SessionInfo, error) {
	body := map[string]string{"username": username, "password": password}
	var info SessionInfo
	if err := c.send(ctx, "POST", "/api/session", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Whoami returns the user the current session belongs to.
func (c *Client) Whoami(ctx context.Context) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.send(ctx, "GET", "/api/session", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Logout ends the session on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.send(ctx, "DELETE", "/api/session", nil, nil); err != nil {
		return err
	}
	c.session = ""
	return nil
}

// ListRequests returns all requests for admins, or the caller's own for requesters.
func (c *Client) ListRequests(ctx context.Context) ([]*request.VisitorRequest, error) {
	var reqs []*request.VisitorRequest
	if err := c.send(ctx, "GET", "/api/requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// GetRequest returns one request.
func (c *Client) GetRequest(ctx context.Context, id string) (*request.VisitorRequest, error) {
	var req request.VisitorRequest
	if err := c.send(ctx, "GET", "/api/requests/"+url.PathEscape(id), nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SubmitRequest submits a request as the logged-in user and returns its ID.
func (c *Client) SubmitRequest(ctx context.Context, d request.Draft) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.send(ctx, "POST", "/api/requests", d, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Resolve approves or rejects a pending request.
func (c *Client) Resolve(ctx context.Context, id string, a request.Action) (*request.VisitorRequest, error) {
	var req request.VisitorRequest
	path := fmt.Sprintf("/api/requests/%s/%s", url.PathEscape(id), a)
	if err := c.send(ctx, "POST", path, nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Pass downloads the PDF pass of an approved request, returning the
// document and the filename the server suggests.
func (c *Client) Pass(ctx context.Context, id string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, "GET", "/api/requests/"+url.PathEscape(id)+"/pass", nil)
	if err != nil {
		return nil, "", err
	}

	resp, body, err := c.do(req)
	if err != nil {
		return nil, "", err
	}

	filename := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return body, filename, nil
}

// send performs a request with an optional JSON body and decodes a JSON response.
func (c *Client) send(ctx context.Context, method, path string, body, result interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	_, respBody, err := c.do(req)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: c.session})
	}
	return req, nil
}

// do executes an HTTP request, tracks the session cookie, and maps error responses.
func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	for _, ck := range resp.Cookies() {
		if ck.Name != auth.CookieName {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			c.session = ""
		} else {
			c.session = ck.Value
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return nil, nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}

	return resp, respBody, nil
}
