// Package backendclient provides a typed HTTP client for the external
// backend REST service (entity CRUD and test-scenario endpoints). The
// gateway's /api routes delegate to it.
package backendclient

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

// scenarioGrace is added on top of a scenario's requested duration so the
// HTTP request outlasts the scenario it triggers.
const scenarioGrace = 5 * time.Second

// Client is an HTTP client for the backend service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout for entity and status calls.
// Test-scenario triggers derive their own deadline from the requested
// scenario duration instead.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the backend service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks the backend's test-scenario health endpoint.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out map[string]any
	if err := c.get(ctx, "/api/test/health", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEntities returns all entities stored on the backend.
func (c *Client) ListEntities(ctx context.Context) ([]Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out []Entity
	if err := c.get(ctx, "/api/entities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEntity fetches a single entity by id.
func (c *Client) GetEntity(ctx context.Context, id int64) (*Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out Entity
	if err := c.get(ctx, fmt.Sprintf("/api/entities/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEntity creates an entity on the backend.
func (c *Client) CreateEntity(ctx context.Context, create *EntityCreate) (*Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out Entity
	if err := c.post(ctx, "/api/entities", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEntity applies a partial update to an entity.
func (c *Client) UpdateEntity(ctx context.Context, id int64, update *EntityUpdate) (*Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out Entity
	if err := c.put(ctx, fmt.Sprintf("/api/entities/%d", id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEntity removes an entity from the backend.
func (c *Client) DeleteEntity(ctx context.Context, id int64) (*DeleteEntityResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out DeleteEntityResponse
	if err := c.delete(ctx, fmt.Sprintf("/api/entities/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchEntities returns entities whose name contains the given text.
func (c *Client) SearchEntities(ctx context.Context, name string) ([]Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out []Entity
	path := "/api/entities/search?name=" + url.QueryEscape(name)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BlockThread asks the backend to block one of its worker threads for the
// given number of seconds. The response is relayed as-is.
func (c *Client) BlockThread(ctx context.Context, seconds int) (map[string]any, error) {
	return c.scenario(ctx, "/api/test/block-thread", seconds)
}

// Hang asks the backend to hang a request handler for the given number of
// seconds.
func (c *Client) Hang(ctx context.Context, seconds int) (map[string]any, error) {
	return c.scenario(ctx, "/api/test/hang", seconds)
}

// CPUIntensive asks the backend to run a CPU-bound loop for the given
// number of seconds.
func (c *Client) CPUIntensive(ctx context.Context, seconds int) (map[string]any, error) {
	return c.scenario(ctx, "/api/test/cpu-intensive", seconds)
}

// ThreadStatus reports the backend's worker-thread state.
func (c *Client) ThreadStatus(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out map[string]any
	if err := c.get(ctx, "/api/test/thread-status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// scenario triggers a test scenario. The request deadline is the scenario
// duration plus a grace period, so a scenario that runs to completion is
// never cut off by the client's own timeout.
func (c *Client) scenario(ctx context.Context, path string, seconds int) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(seconds)*time.Second+scenarioGrace)
	defer cancel()

	var out map[string]any
	if err := c.post(ctx, fmt.Sprintf("%s?seconds=%d", path, seconds), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := encodeBody(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	body, err := encodeBody(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do executes the request, classifies transport failures, maps error
// statuses, and decodes a success body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func encodeBody(in any) (io.Reader, error) {
	if in == nil {
		return nil, nil
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return buf, nil
}

// classifyTransportError maps request failures onto the client's sentinel
// errors: deadline overruns become ErrTimeout, everything else (connection
// refused, DNS failure) becomes ErrUnavailable.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// statusError converts a non-404 error response into a StatusError,
// preserving the upstream body so callers can relay it. A structured
// backend error envelope is reduced to its message.
func statusError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	body := strings.TrimSpace(string(data))
	var errResp errorResponse
	if json.Unmarshal(data, &errResp) == nil {
		switch {
		case errResp.Message != "":
			body = errResp.Message
		case errResp.Detail != "":
			body = errResp.Detail
		case errResp.Error != "":
			body = errResp.Error
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Body: body}
}
