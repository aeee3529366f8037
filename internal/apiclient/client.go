// Package apiclient talks to the alerts backend: listing alerts for a
// manager and dismissing a single alert.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nixlim/alert-top/internal/alerts"
	"github.com/nixlim/alert-top/internal/filters"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://127.0.0.1:8000/api"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is the alerts backend client. Each call performs exactly one
// HTTP round trip; there are no retries and no caching.
type Client struct {
	http    *http.Client
	baseURL string
	codec   filters.Codec
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. The installed http.Client is
// copied first, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithCodec sets the codec used to serialise filters.
func WithCodec(codec filters.Codec) Option {
	return func(c *Client) { c.codec = codec }
}

// New creates a Client for baseURL. An empty baseURL selects
// DefaultBaseURL. A trailing slash is ignored.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		codec:   filters.NewCodec(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAlerts returns the alerts matching f, in the backend's order.
func (c *Client) ListAlerts(ctx context.Context, f filters.Filters) ([]alerts.Alert, error) {
	const op = "list alerts"
	endpoint := c.baseURL + "/alerts?" + c.codec.Encode(f)

	var out []alerts.Alert
	if err := c.do(ctx, op, http.MethodGet, endpoint, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []alerts.Alert{}
	}

	slog.Debug("alerts listed", "manager_id", f.ManagerID, "scope", f.Scope, "count", len(out))
	return out, nil
}

// DismissAlert marks the alert as dismissed and returns the updated alert.
// The backend treats repeated dismissals as success.
func (c *Client) DismissAlert(ctx context.Context, alertID string) (alerts.Alert, error) {
	const op = "dismiss alert"
	endpoint := c.baseURL + "/alerts/" + url.PathEscape(alertID) + "/dismiss"

	var out alerts.Alert
	if err := c.do(ctx, op, http.MethodPost, endpoint, &out); err != nil {
		return alerts.Alert{}, err
	}

	slog.Info("alert dismissed", "alert_id", alertID, "status", out.Status)
	return out, nil
}

// Health is the backend health report.
type Health struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Employees int    `json:"employees"`
	Alerts    int    `json:"alerts"`
	Error     string `json:"error,omitempty"`
}

// Healthy reports whether the backend described itself as healthy.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}

// Health queries the backend health endpoint. An unhealthy backend
// answers 503 with an "error" field, which is surfaced as the message.
func (c *Client) Health(ctx context.Context) (Health, error) {
	const op = "health check"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, &RequestFailedError{Op: op, Message: fmt.Sprintf("building request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, transportError(op, err)
	}
	defer resp.Body.Close()

	var h Health
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&h)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := h.Error
		if decodeErr != nil || msg == "" {
			msg = fallbackMessage(resp)
		}
		return h, &RequestFailedError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return Health{}, &RequestFailedError{Op: op, StatusCode: resp.StatusCode, Message: "invalid health response", Err: decodeErr}
	}
	return h, nil
}

// do performs one request and decodes a 2xx JSON body into out. Non-2xx
// responses are converted to RequestFailedError using the {detail} body.
func (c *Client) do(ctx context.Context, op, method, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return &RequestFailedError{Op: op, Message: fmt.Sprintf("building request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("api request failed", "op", op, "error", err)
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rf := errorFromResponse(op, resp)
		slog.Warn("api request rejected", "op", op, "status", resp.StatusCode, "detail", rf.Message)
		return rf
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestFailedError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response from server: %v", err),
			Err:        err,
		}
	}
	return nil
}

func errorFromResponse(op string, resp *http.Response) *RequestFailedError {
	rf := &RequestFailedError{Op: op, StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		rf.Message = fallbackMessage(resp)
		rf.Err = err
		return rf
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Detail == "" {
		rf.Message = fallbackMessage(resp)
		return rf
	}
	rf.Message = eb.Detail
	return rf
}

func fallbackMessage(resp *http.Response) string {
	return fmt.Sprintf("request failed: %s", resp.Status)
}
