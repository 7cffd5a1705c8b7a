package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/kanban/internal/domain/entities"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

// Request describes one JSON call against the API
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Token  string
}

// Client issues JSON requests to the configured base URL. It performs exactly
// one request per call: no retries and no timeout other than the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    *Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for per-request debug lines
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.logger = l.WithComponent("api_client")
	}
}

// WithMetrics records request counts and latencies
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for baseURL. A trailing slash is stripped.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs the request and decodes a successful JSON body into out (which may be nil).
// A success status with an empty or unparsable body yields a zero result, not an error.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observe(method, "error", time.Since(start))
		c.logger.WithRequestID(requestID).Debugw("HTTP request failed", "method", method, "path", req.Path, "error", err)
		return &entities.TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	elapsed := time.Since(start)

	c.metrics.observe(method, strconv.Itoa(resp.StatusCode), elapsed)
	c.logger.LogHTTPRequest(method, req.Path, requestID, resp.StatusCode, float64(elapsed.Microseconds())/1000)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if readErr != nil || out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.WithRequestID(requestID).Debugw("Ignoring unparsable success body", "path", req.Path, "error", err)
		resetValue(out)
	}
	return nil
}

// resetValue zeroes whatever a failed decode may have partially written
func resetValue(out interface{}) {
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}

// decodeError builds an APIError from a failure body, preferring "error" over "message"
func decodeError(status int, raw []byte) error {
	apiErr := &entities.APIError{StatusCode: status, Message: fmt.Sprintf("HTTP %d", status)}

	var body ports.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Message != "":
			apiErr.Message = body.Message
		}
	}
	return apiErr
}
