// Package gateway is the REST client for the hosted CMS API. Routes are
// resolved from an embedded OpenAPI document rather than hard-coded strings,
// so the one description of the remote contract drives every call.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Option customises the client.
type Option func(*Client)

// WithBaseURL sets the API root, including any mount prefix (".../api").
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithSpec overrides the embedded OpenAPI document, mainly for tests that
// point operations at a stub server with different routes.
func WithSpec(raw []byte) Option {
	return func(c *Client) {
		c.spec = raw
	}
}

// Client talks to the remote CMS API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	spec       []byte
	ops        map[string]operation
}

// New constructs a Client, parsing the route table from the OpenAPI document.
func New(options ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		spec:       embeddedSpec,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.baseURL == "" {
		return nil, errors.New("gateway: base URL is required")
	}

	ops, err := loadOperations(context.Background(), c.spec)
	if err != nil {
		return nil, err
	}
	c.ops = ops
	return c, nil
}

// do resolves the named operation, performs the request, and decodes the JSON
// response into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, opID string, params map[string]string, payload, out any) error {
	if ctx == nil {
		return errors.New("gateway: context is required")
	}
	op, ok := c.ops[opID]
	if !ok {
		return fmt.Errorf("gateway: unknown operation %q", opID)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("gateway: %s: encode payload: %w", opID, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, c.baseURL+op.endpoint(params), body)
	if err != nil {
		return fmt.Errorf("gateway: %s: build request: %w", opID, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s: %w", opID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Op: opID, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: %s: decode response: %w", opID, err)
	}
	return nil
}

// readErrorMessage pulls the server's message field out of an error body when
// it has one.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return strings.TrimSpace(string(data))
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}
