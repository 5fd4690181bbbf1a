// Package httpclient is the JSON-over-HTTP transport shared by the gateway clients.
package httpclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL         string
	httpClient      *http.Client
	headers         http.Header
	statusRetries   int
	statusBaseDelay time.Duration
}

type Option func(*Client)

// WithHeader sets a header on every request, e.g. credentials.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithBasicAuth sends client credentials as an HTTP Basic authorization header.
func WithBasicAuth(user, password string) Option {
	return WithHeader("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+password)))
}

// WithStatusRetry enables retries for read-only requests.
func WithStatusRetry(retries int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.statusRetries = retries
		c.statusBaseDelay = baseDelay
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		headers:       http.Header{},
		statusRetries: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.statusRetries < 1 {
		c.statusRetries = 1
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends a mutating request once. It is never retried.
func Post[Req any, Resp any](ctx context.Context, c *Client, path string, reqBody *Req, idempotencyKey string) (*Resp, error) {
	return sendRequest[Req, Resp](ctx, c, http.MethodPost, path, reqBody, idempotencyKey)
}

// Put sends a mutating request once. It is never retried.
func Put[Req any, Resp any](ctx context.Context, c *Client, path string, reqBody *Req) (*Resp, error) {
	return sendRequest[Req, Resp](ctx, c, http.MethodPut, path, reqBody, "")
}

// Get sends a read-only request, retrying transient failures when configured.
func Get[Resp any](ctx context.Context, c *Client, path string) (*Resp, error) {
	return retry(ctx, c.statusRetries, c.statusBaseDelay, func(ctx context.Context) (*Resp, error) {
		return sendRequest[any, Resp](ctx, c, http.MethodGet, path, nil, "")
	})
}

func sendRequest[Req any, Resp any](ctx context.Context, c *Client, method, path string, reqBody *Req, idempotencyKey string) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorBody
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, &GatewayError{
				Code:       http.StatusText(resp.StatusCode),
				Message:    strings.TrimSpace(string(body)),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, errResp.toGatewayError(resp.StatusCode)
	}

	var out Resp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Err: err}
	}

	return &out, nil
}
