package apiclient

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

	"resume-chatbot/internal/domain"
)

const DefaultBaseURL = "http://localhost:8000"

// HTTPStatusError captures non-2xx API responses.
type HTTPStatusError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPStatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("apiclient: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("apiclient: HTTP %d: %s", e.StatusCode, e.Detail)
}

// Client calls the chatbot API routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base url %q", baseURL)
	}
	// The server waits up to a minute on the webhook.
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("apiclient: marshal request: %w", err)
	}
	var out domain.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", body, &out); err != nil {
		return domain.ChatResponse{}, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) (domain.HealthResponse, error) {
	var out domain.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return domain.HealthResponse{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("apiclient: read response body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var e domain.ErrorResponse
		_ = json.Unmarshal(raw, &e)
		return &HTTPStatusError{StatusCode: res.StatusCode, Detail: e.Detail}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

// IsStatus reports whether err is an API response with the given status.
func IsStatus(err error, status int) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == status
}
