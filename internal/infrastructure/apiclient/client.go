// Package apiclient talks to the creator dashboard REST backend.
//
// Every response is wrapped in an envelope {success, data, message}. The
// stored bearer token is attached to each request, and a 401 for an
// authenticated request triggers the registered unauthorized hook.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
	"github.com/c2developers/creatorhub/internal/pkg/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20
)

// APIError is a non-success answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return domain.ErrAPIFailure }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Client implements ports.AuthAPI and ports.PaymentAPI.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.SessionStore
	log     zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

func New(baseURL string, tokens ports.SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "apiclient").Logger()
	return c
}

// OnUnauthorized registers the hook invoked when the backend rejects the stored token.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// do sends a request and decodes the envelope's data into out. endpoint is
// the route template used as metric label.
func (c *Client) do(ctx context.Context, method, path, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	authenticated := false
	token, ok, err := c.tokens.Get(ctx, ports.KeyAuthToken)
	if err != nil {
		c.log.Warn().Err(err).Msg("read auth token")
	} else if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		authenticated = true
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s %s: %w: %v", method, endpoint, domain.ErrAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "unauthorized").Inc()
		if authenticated {
			c.notifyUnauthorized(ctx)
		}
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrAPIUnauthorized)
	}

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env)
	if resp.StatusCode >= http.StatusBadRequest || decodeErr != nil || !env.Success {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		msg := env.Message
		if msg == "" && decodeErr != nil && resp.StatusCode < http.StatusBadRequest {
			msg = "malformed response: " + decodeErr.Error()
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %w", method, endpoint, &APIError{Status: resp.StatusCode, Message: msg})
	}
	metrics.APIRequestsTotal.WithLabelValues(endpoint, "ok").Inc()

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, endpoint, errors.Join(domain.ErrAPIFailure, err))
	}
	return nil
}

func (c *Client) notifyUnauthorized(ctx context.Context) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}
