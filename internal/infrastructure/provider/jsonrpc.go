// Package provider binds wallet providers reachable over JSON-RPC 2.0 and
// resolves which binding a connect attempt should use.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

const (
	defaultPollInterval = 2 * time.Second
	maxResponseBytes    = 1 << 20
)

var defaultHTTPClient = &http.Client{
	Timeout: 90 * time.Second,
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string                `json:"jsonrpc"`
	ID      uint64                `json:"id"`
	Result  json.RawMessage       `json:"result"`
	Error   *domain.ProviderError `json:"error"`
}

// Option configures an HTTPProvider.
type Option func(*HTTPProvider)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPProvider) { p.client = c }
}

// WithPollInterval sets how often the event watcher polls the provider.
func WithPollInterval(d time.Duration) Option {
	return func(p *HTTPProvider) {
		if d > 0 {
			p.pollInterval = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *HTTPProvider) { p.log = log }
}

// HTTPProvider is a wallet provider reached through a JSON-RPC 2.0 HTTP endpoint,
// typically a wallet bridge running next to the user's signer.
type HTTPProvider struct {
	name         string
	endpoint     string
	client       *http.Client
	pollInterval time.Duration
	log          zerolog.Logger
	ids          atomic.Uint64
	watch        *watcher
}

func NewHTTPProvider(name, endpoint string, opts ...Option) *HTTPProvider {
	p := &HTTPProvider{
		name:         name,
		endpoint:     endpoint,
		client:       defaultHTTPClient,
		pollInterval: defaultPollInterval,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("binding", name).Logger()
	p.watch = newWatcher(p, p.pollInterval, p.log)
	return p
}

func (p *HTTPProvider) Name() string { return p.name }

// Endpoint returns the JSON-RPC URL of the binding.
func (p *HTTPProvider) Endpoint() string { return p.endpoint }

// Request performs a single JSON-RPC call. Provider error objects are
// returned as *domain.ProviderError.
func (p *HTTPProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      p.ids.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d: %s: %w", resp.StatusCode, bytes.TrimSpace(snippet), domain.ErrProviderFailure)
	}

	var out rpcResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	if len(out.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return out.Result, nil
}

// On registers a listener. Events are synthesised by polling while at least
// one listener is registered.
func (p *HTTPProvider) On(kind ports.EventKind, listener ports.Listener) ports.Subscription {
	return p.watch.add(kind, listener)
}

// Close stops the event watcher.
func (p *HTTPProvider) Close() {
	p.watch.stop()
}
