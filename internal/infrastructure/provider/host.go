package provider

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

// Binding names, in lookup order.
const (
	BindingAvalanche = "avalanche"
	BindingEthereum  = "ethereum"
)

// KnownBindings lists the slots a provider may be registered in.
var KnownBindings = []string{BindingAvalanche, BindingEthereum}

type closer interface {
	Close()
}

// Host holds the provider bindings. Bindings may appear or be replaced at runtime.
type Host struct {
	mu       sync.RWMutex
	bindings map[string]ports.Provider
	log      zerolog.Logger
	opts     []Option
}

// NewHost creates an empty Host. opts are applied to providers created by Bind.
func NewHost(log zerolog.Logger, opts ...Option) *Host {
	return &Host{
		bindings: make(map[string]ports.Provider),
		log:      log.With().Str("component", "provider_host").Logger(),
		opts:     opts,
	}
}

// Bind registers a JSON-RPC provider for endpoint under name.
func (h *Host) Bind(name, endpoint string) error {
	if !slices.Contains(KnownBindings, name) {
		return fmt.Errorf("bind %q: %w", name, domain.ErrBindingNotFound)
	}
	u, err := url.ParseRequestURI(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("bind %q: endpoint %q: %w", name, endpoint, domain.ErrValidation)
	}
	return h.Register(name, NewHTTPProvider(name, endpoint, h.opts...))
}

// Register installs p under name, closing any provider it replaces.
func (h *Host) Register(name string, p ports.Provider) error {
	if !slices.Contains(KnownBindings, name) {
		return fmt.Errorf("register %q: %w", name, domain.ErrBindingNotFound)
	}
	h.mu.Lock()
	old := h.bindings[name]
	h.bindings[name] = p
	h.mu.Unlock()

	if c, ok := old.(closer); ok && old != p {
		c.Close()
	}
	h.log.Info().Str("binding", name).Str("provider", p.Name()).Msg("provider registered")
	return nil
}

// Unregister removes the provider bound under name.
func (h *Host) Unregister(name string) {
	h.mu.Lock()
	old, ok := h.bindings[name]
	delete(h.bindings, name)
	h.mu.Unlock()

	if !ok {
		return
	}
	if c, isCloser := old.(closer); isCloser {
		c.Close()
	}
	h.log.Info().Str("binding", name).Msg("provider unregistered")
}

// Binding returns the provider under name.
func (h *Host) Binding(name string) (ports.Provider, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.bindings[name]
	return p, ok
}

// Names returns the registered binding names.
func (h *Host) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.bindings))
	for name := range h.bindings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close closes every registered provider.
func (h *Host) Close() {
	h.mu.Lock()
	bindings := h.bindings
	h.bindings = make(map[string]ports.Provider)
	h.mu.Unlock()

	for _, p := range bindings {
		if c, ok := p.(closer); ok {
			c.Close()
		}
	}
}

// Locator resolves the provider for a connect attempt. It never caches, so a
// binding registered after startup is found on the next attempt.
type Locator struct {
	host  *Host
	order []string
}

// NewLocator builds a locator over host. Without an explicit order the
// primary binding is tried before the secondary.
func NewLocator(host *Host, order ...string) *Locator {
	if len(order) == 0 {
		order = KnownBindings
	}
	return &Locator{host: host, order: order}
}

func (l *Locator) Locate() (ports.Provider, error) {
	for _, name := range l.order {
		if p, ok := l.host.Binding(name); ok {
			return p, nil
		}
	}
	return nil, domain.ErrNoProviderFound
}
