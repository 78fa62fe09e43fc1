package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

const (
	testAccount  = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	testChecksum = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	twoEtherHex  = "0x1bc16d674ec80000"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) has(key string) bool {
	_, ok, _ := s.Get(context.Background(), key)
	return ok
}

type rpcHandler func(ctx context.Context, params []any) (json.RawMessage, error)

type subFunc func()

func (f subFunc) Unsubscribe() { f() }

// fakeProvider is an in-memory wallet with scriptable methods.
type fakeProvider struct {
	mu        sync.Mutex
	handlers  map[string]rpcHandler
	calls     map[string]int
	params    map[string][]any
	nextID    int
	listeners map[ports.EventKind]map[int]ports.Listener
}

func newFakeProvider(chainHex string, accounts ...string) *fakeProvider {
	p := &fakeProvider{
		handlers:  make(map[string]rpcHandler),
		calls:     make(map[string]int),
		params:    make(map[string][]any),
		listeners: make(map[ports.EventKind]map[int]ports.Listener),
	}
	if accounts == nil {
		accounts = []string{}
	}
	p.respond("eth_requestAccounts", accounts)
	p.respond("eth_accounts", accounts)
	p.respond("eth_getBalance", twoEtherHex)
	p.respond("eth_chainId", chainHex)
	p.respond("wallet_switchEthereumChain", nil)
	return p
}

func (p *fakeProvider) respond(method string, v any) {
	raw, _ := json.Marshal(v)
	p.handle(method, func(context.Context, []any) (json.RawMessage, error) { return raw, nil })
}

func (p *fakeProvider) handle(method string, h rpcHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[method] = h
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	p.mu.Lock()
	p.calls[method]++
	p.params[method] = params
	h := p.handlers[method]
	p.mu.Unlock()
	if h == nil {
		return nil, &domain.ProviderError{Code: domain.ProviderCodeUnsupportedMethod, Message: "method not supported"}
	}
	return h(ctx, params)
}

func (p *fakeProvider) On(kind ports.EventKind, l ports.Listener) ports.Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	if p.listeners[kind] == nil {
		p.listeners[kind] = make(map[int]ports.Listener)
	}
	p.listeners[kind][id] = l
	return subFunc(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners[kind], id)
	})
}

func (p *fakeProvider) emit(ev ports.ProviderEvent) {
	p.mu.Lock()
	ls := make([]ports.Listener, 0, len(p.listeners[ev.Kind]))
	for _, l := range p.listeners[ev.Kind] {
		ls = append(ls, l)
	}
	p.mu.Unlock()
	for _, l := range ls {
		l(ev)
	}
}

func (p *fakeProvider) callCount(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[method]
}

func (p *fakeProvider) lastParams(method string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params[method]
}

func (p *fakeProvider) listenerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ls := range p.listeners {
		n += len(ls)
	}
	return n
}

type stubLocator struct {
	provider ports.Provider
	err      error
}

func (l *stubLocator) Locate() (ports.Provider, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.provider, nil
}

type stubAudit struct {
	records chan domain.TransitionRecord
}

func (a *stubAudit) RecordTransition(_ context.Context, rec domain.TransitionRecord) error {
	a.records <- rec
	return nil
}
