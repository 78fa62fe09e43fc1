package provider

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

type requester interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

type registration struct {
	kind     ports.EventKind
	listener ports.Listener
}

// watcher polls eth_accounts and eth_chainId and raises accountsChanged and
// chainChanged when the answers change. It runs only while listeners exist.
type watcher struct {
	rpc      requester
	interval time.Duration
	log      zerolog.Logger

	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]registration
	cancel    context.CancelFunc
}

func newWatcher(rpc requester, interval time.Duration, log zerolog.Logger) *watcher {
	return &watcher{
		rpc:       rpc,
		interval:  interval,
		log:       log,
		listeners: make(map[uint64]registration),
	}
}

type subscription struct {
	w    *watcher
	id   uint64
	once sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.w.remove(s.id) })
}

func (w *watcher) add(kind ports.EventKind, l ports.Listener) ports.Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.listeners[id] = registration{kind: kind, listener: l}
	if w.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		w.cancel = cancel
		go w.run(ctx)
	}
	return &subscription{w: w, id: id}
}

func (w *watcher) remove(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.listeners, id)
	if len(w.listeners) == 0 && w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	clear(w.listeners)
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *watcher) listenerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}

type chainState struct {
	primed   bool
	accounts []string
	chainID  string
}

func (w *watcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var st chainState
	for {
		w.poll(ctx, &st)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *watcher) poll(ctx context.Context, st *chainState) {
	reqCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	var accounts []string
	raw, err := w.rpc.Request(reqCtx, "eth_accounts")
	if err == nil {
		err = json.Unmarshal(raw, &accounts)
	}
	if err != nil {
		if ctx.Err() == nil {
			w.log.Debug().Err(err).Msg("poll accounts")
		}
		return
	}
	var chainID string
	raw, err = w.rpc.Request(reqCtx, "eth_chainId")
	if err == nil {
		err = json.Unmarshal(raw, &chainID)
	}
	if err != nil {
		if ctx.Err() == nil {
			w.log.Debug().Err(err).Msg("poll chain id")
		}
		return
	}
	for i := range accounts {
		accounts[i] = strings.ToLower(accounts[i])
	}
	chainID = strings.ToLower(chainID)

	if !st.primed {
		st.primed, st.accounts, st.chainID = true, accounts, chainID
		return
	}
	if !slices.Equal(accounts, st.accounts) {
		st.accounts = accounts
		w.emit(ctx, ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: slices.Clone(accounts)})
	}
	if chainID != st.chainID {
		st.chainID = chainID
		id, err := domain.ParseChainID(chainID)
		if err != nil {
			w.log.Warn().Err(err).Msg("provider reported malformed chain id")
			return
		}
		w.emit(ctx, ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: id})
	}
}

// emit calls matching listeners without holding the lock so that listeners
// may unsubscribe from inside the callback.
func (w *watcher) emit(ctx context.Context, ev ports.ProviderEvent) {
	w.mu.Lock()
	var targets []ports.Listener
	for _, r := range w.listeners {
		if r.kind == ev.Kind {
			targets = append(targets, r.listener)
		}
	}
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	w.log.Debug().Str("event", string(ev.Kind)).Int("listeners", len(targets)).Msg("provider event")
	for _, l := range targets {
		l(ev)
	}
}
