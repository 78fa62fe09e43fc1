package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

func newWallet(prov ports.Provider, store ports.SessionStore) *WalletSessionController {
	return NewWalletSessionController(&stubLocator{provider: prov}, store, NewNetworkRegistry(), nil, zerolog.Nop(), WalletOptions{
		ProviderTimeout:     time.Second,
		ReceiptPollInterval: 5 * time.Millisecond,
	})
}

func connected(t *testing.T, prov *fakeProvider, store *memStore) *WalletSessionController {
	t.Helper()
	w := newWallet(prov, store)
	if _, err := w.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return w
}

func TestWalletSession_Connect_Success(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	store := newMemStore()
	w := newWallet(prov, store)

	s, err := w.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	if s.Phase != domain.PhaseConnected {
		t.Fatalf("expected connected, got %s", s.Phase)
	}
	if s.Address != testChecksum {
		t.Fatalf("expected checksummed address, got %s", s.Address)
	}
	if s.BalanceDisplay != "2" {
		t.Fatalf("expected balance 2, got %s", s.BalanceDisplay)
	}
	if s.Network == nil || s.Network.ChainID != 43114 || !s.Network.Supported || s.Network.Name != "Avalanche C-Chain" {
		t.Fatalf("unexpected network: %+v", s.Network)
	}

	if v, _, _ := store.Get(context.Background(), ports.KeyWalletConnected); v != "true" {
		t.Fatalf("expected connected flag persisted, got %q", v)
	}
	if v, _, _ := store.Get(context.Background(), ports.KeyWalletAddress); v != testChecksum {
		t.Fatalf("expected address persisted, got %q", v)
	}
	raw, _, _ := store.Get(context.Background(), ports.KeyWalletNetwork)
	var net domain.Network
	if err := json.Unmarshal([]byte(raw), &net); err != nil || net.ChainID != 43114 {
		t.Fatalf("expected network persisted, got %q (%v)", raw, err)
	}

	if params := prov.lastParams("eth_getBalance"); len(params) != 2 || params[0] != testChecksum || params[1] != "latest" {
		t.Fatalf("unexpected eth_getBalance params: %v", params)
	}
	if prov.listenerCount() != 2 {
		t.Fatalf("expected 2 provider listeners, got %d", prov.listenerCount())
	}
}

func TestWalletSession_Connect_ConcurrentCallsPromptOnce(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	prov.handle("eth_requestAccounts", func(context.Context, []any) (json.RawMessage, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return json.RawMessage(`["` + testAccount + `"]`), nil
	})
	w := newWallet(prov, newMemStore())

	errs := make([]error, 4)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = w.Connect(context.Background())
	}()
	<-entered
	if w.Snapshot().Phase != domain.PhaseConnecting {
		t.Fatalf("expected connecting, got %s", w.Snapshot().Phase)
	}

	for i := 1; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.Connect(context.Background())
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := prov.callCount("eth_requestAccounts"); n != 1 {
		t.Fatalf("expected exactly one account prompt, got %d", n)
	}
	if errs[0] != nil {
		t.Fatalf("first connect failed: %v", errs[0])
	}
	for i, err := range errs[1:] {
		if err != nil && !errors.Is(err, domain.ErrInvalidPhase) {
			t.Fatalf("connect %d: unexpected error %v", i+1, err)
		}
	}
	if w.Snapshot().Phase != domain.PhaseConnected {
		t.Fatalf("expected connected, got %s", w.Snapshot().Phase)
	}
}

func TestWalletSession_Connect_NoAccounts(t *testing.T) {
	prov := newFakeProvider("0xa86a")
	store := newMemStore()
	w := newWallet(prov, store)

	s, err := w.Connect(context.Background())
	if !errors.Is(err, domain.ErrNoAccounts) {
		t.Fatalf("expected ErrNoAccounts, got %v", err)
	}
	if s.Phase != domain.PhaseFailed || s.Reason != domain.ReasonNoAccounts {
		t.Fatalf("expected failed/no_accounts, got %s/%s", s.Phase, s.Reason)
	}
	if s.Address != "" {
		t.Fatalf("expected no address, got %s", s.Address)
	}
	if store.has(ports.KeyWalletConnected) {
		t.Fatalf("nothing should be persisted on failure")
	}
}

func TestWalletSession_Connect_NoProvider(t *testing.T) {
	w := NewWalletSessionController(&stubLocator{err: domain.ErrNoProviderFound}, newMemStore(), NewNetworkRegistry(), nil, zerolog.Nop(), WalletOptions{})

	s, err := w.Connect(context.Background())
	if !errors.Is(err, domain.ErrNoProviderFound) {
		t.Fatalf("expected ErrNoProviderFound, got %v", err)
	}
	if s.Phase != domain.PhaseFailed || s.Reason != domain.ReasonNoProviderFound {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestWalletSession_Connect_UserRejected(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	prov.handle("eth_requestAccounts", func(context.Context, []any) (json.RawMessage, error) {
		return nil, &domain.ProviderError{Code: domain.ProviderCodeUserRejected, Message: "User rejected the request."}
	})
	w := newWallet(prov, newMemStore())

	s, err := w.Connect(context.Background())
	if !errors.Is(err, domain.ErrUserRejected) {
		t.Fatalf("expected ErrUserRejected, got %v", err)
	}
	if s.Reason != domain.ReasonUserRejected {
		t.Fatalf("expected user_rejected reason, got %s", s.Reason)
	}

	// A failed session accepts a new attempt.
	prov.respond("eth_requestAccounts", []string{testAccount})
	if _, err := w.Connect(context.Background()); err != nil {
		t.Fatalf("retry after rejection failed: %v", err)
	}
}

func TestWalletSession_Connect_Timeout(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	prov.handle("eth_requestAccounts", func(ctx context.Context, _ []any) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	w := NewWalletSessionController(&stubLocator{provider: prov}, newMemStore(), NewNetworkRegistry(), nil, zerolog.Nop(), WalletOptions{
		ProviderTimeout: 20 * time.Millisecond,
	})

	s, err := w.Connect(context.Background())
	if !errors.Is(err, domain.ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}
	if s.Phase != domain.PhaseFailed || s.Reason != domain.ReasonProviderTimeout {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestWalletSession_Connect_WhileConnectedRejected(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := connected(t, prov, newMemStore())

	if _, err := w.Connect(context.Background()); !errors.Is(err, domain.ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
	if n := prov.callCount("eth_requestAccounts"); n != 1 {
		t.Fatalf("expected no second prompt, got %d", n)
	}
}

func TestWalletSession_Disconnect_FromAnyPhase(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		prov := newFakeProvider("0xa86a", testAccount)
		store := newMemStore()
		w := connected(t, prov, store)

		s := w.Disconnect(context.Background())
		if s.Phase != domain.PhaseIdle || s.Address != "" || s.Network != nil {
			t.Fatalf("expected clean idle session, got %+v", s)
		}
		if store.has(ports.KeyWalletConnected) || store.has(ports.KeyWalletAddress) || store.has(ports.KeyWalletNetwork) {
			t.Fatalf("expected persisted wallet keys cleared")
		}
		if prov.listenerCount() != 0 {
			t.Fatalf("expected listeners released, got %d", prov.listenerCount())
		}
	})

	t.Run("failed", func(t *testing.T) {
		w := newWallet(newFakeProvider("0xa86a"), newMemStore())
		_, _ = w.Connect(context.Background())
		if s := w.Disconnect(context.Background()); s.Phase != domain.PhaseIdle || s.Reason != domain.ReasonNone {
			t.Fatalf("expected idle, got %+v", s)
		}
	})

	t.Run("idle twice", func(t *testing.T) {
		w := newWallet(newFakeProvider("0xa86a", testAccount), newMemStore())
		w.Disconnect(context.Background())
		if s := w.Disconnect(context.Background()); s.Phase != domain.PhaseIdle || s.Address != "" {
			t.Fatalf("expected idle, got %+v", s)
		}
	})

	t.Run("connecting", func(t *testing.T) {
		prov := newFakeProvider("0xa86a", testAccount)
		entered := make(chan struct{})
		release := make(chan struct{})
		prov.handle("eth_requestAccounts", func(context.Context, []any) (json.RawMessage, error) {
			close(entered)
			<-release
			return json.RawMessage(`["` + testAccount + `"]`), nil
		})
		store := newMemStore()
		w := newWallet(prov, store)

		done := make(chan error, 1)
		go func() {
			_, err := w.Connect(context.Background())
			done <- err
		}()
		<-entered
		if s := w.Disconnect(context.Background()); s.Phase != domain.PhaseIdle {
			t.Fatalf("expected idle after disconnect, got %s", s.Phase)
		}
		close(release)

		if err := <-done; !errors.Is(err, domain.ErrSessionReset) {
			t.Fatalf("expected ErrSessionReset, got %v", err)
		}
		if s := w.Snapshot(); s.Phase != domain.PhaseIdle || s.Address != "" {
			t.Fatalf("late connect result must be discarded, got %+v", s)
		}
		if store.has(ports.KeyWalletConnected) {
			t.Fatalf("late connect result must not be persisted")
		}
	})
}

func TestWalletSession_ConnectAfterDisconnectPromptsAgain(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	prov.handle("eth_requestAccounts", func(context.Context, []any) (json.RawMessage, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
		return json.RawMessage(`["` + testAccount + `"]`), nil
	})
	w := newWallet(prov, newMemStore())

	done := make(chan error, 1)
	go func() {
		_, err := w.Connect(context.Background())
		done <- err
	}()
	<-entered
	w.Disconnect(context.Background())

	s, err := w.Connect(context.Background())
	if err != nil {
		t.Fatalf("second connect: %v", err)
	}
	if s.Phase != domain.PhaseConnected || s.Address != testChecksum {
		t.Fatalf("expected connected session, got %+v", s)
	}
	if n := prov.callCount("eth_requestAccounts"); n != 2 {
		t.Fatalf("expected a fresh prompt, got %d prompts", n)
	}

	close(release)
	if err := <-done; !errors.Is(err, domain.ErrSessionReset) {
		t.Fatalf("expected ErrSessionReset for the dropped prompt, got %v", err)
	}
	if s := w.Snapshot(); s.Phase != domain.PhaseConnected {
		t.Fatalf("dropped prompt must not touch the new session, got %s", s.Phase)
	}
}

func TestWalletSession_Restore_UsesSilentAccounts(t *testing.T) {
	store := newMemStore()
	first := connected(t, newFakeProvider("0xa86a", testAccount), store)
	want := first.Snapshot()

	prov := newFakeProvider("0xa86a", testAccount)
	w := newWallet(prov, store)
	s := w.Restore(context.Background())

	if s.Phase != domain.PhaseConnected {
		t.Fatalf("expected connected after restore, got %s", s.Phase)
	}
	if s.Address != want.Address || s.Network.ChainID != want.Network.ChainID {
		t.Fatalf("restored session differs: got %+v want %+v", s, want)
	}
	if n := prov.callCount("eth_requestAccounts"); n != 0 {
		t.Fatalf("restore must not prompt, eth_requestAccounts called %d times", n)
	}
	if n := prov.callCount("eth_accounts"); n != 1 {
		t.Fatalf("expected one eth_accounts call, got %d", n)
	}
}

func TestWalletSession_Restore_NothingPersisted(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := newWallet(prov, newMemStore())

	if s := w.Restore(context.Background()); s.Phase != domain.PhaseIdle {
		t.Fatalf("expected idle, got %s", s.Phase)
	}
	if prov.callCount("eth_accounts") != 0 {
		t.Fatalf("provider must not be queried without a persisted session")
	}
}

func TestWalletSession_Restore_FailureStaysIdle(t *testing.T) {
	store := newMemStore()
	_ = store.Set(context.Background(), ports.KeyWalletConnected, "true")
	w := newWallet(newFakeProvider("0xa86a"), store)

	s := w.Restore(context.Background())
	if s.Phase != domain.PhaseIdle {
		t.Fatalf("expected idle after failed restore, got %s", s.Phase)
	}
	if s.Reason != domain.ReasonNone || s.LastError != "" {
		t.Fatalf("restore failure must not be surfaced, got %+v", s)
	}
	if !store.has(ports.KeyWalletConnected) {
		t.Fatalf("persisted flag should survive a failed restore")
	}
}

func TestWalletSession_SwitchNetwork(t *testing.T) {
	prov := newFakeProvider("0xa869", testAccount)
	store := newMemStore()
	w := connected(t, prov, store)

	net, err := w.SwitchNetwork(context.Background(), 43114)
	if err != nil {
		t.Fatalf("SwitchNetwork returned error: %v", err)
	}
	if net.Name != "Avalanche C-Chain" || !net.Supported {
		t.Fatalf("unexpected network: %+v", net)
	}
	params := prov.lastParams("wallet_switchEthereumChain")
	if len(params) != 1 {
		t.Fatalf("unexpected switch params: %v", params)
	}
	if m, ok := params[0].(map[string]string); !ok || m["chainId"] != "0xa86a" {
		t.Fatalf("unexpected switch params: %v", params)
	}
	if s := w.Snapshot(); s.Network.ChainID != 43114 {
		t.Fatalf("session network not updated: %+v", s.Network)
	}
	raw, _, _ := store.Get(context.Background(), ports.KeyWalletNetwork)
	if raw == "" || !json.Valid([]byte(raw)) {
		t.Fatalf("network not persisted: %q", raw)
	}

	net, err = w.SwitchNetwork(context.Background(), 999999)
	if err != nil {
		t.Fatalf("unknown chain must not be rejected: %v", err)
	}
	if net.Supported || net.Name != domain.UnknownNetworkName {
		t.Fatalf("expected unsupported placeholder, got %+v", net)
	}
	if s := w.Snapshot(); s.Phase != domain.PhaseConnected || s.Network.Supported {
		t.Fatalf("expected connected on unsupported network, got %+v", s)
	}
}

func TestWalletSession_SwitchNetwork_AddsChainUnknownToProvider(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := connected(t, prov, newMemStore())

	var mu sync.Mutex
	added := false
	prov.handle("wallet_switchEthereumChain", func(context.Context, []any) (json.RawMessage, error) {
		mu.Lock()
		defer mu.Unlock()
		if !added {
			return nil, &domain.ProviderError{Code: domain.ProviderCodeUnrecognizedChain, Message: "Unrecognized chain ID"}
		}
		return json.RawMessage("null"), nil
	})
	prov.handle("wallet_addEthereumChain", func(_ context.Context, params []any) (json.RawMessage, error) {
		mu.Lock()
		defer mu.Unlock()
		added = true
		return json.RawMessage("null"), nil
	})

	net, err := w.SwitchNetwork(context.Background(), 43113)
	if err != nil {
		t.Fatalf("SwitchNetwork returned error: %v", err)
	}
	if net.ChainID != 43113 || !net.Supported {
		t.Fatalf("unexpected network: %+v", net)
	}
	if prov.callCount("wallet_addEthereumChain") != 1 || prov.callCount("wallet_switchEthereumChain") != 2 {
		t.Fatalf("expected add then one retry, got add=%d switch=%d",
			prov.callCount("wallet_addEthereumChain"), prov.callCount("wallet_switchEthereumChain"))
	}
	params := prov.lastParams("wallet_addEthereumChain")
	m, ok := params[0].(map[string]any)
	if !ok || m["chainId"] != "0xa869" || m["chainName"] != "Avalanche Fuji Testnet" {
		t.Fatalf("unexpected add chain params: %v", params)
	}
}

func TestWalletSession_SwitchNetwork_FailureKeepsSession(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := connected(t, prov, newMemStore())
	prov.handle("wallet_switchEthereumChain", func(context.Context, []any) (json.RawMessage, error) {
		return nil, &domain.ProviderError{Code: domain.ProviderCodeUnrecognizedChain, Message: "Unrecognized chain ID"}
	})

	_, err := w.SwitchNetwork(context.Background(), 999999)
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Code != domain.ProviderCodeUnrecognizedChain {
		t.Fatalf("expected provider error to surface, got %v", err)
	}
	if prov.callCount("wallet_addEthereumChain") != 0 {
		t.Fatalf("chain without metadata must not be added")
	}
	s := w.Snapshot()
	if s.Phase != domain.PhaseConnected || s.Network.ChainID != 43114 {
		t.Fatalf("failed switch must keep the session, got %+v", s)
	}
	if s.LastError == "" {
		t.Fatalf("expected lastError recorded")
	}
}

func TestWalletSession_SwitchNetwork_Busy(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := connected(t, prov, newMemStore())

	entered := make(chan struct{})
	release := make(chan struct{})
	prov.handle("wallet_switchEthereumChain", func(context.Context, []any) (json.RawMessage, error) {
		close(entered)
		<-release
		return json.RawMessage("null"), nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := w.SwitchNetwork(context.Background(), 43113)
		done <- err
	}()
	<-entered

	if _, err := w.SwitchNetwork(context.Background(), 43114); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first switch failed: %v", err)
	}
}

func TestWalletSession_SwitchNetwork_RequiresConnection(t *testing.T) {
	w := newWallet(newFakeProvider("0xa86a", testAccount), newMemStore())
	if _, err := w.SwitchNetwork(context.Background(), 43114); !errors.Is(err, domain.ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
}

func TestWalletSession_AccountsChangedEmpty_Disconnects(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	store := newMemStore()
	w := connected(t, prov, store)

	prov.emit(ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: []string{}})

	s := w.Snapshot()
	if s.Phase != domain.PhaseIdle || s.Address != "" {
		t.Fatalf("expected idle after empty accounts, got %+v", s)
	}
	if store.has(ports.KeyWalletConnected) {
		t.Fatalf("expected persisted session cleared")
	}
	if prov.listenerCount() != 0 {
		t.Fatalf("expected listeners released, got %d", prov.listenerCount())
	}
}

func TestWalletSession_AccountsChanged_UpdatesAddress(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	store := newMemStore()
	w := connected(t, prov, store)

	prov.emit(ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: []string{"0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"}})

	s := w.Snapshot()
	if s.Phase != domain.PhaseConnected || s.Address != "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if v, _, _ := store.Get(context.Background(), ports.KeyWalletAddress); v != s.Address {
		t.Fatalf("expected new address persisted, got %q", v)
	}
}

func TestWalletSession_ChainChanged_RestartsSession(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := connected(t, prov, newMemStore())

	prov.respond("eth_chainId", "0xa869")
	prov.emit(ports.ProviderEvent{Kind: ports.EventChainChanged, ChainID: 43113})

	s := w.Snapshot()
	if s.Phase != domain.PhaseConnected || s.Network.ChainID != 43113 {
		t.Fatalf("expected reconnected on new chain, got %+v", s)
	}
	if n := prov.callCount("eth_requestAccounts"); n != 1 {
		t.Fatalf("session restart must not prompt, got %d prompts", n)
	}
	if prov.listenerCount() != 2 {
		t.Fatalf("expected fresh listeners only, got %d", prov.listenerCount())
	}
}

func TestWalletSession_StaleEventIgnored(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := connected(t, prov, newMemStore())

	err := w.HandleProviderEvent(context.Background(), ports.ProviderEvent{
		Kind:       ports.EventAccountsChanged,
		Accounts:   []string{},
		Generation: 9999,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Snapshot().Phase != domain.PhaseConnected {
		t.Fatalf("stale event must not change the session")
	}
}

type stubQueue struct {
	mu     sync.Mutex
	events []ports.ProviderEvent
}

func (q *stubQueue) Enqueue(ev ports.ProviderEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
}

func TestWalletSession_EventsGoThroughQueue(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := newWallet(prov, newMemStore())
	q := &stubQueue{}
	w.UseEventQueue(q)
	if _, err := w.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	prov.emit(ports.ProviderEvent{Kind: ports.EventAccountsChanged, Accounts: []string{}})

	if w.Snapshot().Phase != domain.PhaseConnected {
		t.Fatalf("queued event must not be applied inline")
	}
	q.mu.Lock()
	events := append([]ports.ProviderEvent(nil), q.events...)
	q.mu.Unlock()
	if len(events) != 1 || events[0].Generation == 0 {
		t.Fatalf("expected one stamped event, got %+v", events)
	}

	if err := w.HandleProviderEvent(context.Background(), events[0]); err != nil {
		t.Fatalf("apply queued event: %v", err)
	}
	if w.Snapshot().Phase != domain.PhaseIdle {
		t.Fatalf("expected idle after applying queued event")
	}
}

func TestWalletSession_Subscribe(t *testing.T) {
	w := newWallet(newFakeProvider("0xa86a", testAccount), newMemStore())
	ch, cancel := w.Subscribe()
	defer cancel()

	if _, err := w.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	var phases []domain.Phase
	for len(phases) < 2 {
		select {
		case s := <-ch:
			phases = append(phases, s.Phase)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for transitions, got %v", phases)
		}
	}
	if phases[0] != domain.PhaseConnecting || phases[1] != domain.PhaseConnected {
		t.Fatalf("unexpected transitions: %v", phases)
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after cancel")
	}
}

func TestWalletSession_AuditTrail(t *testing.T) {
	audit := &stubAudit{records: make(chan domain.TransitionRecord, 8)}
	prov := newFakeProvider("0xa86a", testAccount)
	w := NewWalletSessionController(&stubLocator{provider: prov}, newMemStore(), NewNetworkRegistry(), audit, zerolog.Nop(), WalletOptions{})

	if _, err := w.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	got := map[string]domain.TransitionRecord{}
	for len(got) < 2 {
		select {
		case rec := <-audit.records:
			got[rec.From+">"+rec.To] = rec
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for audit records, got %v", got)
		}
	}
	rec, ok := got["connecting>connected"]
	if !ok || rec.Address != testChecksum || rec.ChainID != 43114 || rec.Controller != domain.ControllerWallet {
		t.Fatalf("unexpected audit records: %+v", got)
	}
}

func TestWalletSession_SignAndEstimate(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	prov.respond("personal_sign", "0xsig")
	prov.respond("eth_estimateGas", "0x5208")
	w := newWallet(prov, newMemStore())

	if _, err := w.SignMessage(context.Background(), "hello"); !errors.Is(err, domain.ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase before connect, got %v", err)
	}
	if _, err := w.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	sig, err := w.SignMessage(context.Background(), "hello")
	if err != nil || sig != "0xsig" {
		t.Fatalf("unexpected signature %q (%v)", sig, err)
	}
	if params := prov.lastParams("personal_sign"); params[0] != "0x68656c6c6f" || params[1] != testChecksum {
		t.Fatalf("unexpected personal_sign params: %v", params)
	}

	gas, err := w.EstimateGas(context.Background(), "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359", "0.5")
	if err != nil || gas != "21000" {
		t.Fatalf("unexpected gas %q (%v)", gas, err)
	}
	call := prov.lastParams("eth_estimateGas")[0].(map[string]string)
	if call["value"] != "0x6f05b59d3b20000" || call["from"] != testChecksum {
		t.Fatalf("unexpected estimate call: %v", call)
	}

	if _, err := w.EstimateGas(context.Background(), "not-an-address", "1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWalletSession_SendTransactionAndWait(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	prov.respond("eth_sendTransaction", "0xhash")
	var mu sync.Mutex
	polls := 0
	prov.handle("eth_getTransactionReceipt", func(context.Context, []any) (json.RawMessage, error) {
		mu.Lock()
		defer mu.Unlock()
		polls++
		if polls < 3 {
			return json.RawMessage("null"), nil
		}
		return json.RawMessage(`{"transactionHash":"0xhash","blockNumber":"0x10","status":"0x1","gasUsed":"0x5208"}`), nil
	})
	w := connected(t, prov, newMemStore())

	hash, err := w.SendTransaction(context.Background(), domain.Transaction{
		To:       "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
		Value:    "1000000000000000000",
		GasLimit: "21000",
	})
	if err != nil || hash != "0xhash" {
		t.Fatalf("unexpected hash %q (%v)", hash, err)
	}
	call := prov.lastParams("eth_sendTransaction")[0].(map[string]string)
	if call["value"] != "0xde0b6b3a7640000" || call["gas"] != "0x5208" {
		t.Fatalf("unexpected transaction call: %v", call)
	}

	receipt, err := w.WaitForReceipt(context.Background(), hash)
	if err != nil {
		t.Fatalf("WaitForReceipt: %v", err)
	}
	if !receipt.Success || receipt.BlockNumber != 16 || receipt.GasUsed != 21000 {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestWalletSession_Close(t *testing.T) {
	prov := newFakeProvider("0xa86a", testAccount)
	w := connected(t, prov, newMemStore())
	ch, _ := w.Subscribe()

	w.Close()
	if prov.listenerCount() != 0 {
		t.Fatalf("expected listeners released on close")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected subscriber channel closed")
	}
}
