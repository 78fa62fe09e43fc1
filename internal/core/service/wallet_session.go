package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
	"github.com/c2developers/creatorhub/internal/pkg/metrics"
)

const (
	defaultProviderTimeout     = 60 * time.Second
	defaultReceiptPollInterval = 2 * time.Second

	connectFlight = "connect"
)

// JSON-RPC methods issued by the wallet controller.
const (
	methodRequestAccounts = "eth_requestAccounts"
	methodAccounts        = "eth_accounts"
	methodChainID         = "eth_chainId"
	methodGetBalance      = "eth_getBalance"
	methodSwitchChain     = "wallet_switchEthereumChain"
	methodAddChain        = "wallet_addEthereumChain"
	methodPersonalSign    = "personal_sign"
	methodEstimateGas     = "eth_estimateGas"
	methodSendTransaction = "eth_sendTransaction"
	methodGetReceipt      = "eth_getTransactionReceipt"
)

// WalletOptions tunes a WalletSessionController. Zero values select defaults.
type WalletOptions struct {
	ProviderTimeout     time.Duration
	ReceiptPollInterval time.Duration
}

// WalletSessionController owns the wallet session. It is the only writer of
// the session state and of the persisted wallet keys.
type WalletSessionController struct {
	locator     ports.ProviderLocator
	store       ports.SessionStore
	registry    *NetworkRegistry
	audit       ports.AuditRepository
	log         zerolog.Logger
	timeout     time.Duration
	receiptPoll time.Duration

	flight singleflight.Group

	mu         sync.Mutex
	session    domain.Session
	provider   ports.Provider
	listeners  []ports.Subscription
	generation uint64
	switching  bool
	queue      ports.EventQueue

	subs *hub[domain.Session]
}

func NewWalletSessionController(
	locator ports.ProviderLocator,
	store ports.SessionStore,
	registry *NetworkRegistry,
	audit ports.AuditRepository,
	log zerolog.Logger,
	opts WalletOptions,
) *WalletSessionController {
	if audit == nil {
		audit = NopAudit{}
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = defaultProviderTimeout
	}
	if opts.ReceiptPollInterval <= 0 {
		opts.ReceiptPollInterval = defaultReceiptPollInterval
	}
	return &WalletSessionController{
		locator:     locator,
		store:       store,
		registry:    registry,
		audit:       audit,
		log:         log.With().Str("component", "wallet").Logger(),
		timeout:     opts.ProviderTimeout,
		receiptPoll: opts.ReceiptPollInterval,
		session:     domain.Session{Phase: domain.PhaseIdle, UpdatedAt: time.Now().UTC()},
		subs:        newHub[domain.Session](),
	}
}

// UseEventQueue routes provider events through q instead of applying them
// on the provider's goroutine.
func (c *WalletSessionController) UseEventQueue(q ports.EventQueue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = q
}

// Snapshot returns the current session.
func (c *WalletSessionController) Snapshot() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

// Subscribe delivers every state transition until the returned cancel func is called.
func (c *WalletSessionController) Subscribe() (<-chan domain.Session, func()) {
	return c.subs.subscribe()
}

// Connect asks the provider for account access and opens a session. Callers
// arriving while a connect is in flight share its outcome.
func (c *WalletSessionController) Connect(ctx context.Context) (domain.Session, error) {
	return c.join(ctx, c.connect)
}

// Restore silently reconnects a session persisted by a previous run. It never
// prompts the user and never surfaces an error; failures leave the session idle.
func (c *WalletSessionController) Restore(ctx context.Context) domain.Session {
	v, ok, err := c.store.Get(ctx, ports.KeyWalletConnected)
	if err != nil {
		c.log.Warn().Err(err).Msg("read persisted wallet flag")
		return c.Snapshot()
	}
	if !ok || v != "true" {
		return c.Snapshot()
	}

	s, err := c.join(ctx, c.restore)
	if err != nil {
		c.log.Info().Err(err).Str("reason", string(domain.ReasonOf(err))).Msg("wallet session not restored")
	}
	return s
}

func (c *WalletSessionController) join(ctx context.Context, fn func(context.Context) (domain.Session, error)) (domain.Session, error) {
	ch := c.flight.DoChan(connectFlight, func() (any, error) {
		s, err := fn(context.WithoutCancel(ctx))
		return s, err
	})
	select {
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	case res := <-ch:
		s, _ := res.Val.(domain.Session)
		return s, res.Err
	}
}

func (c *WalletSessionController) connect(ctx context.Context) (domain.Session, error) {
	c.mu.Lock()
	if !c.session.Phase.CanConnect() {
		s := c.session.Clone()
		c.mu.Unlock()
		return s, fmt.Errorf("connect from %s: %w", s.Phase, domain.ErrInvalidPhase)
	}
	gen := c.beginLocked()
	c.mu.Unlock()

	prov, err := c.locator.Locate()
	if err != nil {
		return c.fail(gen, err)
	}
	next, err := c.establish(ctx, prov, methodRequestAccounts)
	if err != nil {
		return c.fail(gen, err)
	}
	return c.commit(ctx, gen, prov, next)
}

func (c *WalletSessionController) restore(ctx context.Context) (domain.Session, error) {
	c.mu.Lock()
	if c.session.Phase != domain.PhaseIdle {
		s := c.session.Clone()
		c.mu.Unlock()
		return s, nil
	}
	gen := c.beginLocked()
	c.mu.Unlock()

	var next domain.Session
	prov, err := c.locator.Locate()
	if err == nil {
		next, err = c.establish(ctx, prov, methodAccounts)
	}
	if err != nil {
		metrics.WalletConnectTotal.WithLabelValues(string(domain.ReasonOf(err))).Inc()
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.generation {
			c.transitionLocked(domain.Session{Phase: domain.PhaseIdle})
		}
		return c.session.Clone(), fmt.Errorf("restore: %w", err)
	}
	return c.commit(ctx, gen, prov, next)
}

// establish reads the account, balance and chain from prov. accountsMethod
// decides whether the user is prompted.
func (c *WalletSessionController) establish(ctx context.Context, prov ports.Provider, accountsMethod string) (domain.Session, error) {
	raw, err := c.request(ctx, prov, accountsMethod)
	if err != nil {
		return domain.Session{}, err
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return domain.Session{}, fmt.Errorf("decode accounts: %w", err)
	}
	if len(accounts) == 0 {
		return domain.Session{}, domain.ErrNoAccounts
	}
	addr, err := ChecksumAddress(accounts[0])
	if err != nil {
		return domain.Session{}, err
	}

	var (
		balance *big.Int
		chainID int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := c.request(gctx, prov, methodGetBalance, addr, "latest")
		if err != nil {
			return err
		}
		balance, err = parseQuantity(raw)
		return err
	})
	g.Go(func() error {
		raw, err := c.request(gctx, prov, methodChainID)
		if err != nil {
			return err
		}
		var hexID string
		if err := json.Unmarshal(raw, &hexID); err != nil {
			return fmt.Errorf("decode chain id: %w", err)
		}
		chainID, err = domain.ParseChainID(hexID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Session{}, err
	}

	net := c.registry.Lookup(chainID)
	return domain.Session{
		Phase:          domain.PhaseConnected,
		Address:        addr,
		BalanceDisplay: FormatEther(balance),
		Network:        &net,
	}, nil
}

func (c *WalletSessionController) commit(ctx context.Context, gen uint64, prov ports.Provider, next domain.Session) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return c.session.Clone(), fmt.Errorf("connect: %w", domain.ErrSessionReset)
	}
	c.provider = prov
	c.listenLocked(prov, gen)
	c.transitionLocked(next)
	c.persistLocked(ctx, next)

	metrics.WalletConnectTotal.WithLabelValues("connected").Inc()
	c.log.Info().
		Str("address", next.Address).
		Int64("chain_id", next.Network.ChainID).
		Bool("supported", next.Network.Supported).
		Str("provider", prov.Name()).
		Msg("wallet connected")
	return c.session.Clone(), nil
}

func (c *WalletSessionController) fail(gen uint64, err error) (domain.Session, error) {
	reason := domain.ReasonOf(err)
	metrics.WalletConnectTotal.WithLabelValues(string(reason)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.session.Clone(), fmt.Errorf("connect: %w", domain.ErrSessionReset)
	}
	c.transitionLocked(domain.Session{
		Phase:     domain.PhaseFailed,
		Reason:    reason,
		LastError: err.Error(),
	})
	c.log.Warn().Err(err).Str("reason", string(reason)).Msg("wallet connect failed")
	return c.session.Clone(), fmt.Errorf("connect: %w", err)
}

// Disconnect drops the session from any phase. It is idempotent.
func (c *WalletSessionController) Disconnect(ctx context.Context) domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	// A prompt still pending belongs to the dropped session; the next Connect prompts again.
	c.flight.Forget(connectFlight)
	c.releaseLocked()
	if err := c.store.Delete(ctx, ports.KeyWalletConnected, ports.KeyWalletAddress, ports.KeyWalletNetwork); err != nil {
		c.log.Warn().Err(err).Msg("clear persisted wallet session")
	}
	if c.session.Phase != domain.PhaseIdle || c.session.Reason != domain.ReasonNone {
		c.transitionLocked(domain.Session{Phase: domain.PhaseIdle})
		c.log.Info().Msg("wallet disconnected")
	}
	return c.session.Clone()
}

// SwitchNetwork asks the provider to move to chainID. Chains missing from the
// registry are attempted and reported as unsupported rather than rejected.
func (c *WalletSessionController) SwitchNetwork(ctx context.Context, chainID int64) (domain.Network, error) {
	c.mu.Lock()
	if c.session.Phase != domain.PhaseConnected {
		c.mu.Unlock()
		return domain.Network{}, fmt.Errorf("switch network: %w", domain.ErrInvalidPhase)
	}
	if c.switching {
		c.mu.Unlock()
		return domain.Network{}, fmt.Errorf("switch network: %w", domain.ErrBusy)
	}
	c.switching = true
	prov, gen := c.provider, c.generation
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.switching = false
		c.mu.Unlock()
	}()

	net := c.registry.Lookup(chainID)
	supported := strconv.FormatBool(net.Supported)

	if err := c.switchChain(ctx, prov, chainID); err != nil {
		metrics.WalletNetworkSwitchTotal.WithLabelValues(supported, string(domain.ReasonOf(err))).Inc()
		c.mu.Lock()
		if gen == c.generation && c.session.Phase == domain.PhaseConnected {
			next := c.session.Clone()
			next.LastError = err.Error()
			c.transitionLocked(next)
		}
		c.mu.Unlock()
		c.log.Warn().Err(err).Int64("chain_id", chainID).Msg("network switch failed")
		return domain.Network{}, fmt.Errorf("switch network: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.session.Phase != domain.PhaseConnected {
		return net, fmt.Errorf("switch network: %w", domain.ErrSessionReset)
	}
	next := c.session.Clone()
	next.Network = &net
	next.LastError = ""
	c.transitionLocked(next)
	c.persistNetworkLocked(ctx, net)

	metrics.WalletNetworkSwitchTotal.WithLabelValues(supported, "ok").Inc()
	ev := c.log.Info()
	if !net.Supported {
		ev = c.log.Warn()
	}
	ev.Int64("chain_id", net.ChainID).Str("network", net.Name).Bool("supported", net.Supported).Msg("network switched")
	return net, nil
}

func (c *WalletSessionController) switchChain(ctx context.Context, prov ports.Provider, chainID int64) error {
	param := map[string]string{"chainId": domain.HexChainID(chainID)}
	_, err := c.request(ctx, prov, methodSwitchChain, param)
	if err == nil {
		return nil
	}

	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Code != domain.ProviderCodeUnrecognizedChain {
		return err
	}
	spec, ok := c.registry.Spec(chainID)
	if !ok || !spec.CanAdd() {
		return err
	}

	c.log.Info().Int64("chain_id", chainID).Msg("chain unknown to provider, adding it")
	if _, err := c.request(ctx, prov, methodAddChain, spec.AddChainParams()); err != nil {
		return err
	}
	_, err = c.request(ctx, prov, methodSwitchChain, param)
	return err
}

// SignMessage signs msg with the connected account via personal_sign.
func (c *WalletSessionController) SignMessage(ctx context.Context, msg string) (string, error) {
	prov, addr, err := c.connectedProvider("sign message")
	if err != nil {
		return "", err
	}
	raw, err := c.request(ctx, prov, methodPersonalSign, utf8ToHex(msg), addr)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	var sig string
	if err := json.Unmarshal(raw, &sig); err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	return sig, nil
}

// EstimateGas estimates the gas for sending amount (in ether) to the given address.
func (c *WalletSessionController) EstimateGas(ctx context.Context, to, amount string) (string, error) {
	prov, from, err := c.connectedProvider("estimate gas")
	if err != nil {
		return "", err
	}
	toAddr, err := ChecksumAddress(to)
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w: %v", domain.ErrValidation, err)
	}
	wei, err := ParseEther(amount)
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w: %v", domain.ErrValidation, err)
	}

	call := map[string]string{"from": from, "to": toAddr, "value": toQuantity(wei)}
	raw, err := c.request(ctx, prov, methodEstimateGas, call)
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w", err)
	}
	gas, err := parseQuantity(raw)
	if err != nil {
		return "", err
	}
	return gas.String(), nil
}

// SendTransaction submits tx from the connected account and returns its hash.
func (c *WalletSessionController) SendTransaction(ctx context.Context, tx domain.Transaction) (string, error) {
	prov, from, err := c.connectedProvider("send transaction")
	if err != nil {
		return "", err
	}
	call, err := transactionCall(from, tx)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w: %v", domain.ErrValidation, err)
	}
	raw, err := c.request(ctx, prov, methodSendTransaction, call)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	var hash string
	if err := json.Unmarshal(raw, &hash); err != nil {
		return "", fmt.Errorf("decode transaction hash: %w", err)
	}
	c.log.Info().Str("tx_hash", hash).Str("to", call["to"]).Msg("transaction sent")
	return hash, nil
}

func transactionCall(from string, tx domain.Transaction) (map[string]string, error) {
	to, err := ChecksumAddress(tx.To)
	if err != nil {
		return nil, err
	}
	call := map[string]string{"from": from, "to": to}

	if v := strings.TrimSpace(tx.Value); v != "" {
		wei, ok := new(big.Int).SetString(v, 0)
		if !ok || wei.Sign() < 0 {
			return nil, fmt.Errorf("invalid value %q", tx.Value)
		}
		call["value"] = toQuantity(wei)
	}
	if tx.Data != "" {
		call["data"] = tx.Data
	}
	if tx.GasLimit != "" {
		gas, ok := new(big.Int).SetString(tx.GasLimit, 0)
		if !ok {
			return nil, fmt.Errorf("invalid gas limit %q", tx.GasLimit)
		}
		call["gas"] = toQuantity(gas)
	}
	return call, nil
}

type rpcReceipt struct {
	TransactionHash string `json:"transactionHash"`
	BlockNumber     string `json:"blockNumber"`
	Status          string `json:"status"`
	GasUsed         string `json:"gasUsed"`
}

// WaitForReceipt polls until the transaction is mined or ctx is done.
func (c *WalletSessionController) WaitForReceipt(ctx context.Context, txHash string) (*domain.Receipt, error) {
	prov, _, err := c.connectedProvider("wait for receipt")
	if err != nil {
		return nil, err
	}
	ticker := time.NewTicker(c.receiptPoll)
	defer ticker.Stop()

	for {
		raw, err := c.request(ctx, prov, methodGetReceipt, txHash)
		if err != nil {
			return nil, fmt.Errorf("wait for receipt: %w", err)
		}
		if len(raw) > 0 && string(raw) != "null" {
			var r rpcReceipt
			if err := json.Unmarshal(raw, &r); err != nil {
				return nil, fmt.Errorf("decode receipt: %w", err)
			}
			return decodeReceipt(r)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for receipt: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func decodeReceipt(r rpcReceipt) (*domain.Receipt, error) {
	block, err := parseHexBig(r.BlockNumber)
	if err != nil {
		return nil, err
	}
	gas, err := parseHexBig(r.GasUsed)
	if err != nil {
		return nil, err
	}
	return &domain.Receipt{
		TxHash:      r.TransactionHash,
		BlockNumber: block.Uint64(),
		Success:     r.Status == "0x1",
		GasUsed:     gas.Uint64(),
	}, nil
}

// HandleProviderEvent applies an accountsChanged or chainChanged notification.
// Events raised for an earlier connection are ignored.
func (c *WalletSessionController) HandleProviderEvent(ctx context.Context, ev ports.ProviderEvent) error {
	c.mu.Lock()
	if ev.Generation != c.generation || c.session.Phase != domain.PhaseConnected {
		c.mu.Unlock()
		c.log.Debug().Str("event", string(ev.Kind)).Msg("stale provider event ignored")
		return nil
	}

	switch ev.Kind {
	case ports.EventAccountsChanged:
		if len(ev.Accounts) == 0 {
			c.mu.Unlock()
			c.log.Info().Msg("provider reported no accounts")
			c.Disconnect(ctx)
			return nil
		}
		defer c.mu.Unlock()
		addr, err := ChecksumAddress(ev.Accounts[0])
		if err != nil {
			return fmt.Errorf("accounts changed: %w", err)
		}
		next := c.session.Clone()
		next.Address = addr
		c.transitionLocked(next)
		if err := c.store.Set(ctx, ports.KeyWalletAddress, addr); err != nil {
			c.log.Warn().Err(err).Msg("persist wallet address")
		}
		c.log.Info().Str("address", addr).Msg("wallet account changed")
		return nil

	case ports.EventChainChanged:
		c.generation++
		c.releaseLocked()
		c.transitionLocked(domain.Session{Phase: domain.PhaseIdle})
		c.mu.Unlock()
		c.log.Info().Int64("chain_id", ev.ChainID).Msg("chain changed, restarting wallet session")
		c.Restore(ctx)
		return nil

	default:
		c.mu.Unlock()
		return fmt.Errorf("unknown provider event %q", ev.Kind)
	}
}

// Close releases provider listeners and subscribers.
func (c *WalletSessionController) Close() {
	c.mu.Lock()
	c.generation++
	c.releaseLocked()
	c.mu.Unlock()
	c.subs.close()
}

func (c *WalletSessionController) connectedProvider(op string) (ports.Provider, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.Connected() || c.provider == nil {
		return nil, "", fmt.Errorf("%s: %w", op, domain.ErrInvalidPhase)
	}
	return c.provider, c.session.Address, nil
}

// request performs one provider call bounded by the provider timeout.
func (c *WalletSessionController) request(ctx context.Context, prov ports.Provider, method string, params ...any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := prov.Request(ctx, method, params...)
	metrics.ProviderRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s: %w", method, domain.ErrProviderTimeout)
		}
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return raw, nil
}

func (c *WalletSessionController) beginLocked() uint64 {
	c.generation++
	c.transitionLocked(domain.Session{Phase: domain.PhaseConnecting})
	return c.generation
}

func (c *WalletSessionController) listenLocked(prov ports.Provider, gen uint64) {
	deliver := func(ev ports.ProviderEvent) {
		ev.Generation = gen
		c.mu.Lock()
		q := c.queue
		c.mu.Unlock()
		if q != nil {
			q.Enqueue(ev)
			return
		}
		if err := c.HandleProviderEvent(context.Background(), ev); err != nil {
			c.log.Warn().Err(err).Str("event", string(ev.Kind)).Msg("provider event failed")
		}
	}
	c.listeners = append(c.listeners,
		prov.On(ports.EventAccountsChanged, deliver),
		prov.On(ports.EventChainChanged, deliver),
	)
}

func (c *WalletSessionController) releaseLocked() {
	for _, sub := range c.listeners {
		sub.Unsubscribe()
	}
	c.listeners = nil
	c.provider = nil
}

func (c *WalletSessionController) persistLocked(ctx context.Context, s domain.Session) {
	if err := c.store.Set(ctx, ports.KeyWalletConnected, "true"); err != nil {
		c.log.Warn().Err(err).Msg("persist wallet flag")
	}
	if err := c.store.Set(ctx, ports.KeyWalletAddress, s.Address); err != nil {
		c.log.Warn().Err(err).Msg("persist wallet address")
	}
	if s.Network != nil {
		c.persistNetworkLocked(ctx, *s.Network)
	}
}

func (c *WalletSessionController) persistNetworkLocked(ctx context.Context, net domain.Network) {
	b, err := json.Marshal(net)
	if err != nil {
		c.log.Warn().Err(err).Msg("encode wallet network")
		return
	}
	if err := c.store.Set(ctx, ports.KeyWalletNetwork, string(b)); err != nil {
		c.log.Warn().Err(err).Msg("persist wallet network")
	}
}

// transitionLocked moves the session to next, refusing transitions outside the table.
func (c *WalletSessionController) transitionLocked(next domain.Session) bool {
	from := c.session.Phase
	if !from.CanTransitionTo(next.Phase) {
		c.log.Error().Str("from", string(from)).Str("to", string(next.Phase)).Err(domain.ErrInvalidTransition).Msg("transition refused")
		return false
	}
	if err := next.Validate(); err != nil {
		c.log.Error().Err(err).Msg("transition refused")
		return false
	}
	next.UpdatedAt = time.Now().UTC()
	c.session = next

	metrics.WalletTransitionsTotal.WithLabelValues(string(from), string(next.Phase)).Inc()
	c.subs.publish(next.Clone())

	rec := domain.TransitionRecord{
		Controller: domain.ControllerWallet,
		From:       string(from),
		To:         string(next.Phase),
		Reason:     string(next.Reason),
		Address:    next.Address,
		At:         next.UpdatedAt,
	}
	if next.Network != nil {
		rec.ChainID = next.Network.ChainID
	}
	recordTransition(c.audit, c.log, rec)
	return true
}
