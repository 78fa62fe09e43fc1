package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
	"github.com/c2developers/creatorhub/internal/pkg/metrics"
)

// AuthOptions tunes an AuthSessionController.
type AuthOptions struct {
	// ValidateOnStartup makes Restore confirm the stored token with the backend.
	ValidateOnStartup bool
}

// AuthSessionController owns the auth session and the persisted token.
type AuthSessionController struct {
	api      ports.AuthAPI
	store    ports.SessionStore
	signer   ports.MessageSigner
	audit    ports.AuditRepository
	log      zerolog.Logger
	validate bool

	mu         sync.Mutex
	session    domain.AuthSession
	inflight   bool
	generation uint64

	subs *hub[domain.AuthSession]
}

func NewAuthSessionController(
	api ports.AuthAPI,
	store ports.SessionStore,
	signer ports.MessageSigner,
	audit ports.AuditRepository,
	log zerolog.Logger,
	opts AuthOptions,
) *AuthSessionController {
	if audit == nil {
		audit = NopAudit{}
	}
	return &AuthSessionController{
		api:      api,
		store:    store,
		signer:   signer,
		audit:    audit,
		log:      log.With().Str("component", "auth").Logger(),
		validate: opts.ValidateOnStartup,
		session:  domain.AuthSession{Phase: domain.AuthIdle, UpdatedAt: time.Now().UTC()},
		subs:     newHub[domain.AuthSession](),
	}
}

// Snapshot returns the current auth session.
func (c *AuthSessionController) Snapshot() domain.AuthSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

// Subscribe delivers every state transition until the returned cancel func is called.
func (c *AuthSessionController) Subscribe() (<-chan domain.AuthSession, func()) {
	return c.subs.subscribe()
}

// Login authenticates with email or wallet address and password.
func (c *AuthSessionController) Login(ctx context.Context, creds domain.Credentials) (domain.AuthSession, error) {
	return c.authenticate(ctx, "login", domain.ErrInvalidCredentials, func(ctx context.Context) (*domain.AuthResult, error) {
		return c.api.Login(ctx, creds)
	})
}

// Register creates an account and signs it in.
func (c *AuthSessionController) Register(ctx context.Context, reg domain.Registration) (domain.AuthSession, error) {
	return c.authenticate(ctx, "register", domain.ErrRegistrationFailed, func(ctx context.Context) (*domain.AuthResult, error) {
		return c.api.Register(ctx, reg)
	})
}

// LoginWithWallet signs the backend's challenge with the connected wallet.
func (c *AuthSessionController) LoginWithWallet(ctx context.Context) (domain.AuthSession, error) {
	return c.authenticate(ctx, "wallet login", domain.ErrWalletLoginFailed, func(ctx context.Context) (*domain.AuthResult, error) {
		if c.signer == nil {
			return nil, errors.New("no wallet signer configured")
		}
		wallet := c.signer.Snapshot()
		if !wallet.Connected() {
			return nil, fmt.Errorf("wallet not connected: %w", domain.ErrInvalidPhase)
		}
		msg, err := c.api.WalletMessage(ctx)
		if err != nil {
			return nil, err
		}
		sig, err := c.signer.SignMessage(ctx, msg)
		if err != nil {
			return nil, err
		}
		return c.api.ConnectWallet(ctx, wallet.Address, sig, msg)
	})
}

func (c *AuthSessionController) authenticate(
	ctx context.Context,
	op string,
	failure error,
	fn func(context.Context) (*domain.AuthResult, error),
) (domain.AuthSession, error) {
	c.mu.Lock()
	if c.inflight {
		s := c.session.Clone()
		c.mu.Unlock()
		return s, fmt.Errorf("%s: %w", op, domain.ErrBusy)
	}
	if !c.session.Phase.CanTransitionTo(domain.AuthAuthenticating) {
		s := c.session.Clone()
		c.mu.Unlock()
		return s, fmt.Errorf("%s from %s: %w", op, s.Phase, domain.ErrInvalidPhase)
	}
	c.inflight = true
	c.generation++
	gen := c.generation
	c.transitionLocked(domain.AuthSession{Phase: domain.AuthAuthenticating})
	c.mu.Unlock()

	res, err := fn(ctx)
	if err == nil && (res == nil || res.Token == "") {
		err = errors.New("backend returned no token")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = false
	if gen != c.generation {
		return c.session.Clone(), fmt.Errorf("%s: %w", op, domain.ErrSessionReset)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("authentication failed")
		c.transitionLocked(domain.AuthSession{Phase: domain.AuthFailed, Reason: failure.Error()})
		return c.session.Clone(), fmt.Errorf("%s: %w", op, failure)
	}

	user := res.User
	if err := c.store.Set(ctx, ports.KeyAuthToken, res.Token); err != nil {
		c.log.Warn().Err(err).Msg("persist auth token")
	}
	c.persistUserLocked(ctx, user)
	c.transitionLocked(domain.AuthSession{Phase: domain.AuthAuthenticated, User: &user})
	c.log.Info().Str("op", op).Str("user_id", user.ID).Str("role", user.Role).Msg("authenticated")
	return c.session.Clone(), nil
}

// Logout clears the stored token and profile. It is valid from any phase.
func (c *AuthSessionController) Logout(ctx context.Context) domain.AuthSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoutLocked(ctx)
	return c.session.Clone()
}

// ForceLogout is Logout triggered by the system, e.g. when the backend rejects the token.
func (c *AuthSessionController) ForceLogout(ctx context.Context, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Phase == domain.AuthIdle {
		return
	}
	c.log.Warn().Str("reason", reason).Msg("forced logout")
	c.logoutLocked(ctx)
}

func (c *AuthSessionController) logoutLocked(ctx context.Context) {
	c.generation++
	if err := c.store.Delete(ctx, ports.KeyAuthToken, ports.KeyAuthUser); err != nil {
		c.log.Warn().Err(err).Msg("clear persisted auth session")
	}
	if c.session.Phase != domain.AuthIdle {
		c.transitionLocked(domain.AuthSession{Phase: domain.AuthIdle})
		c.log.Info().Msg("logged out")
	}
}

// UpdateUser merges patch into the current profile. The patch is not validated.
func (c *AuthSessionController) UpdateUser(ctx context.Context, patch domain.UserPatch) (domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.Authenticated() {
		return domain.User{}, fmt.Errorf("update user: %w", domain.ErrNotAuthenticated)
	}
	user := c.session.User.Apply(patch)
	c.persistUserLocked(ctx, user)
	c.transitionLocked(domain.AuthSession{Phase: domain.AuthAuthenticated, User: &user})
	return user, nil
}

// Restore resumes a session from a stored token. The token is trusted
// without a server round-trip unless validation on startup is enabled or no
// cached profile is available. Locally expired JWTs are discarded.
func (c *AuthSessionController) Restore(ctx context.Context) domain.AuthSession {
	token, ok, err := c.store.Get(ctx, ports.KeyAuthToken)
	if err != nil {
		c.log.Warn().Err(err).Msg("read persisted auth token")
		return c.Snapshot()
	}
	if !ok || token == "" {
		return c.Snapshot()
	}
	if tokenExpired(token, time.Now()) {
		c.log.Info().Msg("stored auth token expired")
		c.discard(ctx)
		return c.Snapshot()
	}

	user := c.cachedUser(ctx)
	if c.validate || user == nil {
		fresh, err := c.api.Me(ctx)
		switch {
		case err == nil:
			user = fresh
		case errors.Is(err, domain.ErrAPIUnauthorized):
			c.log.Info().Err(err).Msg("stored auth token rejected")
			c.discard(ctx)
			return c.Snapshot()
		case user == nil:
			// The token stays stored so the next Restore can retry.
			c.log.Warn().Err(err).Msg("profile unavailable, auth session not restored")
			return c.Snapshot()
		default:
			c.log.Warn().Err(err).Msg("profile revalidation failed, using cached profile")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Phase != domain.AuthIdle {
		return c.session.Clone()
	}
	c.generation++
	c.persistUserLocked(ctx, *user)
	c.transitionLocked(domain.AuthSession{Phase: domain.AuthAuthenticated, User: user})
	c.log.Info().Str("user_id", user.ID).Msg("auth session restored")
	return c.session.Clone()
}

// Close releases all subscribers.
func (c *AuthSessionController) Close() {
	c.subs.close()
}

func (c *AuthSessionController) cachedUser(ctx context.Context) *domain.User {
	raw, ok, err := c.store.Get(ctx, ports.KeyAuthUser)
	if err != nil || !ok {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		c.log.Warn().Err(err).Msg("cached profile unreadable")
		return nil
	}
	return &u
}

func (c *AuthSessionController) discard(ctx context.Context) {
	if err := c.store.Delete(ctx, ports.KeyAuthToken, ports.KeyAuthUser); err != nil {
		c.log.Warn().Err(err).Msg("clear persisted auth session")
	}
}

func (c *AuthSessionController) persistUserLocked(ctx context.Context, u domain.User) {
	b, err := json.Marshal(u)
	if err != nil {
		c.log.Warn().Err(err).Msg("encode profile")
		return
	}
	if err := c.store.Set(ctx, ports.KeyAuthUser, string(b)); err != nil {
		c.log.Warn().Err(err).Msg("persist profile")
	}
}

func (c *AuthSessionController) transitionLocked(next domain.AuthSession) bool {
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

	metrics.AuthTransitionsTotal.WithLabelValues(string(from), string(next.Phase)).Inc()
	c.subs.publish(next.Clone())

	rec := domain.TransitionRecord{
		Controller: domain.ControllerAuth,
		From:       string(from),
		To:         string(next.Phase),
		Reason:     next.Reason,
		At:         next.UpdatedAt,
	}
	if next.User != nil {
		rec.UserID = next.User.ID
		rec.Address = next.User.WalletAddress
	}
	recordTransition(c.audit, c.log, rec)
	return true
}

// tokenExpired reports whether token is a JWT whose exp claim is in the past.
// Opaque tokens are never considered expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
