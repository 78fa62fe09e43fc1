package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

type stubWallet struct {
	session  domain.Session
	connect  func(ctx context.Context) (domain.Session, error)
	switchFn func(ctx context.Context, chainID int64) (domain.Network, error)
	signFn   func(ctx context.Context, msg string) (string, error)
	gasFn    func(ctx context.Context, to, amount string) (string, error)
	updates  chan domain.Session
}

func (s *stubWallet) Snapshot() domain.Session { return s.session }

func (s *stubWallet) Connect(ctx context.Context) (domain.Session, error) { return s.connect(ctx) }

func (s *stubWallet) Disconnect(context.Context) domain.Session {
	return domain.Session{Phase: domain.PhaseIdle}
}

func (s *stubWallet) SwitchNetwork(ctx context.Context, chainID int64) (domain.Network, error) {
	return s.switchFn(ctx, chainID)
}

func (s *stubWallet) SignMessage(ctx context.Context, msg string) (string, error) {
	return s.signFn(ctx, msg)
}

func (s *stubWallet) EstimateGas(ctx context.Context, to, amount string) (string, error) {
	return s.gasFn(ctx, to, amount)
}

func (s *stubWallet) Subscribe() (<-chan domain.Session, func()) {
	return s.updates, func() {}
}

type stubAuth struct {
	session    domain.AuthSession
	loginFn    func(ctx context.Context, creds domain.Credentials) (domain.AuthSession, error)
	registerFn func(ctx context.Context, reg domain.Registration) (domain.AuthSession, error)
	updateFn   func(ctx context.Context, patch domain.UserPatch) (domain.User, error)
}

func (s *stubAuth) Snapshot() domain.AuthSession { return s.session }

func (s *stubAuth) Login(ctx context.Context, creds domain.Credentials) (domain.AuthSession, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubAuth) Register(ctx context.Context, reg domain.Registration) (domain.AuthSession, error) {
	return s.registerFn(ctx, reg)
}

func (s *stubAuth) LoginWithWallet(context.Context) (domain.AuthSession, error) {
	return domain.AuthSession{}, domain.ErrWalletLoginFailed
}

func (s *stubAuth) Logout(context.Context) domain.AuthSession {
	return domain.AuthSession{Phase: domain.AuthIdle}
}

func (s *stubAuth) UpdateUser(ctx context.Context, patch domain.UserPatch) (domain.User, error) {
	return s.updateFn(ctx, patch)
}

func (s *stubAuth) Subscribe() (<-chan domain.AuthSession, func()) {
	ch := make(chan domain.AuthSession)
	close(ch)
	return ch, func() {}
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

