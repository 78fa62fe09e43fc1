package ports

import (
	"context"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// AuthAPI is the backend surface used by the auth controller.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)
	Me(ctx context.Context) (*domain.User, error)
	WalletMessage(ctx context.Context) (string, error)
	ConnectWallet(ctx context.Context, address, signature, message string) (*domain.AuthResult, error)
}

// PaymentAPI is the backend surface used by the payment service.
type PaymentAPI interface {
	CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentIntent, error)
	PaymentHistory(ctx context.Context) ([]domain.Payment, error)
	UpdatePayment(ctx context.Context, paymentID, txHash string) (*domain.Payment, error)
	Balance(ctx context.Context) (string, error)
}
