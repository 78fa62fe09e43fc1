package ports

import (
	"context"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// AuthSessionService is the auth session controller as used by the transport layer.
type AuthSessionService interface {
	Snapshot() domain.AuthSession
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthSession, error)
	Register(ctx context.Context, reg domain.Registration) (domain.AuthSession, error)
	LoginWithWallet(ctx context.Context) (domain.AuthSession, error)
	Logout(ctx context.Context) domain.AuthSession
	UpdateUser(ctx context.Context, patch domain.UserPatch) (domain.User, error)
	Subscribe() (<-chan domain.AuthSession, func())
}

// PaymentService prepares and settles payments.
type PaymentService interface {
	CreateDonation(ctx context.Context, toUserID, amount string) (*domain.PaymentIntent, error)
	CreateProjectPurchase(ctx context.Context, projectID, amount string) (*domain.PaymentIntent, error)
	History(ctx context.Context) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, paymentID, txHash string) (*domain.Payment, error)
	Balance(ctx context.Context) (string, error)
	Complete(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, error)
}
