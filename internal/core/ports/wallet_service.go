package ports

import (
	"context"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// WalletSessionService is the wallet session controller as used by the transport layer.
type WalletSessionService interface {
	Snapshot() domain.Session
	Connect(ctx context.Context) (domain.Session, error)
	Disconnect(ctx context.Context) domain.Session
	SwitchNetwork(ctx context.Context, chainID int64) (domain.Network, error)
	SignMessage(ctx context.Context, message string) (string, error)
	EstimateGas(ctx context.Context, to, amount string) (string, error)
	Subscribe() (<-chan domain.Session, func())
}

// MessageSigner signs a message with the connected wallet account.
type MessageSigner interface {
	Snapshot() domain.Session
	SignMessage(ctx context.Context, message string) (string, error)
}

// TransactionSender submits transactions through the connected wallet.
type TransactionSender interface {
	SendTransaction(ctx context.Context, tx domain.Transaction) (string, error)
	WaitForReceipt(ctx context.Context, txHash string) (*domain.Receipt, error)
}
