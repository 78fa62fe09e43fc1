package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

// PaymentService prepares payments with the backend and settles them through the wallet.
type PaymentService struct {
	api    ports.PaymentAPI
	wallet ports.TransactionSender
	log    zerolog.Logger
}

func NewPaymentService(api ports.PaymentAPI, wallet ports.TransactionSender, log zerolog.Logger) *PaymentService {
	return &PaymentService{api: api, wallet: wallet, log: log.With().Str("component", "payments").Logger()}
}

func (s *PaymentService) CreateDonation(ctx context.Context, toUserID, amount string) (*domain.PaymentIntent, error) {
	return s.create(ctx, domain.PaymentRequest{Type: domain.PaymentDonation, ToUserID: toUserID, Amount: amount})
}

func (s *PaymentService) CreateProjectPurchase(ctx context.Context, projectID, amount string) (*domain.PaymentIntent, error) {
	return s.create(ctx, domain.PaymentRequest{Type: domain.PaymentProjectPurchase, ProjectID: projectID, Amount: amount})
}

func (s *PaymentService) History(ctx context.Context) ([]domain.Payment, error) {
	payments, err := s.api.PaymentHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) UpdateStatus(ctx context.Context, paymentID, txHash string) (*domain.Payment, error) {
	p, err := s.api.UpdatePayment(ctx, paymentID, txHash)
	if err != nil {
		return nil, fmt.Errorf("update payment %s: %w", paymentID, err)
	}
	return p, nil
}

// Balance returns the backend's view of the user's balance, independent of
// the connected wallet.
func (s *PaymentService) Balance(ctx context.Context) (string, error) {
	b, err := s.api.Balance(ctx)
	if err != nil {
		return "", fmt.Errorf("account balance: %w", err)
	}
	return b, nil
}

// Complete creates the payment, sends its transaction through the wallet,
// waits for the receipt and reports the hash back to the backend.
func (s *PaymentService) Complete(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, error) {
	intent, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}

	hash, err := s.wallet.SendTransaction(ctx, intent.Transaction)
	if err != nil {
		return nil, fmt.Errorf("complete payment %s: %w", intent.Payment.ID, err)
	}
	receipt, err := s.wallet.WaitForReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("complete payment %s: %w", intent.Payment.ID, err)
	}
	if !receipt.Success {
		s.log.Warn().Str("payment_id", intent.Payment.ID).Str("tx_hash", hash).Msg("payment transaction reverted")
		return nil, fmt.Errorf("complete payment %s: transaction %s reverted", intent.Payment.ID, hash)
	}

	p, err := s.UpdateStatus(ctx, intent.Payment.ID, hash)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("payment_id", intent.Payment.ID).
		Str("tx_hash", hash).
		Uint64("block", receipt.BlockNumber).
		Msg("payment completed")
	return p, nil
}

func (s *PaymentService) create(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentIntent, error) {
	if _, err := ParseEther(req.Amount); err != nil {
		return nil, fmt.Errorf("create payment: %w: %v", domain.ErrValidation, err)
	}
	intent, err := s.api.CreatePayment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return intent, nil
}
