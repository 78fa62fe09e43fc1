package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

func (c *Client) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentIntent, error) {
	var out domain.PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/web3/payments", "/web3/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentHistory(ctx context.Context) ([]domain.Payment, error) {
	var out struct {
		Payments []domain.Payment `json:"payments"`
	}
	if err := c.do(ctx, http.MethodGet, "/web3/payments/history", "/web3/payments/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Payments, nil
}

// Balance returns the account balance the backend holds for the signed-in user.
func (c *Client) Balance(ctx context.Context) (string, error) {
	var out struct {
		Balance string `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/web3/balance", "/web3/balance", nil, &out); err != nil {
		return "", err
	}
	return out.Balance, nil
}

type updatePaymentRequest struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
}

// UpdatePayment marks a payment completed with the hash of its settling transaction.
func (c *Client) UpdatePayment(ctx context.Context, paymentID, txHash string) (*domain.Payment, error) {
	var out struct {
		Payment domain.Payment `json:"payment"`
	}
	in := updatePaymentRequest{TransactionHash: txHash, Status: domain.PaymentStatusCompleted}
	path := "/web3/payments/" + url.PathEscape(paymentID)
	if err := c.do(ctx, http.MethodPut, path, "/web3/payments/:id", in, &out); err != nil {
		return nil, err
	}
	return &out.Payment, nil
}
