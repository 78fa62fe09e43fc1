package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", "/auth/register", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile of the token holder.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WalletMessage fetches the challenge a wallet signs to log in.
func (c *Client) WalletMessage(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/wallet-message", "/auth/wallet-message", nil, &out); err != nil {
		return "", err
	}
	if out.Message == "" {
		return "", errors.Join(domain.ErrAPIFailure, errors.New("empty wallet message"))
	}
	return out.Message, nil
}

type connectWalletRequest struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

func (c *Client) ConnectWallet(ctx context.Context, address, signature, message string) (*domain.AuthResult, error) {
	var out domain.AuthResult
	in := connectWalletRequest{WalletAddress: address, Signature: signature, Message: message}
	if err := c.do(ctx, http.MethodPost, "/auth/connect-wallet", "/auth/connect-wallet", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
