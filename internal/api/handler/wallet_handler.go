package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/ports"
)

// WalletHandler exposes the wallet session controller.
type WalletHandler struct {
	wallet ports.WalletSessionService
}

func NewWalletHandler(wallet ports.WalletSessionService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// Session returns the current wallet session.
//
// @Summary      Wallet session snapshot
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  domain.Session
// @Router       /wallet/session [get]
func (h *WalletHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.wallet.Snapshot())
}

// Connect asks the wallet for account access and establishes a session.
// Concurrent calls share one wallet prompt.
//
// @Summary      Connect the wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  domain.Session
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Failure      504  {object}  errorResponse
// @Router       /wallet/connect [post]
func (h *WalletHandler) Connect(c echo.Context) error {
	s, err := h.wallet.Connect(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Disconnect clears the wallet session. It never fails.
//
// @Summary      Disconnect the wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  domain.Session
// @Router       /wallet/disconnect [post]
func (h *WalletHandler) Disconnect(c echo.Context) error {
	return c.JSON(http.StatusOK, h.wallet.Disconnect(c.Request().Context()))
}

// SwitchNetwork moves the wallet to another chain, adding it first if the
// wallet does not know it.
//
// @Summary      Switch network
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        body  body      switchNetworkRequest  true  "Target chain"
// @Success      200   {object}  switchNetworkResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /wallet/network [post]
func (h *WalletHandler) SwitchNetwork(c echo.Context) error {
	var req switchNetworkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	net, err := h.wallet.SwitchNetwork(c.Request().Context(), req.ChainID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, switchNetworkResponse{Network: net})
}

// Sign signs a message with the connected account.
//
// @Summary      Sign a message
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        body  body      signMessageRequest  true  "Message"
// @Success      200   {object}  signMessageResponse
// @Failure      409   {object}  errorResponse
// @Router       /wallet/sign [post]
func (h *WalletHandler) Sign(c echo.Context) error {
	var req signMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sig, err := h.wallet.SignMessage(c.Request().Context(), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, signMessageResponse{Signature: sig})
}

// EstimateGas estimates the gas of a native transfer from the connected account.
//
// @Summary      Estimate gas
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        body  body      estimateGasRequest  true  "Transfer"
// @Success      200   {object}  estimateGasResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /wallet/estimate-gas [post]
func (h *WalletHandler) EstimateGas(c echo.Context) error {
	var req estimateGasRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	gas, err := h.wallet.EstimateGas(c.Request().Context(), req.To, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, estimateGasResponse{Gas: gas})
}

// Events streams wallet session transitions as server-sent events.
//
// @Summary      Wallet session stream
// @Tags         wallet
// @Produce      text/event-stream
// @Router       /wallet/events [get]
func (h *WalletHandler) Events(c echo.Context) error {
	updates, cancel := h.wallet.Subscribe()
	defer cancel()
	return streamSSE(c, "session", h.wallet.Snapshot(), updates)
}
