package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

type PaymentHandler struct {
	payments ports.PaymentService
}

func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create prepares a donation or project purchase. With settle=true the
// transaction is sent through the connected wallet and the payment is
// returned completed.
//
// @Summary      Create a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      createPaymentRequest  true  "Payment"
// @Success      201   {object}  domain.PaymentIntent
// @Success      200   {object}  domain.Payment
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if req.Settle {
		p, err := h.payments.Complete(ctx, req.paymentRequest())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}

	var (
		intent *domain.PaymentIntent
		err    error
	)
	switch domain.PaymentType(req.Type) {
	case domain.PaymentProjectPurchase:
		intent, err = h.payments.CreateProjectPurchase(ctx, req.ProjectID, req.Amount)
	default:
		intent, err = h.payments.CreateDonation(ctx, req.ToUserID, req.Amount)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, intent)
}

// History lists the signed-in user's payments.
//
// @Summary      Payment history
// @Tags         payments
// @Produce      json
// @Success      200  {object}  paymentHistoryResponse
// @Failure      401  {object}  errorResponse
// @Router       /payments/history [get]
func (h *PaymentHandler) History(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}
	payments, err := h.payments.History(c.Request().Context())
	if err != nil {
		return err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return c.JSON(http.StatusOK, paymentHistoryResponse{Payments: payments})
}

// Balance returns the account balance held by the backend.
//
// @Summary      Account balance
// @Tags         payments
// @Produce      json
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /payments/balance [get]
func (h *PaymentHandler) Balance(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}
	b, err := h.payments.Balance(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{Balance: b})
}

// Update marks a payment completed with its transaction hash.
//
// @Summary      Complete a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Payment ID"
// @Param        body  body      updatePaymentRequest  true  "Settling transaction"
// @Success      200   {object}  domain.Payment
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Update(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}
	var req updatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.payments.UpdateStatus(c.Request().Context(), c.Param("id"), req.TransactionHash)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
