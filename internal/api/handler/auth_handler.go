package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/ports"
)

type AuthHandler struct {
	auth ports.AuthSessionService
}

func NewAuthHandler(auth ports.AuthSessionService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates an account and signs it in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  domain.AuthSession
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.auth.Register(c.Request().Context(), req.registration())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

// Login authenticates with email (or wallet address) and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.AuthSession
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.auth.Login(c.Request().Context(), req.credentials())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// LoginWithWallet signs the backend's challenge with the connected wallet.
//
// @Summary      Login with the connected wallet
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.AuthSession
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /auth/wallet [post]
func (h *AuthHandler) LoginWithWallet(c echo.Context) error {
	s, err := h.auth.LoginWithWallet(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Logout clears the auth session. It never fails.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.AuthSession
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.auth.Logout(c.Request().Context()))
}

// Session returns the current auth session.
//
// @Summary      Auth session snapshot
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.AuthSession
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.auth.Snapshot())
}

// User returns the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /auth/user [get]
func (h *AuthHandler) User(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateUser merges a partial profile into the signed-in user.
//
// @Summary      Update current user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateUserRequest  true  "Profile fields to change"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/user [patch]
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.auth.UpdateUser(c.Request().Context(), req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Events streams auth session transitions as server-sent events.
//
// @Summary      Auth session stream
// @Tags         auth
// @Produce      text/event-stream
// @Router       /auth/events [get]
func (h *AuthHandler) Events(c echo.Context) error {
	updates, cancel := h.auth.Subscribe()
	defer cancel()
	return streamSSE(c, "session", h.auth.Snapshot(), updates)
}
