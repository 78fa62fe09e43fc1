package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProviderBinder installs wallet provider bindings at runtime.
type ProviderBinder interface {
	Bind(name, endpoint string) error
	Unregister(name string)
	Names() []string
}

// ProviderHandler lets a wallet bridge announce itself after startup.
type ProviderHandler struct {
	binder ProviderBinder
}

func NewProviderHandler(binder ProviderBinder) *ProviderHandler {
	return &ProviderHandler{binder: binder}
}

// List returns the registered binding names.
//
// @Summary      List provider bindings
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  bindingsResponse
// @Router       /wallet/providers [get]
func (h *ProviderHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, bindingsResponse{Bindings: h.binder.Names()})
}

// Bind registers (or replaces) the provider under :name.
//
// @Summary      Register a provider binding
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        name  path      string               true  "Binding name (avalanche, ethereum)"
// @Param        body  body      bindProviderRequest  true  "JSON-RPC endpoint"
// @Success      200   {object}  bindingsResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /wallet/providers/{name} [put]
func (h *ProviderHandler) Bind(c echo.Context) error {
	var req bindProviderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.binder.Bind(c.Param("name"), req.URL); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bindingsResponse{Bindings: h.binder.Names()})
}

// Unbind removes the provider under :name.
//
// @Summary      Remove a provider binding
// @Tags         wallet
// @Param        name  path  string  true  "Binding name"
// @Success      204
// @Router       /wallet/providers/{name} [delete]
func (h *ProviderHandler) Unbind(c echo.Context) error {
	h.binder.Unregister(c.Param("name"))
	return c.NoContent(http.StatusNoContent)
}
