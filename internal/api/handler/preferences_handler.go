package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// PreferencesService reads and writes the UI preferences.
type PreferencesService interface {
	Get(ctx context.Context) (domain.Preferences, error)
	Update(ctx context.Context, p domain.Preferences) (domain.Preferences, error)
}

type PreferencesHandler struct {
	prefs PreferencesService
}

func NewPreferencesHandler(prefs PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// Get returns theme and locale.
//
// @Summary      UI preferences
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  domain.Preferences
// @Router       /preferences [get]
func (h *PreferencesHandler) Get(c echo.Context) error {
	p, err := h.prefs.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Update stores the provided fields; omitted fields keep their value.
//
// @Summary      Update UI preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      preferencesRequest  true  "Theme and/or locale"
// @Success      200   {object}  domain.Preferences
// @Failure      422   {object}  errorResponse
// @Router       /preferences [put]
func (h *PreferencesHandler) Update(c echo.Context) error {
	var req preferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.prefs.Update(c.Request().Context(), domain.Preferences{
		Theme:  domain.Theme(req.Theme),
		Locale: domain.Locale(req.Locale),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
