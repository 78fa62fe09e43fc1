package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string        `json:"error"`
	Reason domain.Reason `json:"reason,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes and failure reason.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	if code, msg, ok := domainStatus(err); ok {
		return code, errorResponse{Error: msg, Reason: domain.ReasonOf(err)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// domainStatus maps known domain errors onto deterministic HTTP codes. The
// order matters: credential failures wrap the API errors that caused them.
func domainStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error(), true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error(), true
	case errors.Is(err, domain.ErrWalletLoginFailed):
		return http.StatusUnauthorized, domain.ErrWalletLoginFailed.Error(), true
	case errors.Is(err, domain.ErrRegistrationFailed):
		return http.StatusBadRequest, domain.ErrRegistrationFailed.Error(), true
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrAPIUnauthorized):
		return http.StatusUnauthorized, "not authenticated", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrUserRejected):
		return http.StatusForbidden, domain.ErrUserRejected.Error(), true
	case errors.Is(err, domain.ErrBindingNotFound):
		return http.StatusNotFound, domain.ErrBindingNotFound.Error(), true
	case errors.Is(err, domain.ErrBusy),
		errors.Is(err, domain.ErrInvalidPhase),
		errors.Is(err, domain.ErrSessionReset),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, domain.ErrUnsupportedNetwork), errors.Is(err, domain.ErrNoAccounts):
		return http.StatusUnprocessableEntity, err.Error(), true
	case errors.Is(err, domain.ErrNoProviderFound):
		return http.StatusServiceUnavailable, domain.ErrNoProviderFound.Error(), true
	case errors.Is(err, domain.ErrProviderTimeout):
		return http.StatusGatewayTimeout, domain.ErrProviderTimeout.Error(), true
	case errors.Is(err, domain.ErrProviderFailure), errors.Is(err, domain.ErrAPIFailure):
		return http.StatusBadGateway, err.Error(), true
	}
	return 0, "", false
}
