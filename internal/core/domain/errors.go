package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoProviderFound    = errors.New("no wallet provider found")
	ErrUserRejected       = errors.New("request rejected by user")
	ErrNoAccounts         = errors.New("provider returned no accounts")
	ErrProviderTimeout    = errors.New("provider request timed out")
	ErrProviderFailure    = errors.New("provider request failed")
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrAPIUnauthorized    = errors.New("api request unauthorized")
	ErrAPIFailure         = errors.New("api request failed")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidPhase       = errors.New("operation not allowed in current phase")
	ErrBusy               = errors.New("operation already in progress")
	ErrSessionReset       = errors.New("session was reset while the operation was in flight")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrRegistrationFailed = errors.New("Registration failed")
	ErrWalletLoginFailed  = errors.New("Wallet authentication failed")
	ErrBindingNotFound    = errors.New("provider binding not found")
)

// Reason classifies why a session operation failed.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoProviderFound  Reason = "no_provider_found"
	ReasonUserRejected     Reason = "user_rejected"
	ReasonNoAccounts       Reason = "no_accounts"
	ReasonProviderTimeout  Reason = "provider_timeout"
	ReasonProviderFailure  Reason = "provider_failure"
	ReasonUnsupported      Reason = "unsupported_network"
	ReasonAPIUnauthorized  Reason = "api_unauthorized"
	ReasonAPIFailure       Reason = "api_failure"
	ReasonValidation       Reason = "validation_failure"
	ReasonInvalidPhase     Reason = "invalid_phase"
	ReasonBusy             Reason = "busy"
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonAuthFailed       Reason = "auth_failed"
)

// ReasonOf maps an error onto the failure taxonomy. Errors that match no
// sentinel are reported as provider failures.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrNoProviderFound):
		return ReasonNoProviderFound
	case errors.Is(err, ErrUserRejected):
		return ReasonUserRejected
	case errors.Is(err, ErrNoAccounts):
		return ReasonNoAccounts
	case errors.Is(err, ErrProviderTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonProviderTimeout
	case errors.Is(err, ErrUnsupportedNetwork):
		return ReasonUnsupported
	case errors.Is(err, ErrAPIUnauthorized):
		return ReasonAPIUnauthorized
	case errors.Is(err, ErrAPIFailure):
		return ReasonAPIFailure
	case errors.Is(err, ErrValidation):
		return ReasonValidation
	case errors.Is(err, ErrInvalidPhase):
		return ReasonInvalidPhase
	case errors.Is(err, ErrBusy):
		return ReasonBusy
	case errors.Is(err, ErrNotAuthenticated):
		return ReasonNotAuthenticated
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrRegistrationFailed), errors.Is(err, ErrWalletLoginFailed):
		return ReasonAuthFailed
	default:
		return ReasonProviderFailure
	}
}

// EIP-1193 provider error codes.
const (
	ProviderCodeUserRejected      = 4001
	ProviderCodeUnauthorized      = 4100
	ProviderCodeUnsupportedMethod = 4200
	ProviderCodeDisconnected      = 4900
	ProviderCodeChainDisconnected = 4901
	ProviderCodeUnrecognizedChain = 4902
)

// ProviderError is an error object returned by a wallet provider.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Is lets errors.Is match a provider rejection against ErrUserRejected.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrUserRejected:
		return e.Code == ProviderCodeUserRejected
	case ErrProviderFailure:
		return e.Code != ProviderCodeUserRejected
	}
	return false
}
