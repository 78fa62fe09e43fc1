package ports

import (
	"context"
	"encoding/json"
)

// EventKind names a provider notification.
type EventKind string

const (
	EventAccountsChanged EventKind = "accountsChanged"
	EventChainChanged    EventKind = "chainChanged"
)

// ProviderEvent is a notification raised by a wallet provider.
type ProviderEvent struct {
	Kind     EventKind
	Accounts []string // accountsChanged only
	ChainID  int64    // chainChanged only

	// Generation is stamped by the wallet controller with the connection the
	// listener was registered for; stale events are discarded.
	Generation uint64
}

// Listener receives provider notifications.
type Listener func(ProviderEvent)

// Subscription releases a listener registration. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Provider is the wallet gateway the session controllers talk to.
type Provider interface {
	Name() string
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	On(kind EventKind, listener Listener) Subscription
}

// ProviderLocator finds the provider to use for a connect attempt.
type ProviderLocator interface {
	Locate() (Provider, error)
}

// ProviderEventHandler applies provider events to session state.
type ProviderEventHandler interface {
	HandleProviderEvent(ctx context.Context, event ProviderEvent) error
}

// EventQueue serialises provider events towards a ProviderEventHandler.
type EventQueue interface {
	Enqueue(event ProviderEvent)
}
