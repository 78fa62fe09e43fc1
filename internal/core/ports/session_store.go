package ports

import "context"

// Keys of the session store. The wallet keys are written only by the wallet controller.
const (
	KeyAuthToken       = "auth_token"
	KeyAuthUser        = "auth_user"
	KeyWalletConnected = "wallet_connected"
	KeyWalletAddress   = "wallet_address"
	KeyWalletNetwork   = "wallet_network"
	KeyTheme           = "theme"
	KeyLocale          = "i18nextLng"
)

// SessionStore is the durable string key-value store that survives restarts.
type SessionStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
