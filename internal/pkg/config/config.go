package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	API      APIConfig
	Provider ProviderConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Auth     AuthConfig

	// NetworksFile is an optional YAML overlay for the network registry.
	NetworksFile string `env:"NETWORKS_FILE"`
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:3001/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=30s"`
}

type ProviderConfig struct {
	PrimaryURL   string        `env:"PROVIDER_PRIMARY_URL"`
	SecondaryURL string        `env:"PROVIDER_SECONDARY_URL"`
	Timeout      time.Duration `env:"PROVIDER_TIMEOUT,       default=60s"`
	PollInterval time.Duration `env:"PROVIDER_POLL_INTERVAL, default=2s"`
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER,    default=memory"`
	Namespace  string `env:"STORAGE_NAMESPACE, default=default"`
	SQLitePath string `env:"SQLITE_PATH,       default=creatorhub.db"`
}

type MongoConfig struct {
	// URI is optional; without it the audit trail is disabled.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=creatorhub"`
}

type RedisConfig struct {
	// Addr accepts host:port or a redis:// URL.
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuthConfig struct {
	// RateLimit is the number of /auth requests per second allowed per client.
	RateLimit         float64 `env:"AUTH_RATE_LIMIT,          default=5"`
	ValidateOnStartup bool    `env:"AUTH_VALIDATE_ON_STARTUP, default=false"`
}

// NetworkSettings is the part of the environment read by commands that only
// inspect the network registry.
type NetworkSettings struct {
	File string `env:"NETWORKS_FILE"`
}

// LoadNetworkSettings reads NetworkSettings without validating the rest of Config.
func LoadNetworkSettings(ctx context.Context) (*NetworkSettings, error) {
	return loadNetworkSettings(ctx, envconfig.OsLookuper())
}

func loadNetworkSettings(ctx context.Context, lookuper envconfig.Lookuper) (*NetworkSettings, error) {
	var s NetworkSettings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &s, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load network settings: %w", err)
	}
	return &s, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageRedis, StorageSQLite:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("config: PROVIDER_TIMEOUT must be positive")
	}
	if c.Auth.RateLimit < 0 {
		return fmt.Errorf("config: AUTH_RATE_LIMIT must not be negative")
	}
	return nil
}

// Pretty reports whether logs should be human-readable.
func (c *Config) Pretty() bool {
	return c.LogPretty || c.Env == "development"
}
