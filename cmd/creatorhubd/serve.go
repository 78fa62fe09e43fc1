package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/c2developers/creatorhub/internal/api"
	"github.com/c2developers/creatorhub/internal/api/handler"
	"github.com/c2developers/creatorhub/internal/core/ports"
	"github.com/c2developers/creatorhub/internal/core/service"
	"github.com/c2developers/creatorhub/internal/infrastructure/apiclient"
	infraconfig "github.com/c2developers/creatorhub/internal/infrastructure/config"
	"github.com/c2developers/creatorhub/internal/infrastructure/db/memory"
	"github.com/c2developers/creatorhub/internal/infrastructure/db/mongo"
	"github.com/c2developers/creatorhub/internal/infrastructure/db/redis"
	"github.com/c2developers/creatorhub/internal/infrastructure/db/sqlite"
	infrahttp "github.com/c2developers/creatorhub/internal/infrastructure/http"
	"github.com/c2developers/creatorhub/internal/infrastructure/provider"
	"github.com/c2developers/creatorhub/internal/infrastructure/queue"
	"github.com/c2developers/creatorhub/internal/pkg/config"
	"github.com/c2developers/creatorhub/pkg/logger"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		Long:  `The serve command restores the persisted sessions and serves the wallet, auth and payment API until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.Pretty(),
				Service: "creatorhubd",
				Env:     cfg.Env,
			})
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(map[string]handler.Pinger)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	ready["store"] = store

	var audit ports.AuditRepository = service.NopAudit{}
	if cfg.Mongo.URI != "" {
		conn, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close(context.Background()) }()

		repo := mongo.NewAuditRepository(conn.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		audit = repo
		ready["mongo"] = conn
	}

	overlay, err := infraconfig.LoadNetworks(cfg.NetworksFile)
	if err != nil {
		return err
	}
	registry := service.NewNetworkRegistry(overlay...)

	host := provider.NewHost(log,
		provider.WithPollInterval(cfg.Provider.PollInterval),
		provider.WithLogger(logger.Component("provider")),
	)
	defer host.Close()
	if err := bindProviders(host, cfg.Provider); err != nil {
		return err
	}

	wallet := service.NewWalletSessionController(
		provider.NewLocator(host), store, registry, audit, log,
		service.WalletOptions{ProviderTimeout: cfg.Provider.Timeout},
	)
	defer wallet.Close()

	events := queue.NewDispatcher(wallet, log)
	events.Start(ctx)
	wallet.UseEventQueue(events)

	backend := apiclient.New(cfg.API.BaseURL, store,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(logger.Component("apiclient")),
	)
	auth := service.NewAuthSessionController(backend, store, wallet, audit, log,
		service.AuthOptions{ValidateOnStartup: cfg.Auth.ValidateOnStartup},
	)
	defer auth.Close()
	backend.OnUnauthorized(func(ctx context.Context) {
		auth.ForceLogout(ctx, "token rejected by backend")
	})

	restored := auth.Restore(ctx)
	log.Info().Str("phase", string(restored.Phase)).Msg("auth session restored")
	go func() {
		s := wallet.Restore(ctx)
		log.Info().Str("phase", string(s.Phase)).Msg("wallet session restored")
	}()

	router := api.NewRouter(api.Dependencies{
		Wallet:        wallet,
		Auth:          auth,
		Payments:      service.NewPaymentService(backend, wallet, log),
		Preferences:   service.NewPreferencesService(store),
		Networks:      registry,
		Providers:     host,
		Ready:         ready,
		AuthRateLimit: cfg.Auth.RateLimit,
		Logger:        log,
	})

	err = infrahttp.NewServer(":"+cfg.Port, router, log).Run(ctx, shutdownGrace)
	cancel()
	<-events.Done()
	return err
}

func openStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewStore(), func() {}, nil
	case config.StorageRedis:
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSessionStore(client, cfg.Storage.Namespace), func() { _ = client.Close() }, nil
	case config.StorageSQLite:
		s, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func bindProviders(host *provider.Host, cfg config.ProviderConfig) error {
	if cfg.PrimaryURL != "" {
		if err := host.Bind(provider.BindingAvalanche, cfg.PrimaryURL); err != nil {
			return fmt.Errorf("bind primary provider: %w", err)
		}
	}
	if cfg.SecondaryURL != "" {
		if err := host.Bind(provider.BindingEthereum, cfg.SecondaryURL); err != nil {
			return fmt.Errorf("bind secondary provider: %w", err)
		}
	}
	return nil
}
