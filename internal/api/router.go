package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/c2developers/creatorhub/internal/api/docs"
	"github.com/c2developers/creatorhub/internal/api/handler"
	"github.com/c2developers/creatorhub/internal/api/middleware"
	"github.com/c2developers/creatorhub/internal/core/ports"
	"github.com/c2developers/creatorhub/internal/core/service"
)

// Dependencies are the services the HTTP surface exposes.
type Dependencies struct {
	Wallet      ports.WalletSessionService
	Auth        ports.AuthSessionService
	Payments    ports.PaymentService
	Preferences handler.PreferencesService
	Networks    handler.NetworkLister
	Providers   handler.ProviderBinder
	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handler.Pinger

	// AuthRateLimit caps requests per second to /auth per client IP; zero disables it.
	AuthRateLimit float64
	Logger        zerolog.Logger

	// Registerer and Gatherer default to the process-wide Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "creatorhub",
		Subsystem:  "http",
		Registerer: deps.Registerer,
	}))

	requireSession := middleware.Auth(deps.Auth)

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Wallet ---
	walletHandler := handler.NewWalletHandler(deps.Wallet)
	providerHandler := handler.NewProviderHandler(deps.Providers)

	wallet := e.Group("/wallet")
	wallet.GET("/session", walletHandler.Session)
	wallet.GET("/events", walletHandler.Events)
	wallet.POST("/connect", walletHandler.Connect)
	wallet.POST("/disconnect", walletHandler.Disconnect)
	wallet.POST("/network", walletHandler.SwitchNetwork)
	wallet.POST("/sign", walletHandler.Sign)
	wallet.POST("/estimate-gas", walletHandler.EstimateGas)
	wallet.GET("/providers", providerHandler.List)
	wallet.PUT("/providers/:name", providerHandler.Bind)
	wallet.DELETE("/providers/:name", providerHandler.Unbind)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth)

	auth := e.Group("/auth")
	if deps.AuthRateLimit > 0 {
		auth.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStoreWithConfig(
			echomiddleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(deps.AuthRateLimit),
				Burst: int(deps.AuthRateLimit) + 1,
			},
		)))
	}
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/wallet", authHandler.LoginWithWallet)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)
	auth.GET("/events", authHandler.Events)
	auth.GET("/user", authHandler.User, requireSession)
	auth.PATCH("/user", authHandler.UpdateUser, requireSession)

	// --- Catalogues ---
	catalogHandler := handler.NewCatalogHandler(deps.Networks)
	e.GET("/networks", catalogHandler.Networks)

	views := e.Group("/views", requireSession)
	views.GET("", catalogHandler.Views)
	for _, v := range service.DashboardViews {
		views.GET("/"+v.ID, catalogHandler.View(v), middleware.RBAC(v.Roles...))
	}

	// --- Preferences ---
	prefsHandler := handler.NewPreferencesHandler(deps.Preferences)
	e.GET("/preferences", prefsHandler.Get)
	e.PUT("/preferences", prefsHandler.Update)

	// --- Payments ---
	paymentHandler := handler.NewPaymentHandler(deps.Payments)

	payments := e.Group("/payments", requireSession)
	payments.POST("", paymentHandler.Create)
	payments.GET("/history", paymentHandler.History)
	payments.GET("/balance", paymentHandler.Balance)
	payments.PUT("/:id", paymentHandler.Update)

	return e
}
