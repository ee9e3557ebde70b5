package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/parts-inventory/docs"
	"github.com/99minutos/parts-inventory/internal/api/handler"
	"github.com/99minutos/parts-inventory/internal/api/middleware"
	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
)

const metricsSubsystem = "inventory"

// Deps is everything the router needs. Connections are owned by the caller.
type Deps struct {
	AuthService   ports.AuthService
	Authenticator ports.Authenticator
	RateGuard     ports.RateGuard
	// RateGuardBypass switches throttling off. Callers must never set it in
	// production.
	RateGuardBypass bool
	// TrustProxy takes the client IP from X-Forwarded-For instead of the
	// socket address.
	TrustProxy bool
	// Checks feed the readiness probe, keyed by dependency name.
	Checks map[string]handler.DependencyCheck
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	if d.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	adminHandler := handler.NewAdminHandler(d.AuthService)
	requireAuth := middleware.Auth(d.Authenticator)
	rateOpts := middleware.RateGuardOptions{Bypass: d.RateGuardBypass, Log: d.Log}

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login, middleware.RateGuard(d.RateGuard, ports.RateFamilyLogin, rateOpts))
	e.POST("/auth/refresh", authHandler.Refresh, middleware.RateGuard(d.RateGuard, ports.RateFamilyRefresh, rateOpts))

	account := e.Group("/auth", requireAuth)
	account.GET("/me", authHandler.Me)
	account.PUT("/password", authHandler.ChangePassword)

	// --- Admin routes ---
	admin := e.Group("/admin", requireAuth)
	admin.POST("/users", adminHandler.CreateUser, middleware.RequireRoles(domain.RoleAdmin))
	admin.PATCH("/users/:id/status", adminHandler.SetStatus, middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("/users/:id", adminHandler.GetUser, middleware.RequireRoles(domain.RoleAdmin, domain.RoleSales))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
