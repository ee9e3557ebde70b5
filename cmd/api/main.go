// @title        Parts Inventory API
// @version      1.0
// @description  Authentication and user administration for the parts inventory backend.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/parts-inventory/internal/api"
	"github.com/99minutos/parts-inventory/internal/api/handler"
	"github.com/99minutos/parts-inventory/internal/core/domain"
	"github.com/99minutos/parts-inventory/internal/core/ports"
	"github.com/99minutos/parts-inventory/internal/core/service"
	mongodb "github.com/99minutos/parts-inventory/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/parts-inventory/internal/infrastructure/db/redis"
	"github.com/99minutos/parts-inventory/internal/pkg/config"
	"github.com/99minutos/parts-inventory/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "parts-inventory",
	})

	if cfg.TestMode && cfg.IsProduction() {
		log.Warn().Msg("TEST_MODE is ignored in production")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient, shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	codec := service.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, logger.Component("token"))
	authn := service.NewAuthenticator(codec, service.NewIdentityResolver(users), logger.Component("authn"))
	authService := service.NewAuthService(users, codec, authn, logger.Component("auth"))

	if cfg.Bootstrap.Email != "" {
		bootstrapAdmin(ctx, authService, cfg.Bootstrap)
	}

	guard := redisdb.NewRateGuard(rdb, map[ports.RateFamily]redisdb.RateLimit{
		ports.RateFamilyLogin:   {Limit: cfg.Rate.LoginLimit, Window: cfg.Rate.LoginWindow},
		ports.RateFamilyRefresh: {Limit: cfg.Rate.RefreshLimit, Window: cfg.Rate.RefreshWindow},
	})

	e := api.NewRouter(api.Deps{
		AuthService:     authService,
		Authenticator:   authn,
		RateGuard:       guard,
		RateGuardBypass: cfg.RateGuardBypassed(),
		TrustProxy:      cfg.TrustProxy,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Log: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Bool("rate_guard_bypassed", cfg.RateGuardBypassed()).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func bootstrapAdmin(ctx context.Context, svc ports.AuthService, bc config.BootstrapConfig) {
	log := logger.Component("bootstrap")
	_, err := svc.CreateUser(ctx, ports.CreateUserInput{
		Email:       bc.Email,
		DisplayName: "Administrator",
		Password:    bc.Password,
		Role:        domain.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		log.Debug().Msg("bootstrap admin already present")
	case err != nil:
		log.Fatal().Err(err).Msg("failed to create bootstrap admin")
	default:
		log.Info().Msg("bootstrap admin created")
	}
}
