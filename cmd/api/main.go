// @title        Storefront back-office auth API
// @version      1.0
// @description  Credential issuance, login and role-based access for the storefront back office.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storefront/backoffice/internal/api"
	"github.com/storefront/backoffice/internal/api/handler"
	"github.com/storefront/backoffice/internal/core/guard"
	"github.com/storefront/backoffice/internal/core/policy"
	"github.com/storefront/backoffice/internal/core/service"
	"github.com/storefront/backoffice/internal/infrastructure/config"
	mongodb "github.com/storefront/backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/backoffice/internal/infrastructure/db/redis"
	"github.com/storefront/backoffice/internal/infrastructure/queue"
	"github.com/storefront/backoffice/internal/infrastructure/security"
	"github.com/storefront/backoffice/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "backoffice-auth",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongodb")
	}
	if err := mongodb.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	staffCaps, err := cfg.StaffCapabilities()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid staff capabilities")
	}
	routeGuard := guard.New(policy.New(staffCaps), nil)

	// --- Audit trail ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// --- Identity and sessions ---
	identityRepo := mongodb.NewIdentityRepository(db)
	sessions := redisdb.NewSessionStore(redisClient)
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	identityService := service.NewIdentityService(identityRepo, sessions, hasher, dispatcher, logger.Component("identity"))
	authService, err := service.NewAuthService(
		identityRepo, sessions, hasher, dispatcher, logger.Component("auth"),
		cfg.Auth.JWTSecret, cfg.Auth.SessionTTL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build auth service")
	}

	if _, err := service.SeedAdmin(ctx, identityRepo, identityService, cfg.Bootstrap.Username, cfg.Bootstrap.Password, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed bootstrap administrator")
	}

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Identity: identityService,
		Guard:    routeGuard,
		Health: map[string]handler.HealthCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Log: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")
	shutdown(log, e, dispatcher, stopWorkers, mongoClient, redisClient)
}

func shutdown(log zerolog.Logger, e *echo.Echo, dispatcher *queue.Dispatcher, stopWorkers context.CancelFunc, mongoClient *mongo.Client, redisClient *redis.Client) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if err := e.Close(); err != nil {
			log.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	// Requests are done; let the workers flush what is queued.
	stopWorkers()
	dispatcher.Wait()

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect error")
	}
	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}

	log.Info().Msg("server exited cleanly")
}
