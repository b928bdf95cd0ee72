package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/propdesk/property-service/internal/api/http"
	"github.com/propdesk/property-service/internal/api/http/handlers"
	"github.com/propdesk/property-service/internal/auth"
	"github.com/propdesk/property-service/internal/config"
	"github.com/propdesk/property-service/internal/events"
	"github.com/propdesk/property-service/internal/identity"
	"github.com/propdesk/property-service/internal/observability"
	"github.com/propdesk/property-service/internal/persistence"
	"github.com/propdesk/property-service/internal/repository"
	"github.com/propdesk/property-service/internal/service"
	"github.com/propdesk/property-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	// Constructed once here and injected everywhere; no package-level handle.
	identityClient := identity.NewClient(cfg.Identity, logger)
	if !identityClient.HasServiceKey() {
		logger.Warn("IDENTITY_SERVICE_ROLE_KEY not set; admin endpoints will fail with a configuration error")
	}

	profileRepo := repository.NewProfileRepository(pg.PoolHandle())
	roleCache := repository.NewRoleCache(redis.Handle(), cfg.Identity.CacheTTL())
	resolver := auth.NewRoleResolver(roleCache, profileRepo, logger)
	authMiddleware := auth.NewMiddleware(identityClient, resolver)

	dispatcher := events.NewAccountEventBus(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	adminService := service.NewAdminService(service.AdminDependencies{
		Identity:   identityClient,
		Profiles:   profileRepo,
		RoleCache:  roleCache,
		Dispatcher: dispatcher,
	}, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.IsProduction(),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:     logger,
		Metrics:    metrics,
		Timeout:    cfg.App.RequestTimeout(),
		Production: cfg.App.IsProduction(),
	})
	httptransport.RegisterSecurity(app, cfg.Security, persistence.NewRedisStorage(redis, "fiber:"))

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Session:        handlers.NewSessionHandler(),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
