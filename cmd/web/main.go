package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sport-analytics/internal/api/http"
	"github.com/spec-kit/sport-analytics/internal/api/http/handlers"
	"github.com/spec-kit/sport-analytics/internal/auth"
	"github.com/spec-kit/sport-analytics/internal/config"
	"github.com/spec-kit/sport-analytics/internal/identity"
	"github.com/spec-kit/sport-analytics/internal/observability"
	"github.com/spec-kit/sport-analytics/internal/persistence"
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

	metrics := observability.NewMetrics()

	routes, err := auth.NewRouteTable(cfg.Guard.AuthRoutes, cfg.Guard.ProtectedRoutes, cfg.Guard.ExcludePattern)
	if err != nil {
		logger.Fatal("invalid route table", zap.Error(err))
	}

	identityClient := identity.New(cfg.Identity.BaseURL, nil)
	var verifier auth.Verifier = auth.VerifierFunc(identityClient.Me)

	deps := map[string]handlers.Pinger{}
	if cfg.Cache.Enabled() {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		deps["redis"] = redis
		verifier = auth.NewCachedVerifier(verifier, redis.Client, cfg.Cache.TTL(), logger)
		logger.Info("verification cache enabled", zap.Duration("ttl", cfg.Cache.TTL()))
	}

	guardCfg := auth.GuardConfig{
		Routes:        routes,
		SessionCookie: cfg.Guard.SessionCookie,
		UserIDCookie:  cfg.Guard.UserIDCookie,
		SignInPath:    cfg.Guard.SignInPath,
		DashboardPath: cfg.Guard.DashboardPath,
		VerifyTimeout: cfg.Identity.Timeout(),
		SecureCookies: cfg.Guard.SecureCookies,
	}
	if cfg.Guard.JWTPrecheck {
		guardCfg.Inspector = auth.NewTokenInspector(30 * time.Second)
	}
	guard := auth.NewGuard(guardCfg, verifier, logger, metrics)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, deps),
		Pages:  handlers.NewPagesHandler(),
		Guard:  guard,
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("identity", cfg.Identity.BaseURL),
			zap.Strings("auth_routes", routes.AuthRoutes()),
			zap.Strings("protected_routes", routes.ProtectedRoutes()),
		)
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
