package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/kursadbilgin/dnc-checker/internal/config"
	"github.com/kursadbilgin/dnc-checker/internal/handler"
	infraredis "github.com/kursadbilgin/dnc-checker/internal/infra/redis"
	"github.com/kursadbilgin/dnc-checker/internal/observability"
	"github.com/kursadbilgin/dnc-checker/internal/provider"
	"github.com/kursadbilgin/dnc-checker/internal/ratelimit"
	"github.com/kursadbilgin/dnc-checker/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadRelay()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("relay stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.RelayConfig, logger *zap.Logger) error {
	metrics := observability.NewMetrics()

	api, err := provider.NewRestyLookupAPI(cfg.UpstreamTimeout(), provider.RelayUserAgent)
	if err != nil {
		return fmt.Errorf("lookup api: %w", err)
	}

	var limiter ratelimit.RateLimiter
	if cfg.RateLimitPerSec > 0 {
		rdb, err := infraredis.NewRedis(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis initialization failed: %w", err)
		}
		defer rdb.Close()

		redisLimiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.RateLimitPerSec)
		if err != nil {
			return err
		}
		limiter = redisLimiter
		logger.Info("upstream rate limiting enabled", zap.Int("limitPerSec", cfg.RateLimitPerSec))
	}

	relay, err := handler.NewRelayHandler(api, cfg.RelayEndpoints(), limiter, logger)
	if err != nil {
		return err
	}
	relay.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		AppName:               "dnc-relay",
		DisableStartupMessage: true,
		ErrorHandler:          transport.ErrorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app)
	handler.RegisterRelayRoutes(app, relay)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("dnc relay started", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("dnc relay shutting down")
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
