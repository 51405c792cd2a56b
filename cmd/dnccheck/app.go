package main

import (
	"context"
	"fmt"

	"github.com/kursadbilgin/dnc-checker/internal/config"
	"github.com/kursadbilgin/dnc-checker/internal/infra/postgresql"
	"github.com/kursadbilgin/dnc-checker/internal/infra/postgresql/migrations"
	infraredis "github.com/kursadbilgin/dnc-checker/internal/infra/redis"
	"github.com/kursadbilgin/dnc-checker/internal/observability"
	"github.com/kursadbilgin/dnc-checker/internal/provider"
	"github.com/kursadbilgin/dnc-checker/internal/queue"
	"github.com/kursadbilgin/dnc-checker/internal/repository"
	"github.com/kursadbilgin/dnc-checker/internal/service"
	"go.uber.org/zap"
)

// app holds the wired checker components for one command invocation.
type app struct {
	cfg     *config.CheckerConfig
	logger  *zap.Logger
	store   repository.StateStore
	batch   *service.BatchService
	metrics *observability.Metrics
	closers []func()
}

func newApp(observers ...service.BatchObserver) (*app, error) {
	cfg, err := config.LoadChecker()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, metrics: observability.NewMetrics()}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	store, err := a.openStore()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store

	api, err := provider.NewRestyLookupAPI(cfg.Timeout(), provider.CheckerUserAgent)
	if err != nil {
		a.Close()
		return nil, err
	}

	checker, err := service.NewChecker(api, cfg.CheckerEndpoints(), cfg.MaxRetries, cfg.RequestDelay(), logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	checker.SetMetrics(a.metrics)

	if cfg.RabbitMQURL != "" {
		publisher, err := a.openPublisher()
		if err != nil {
			a.Close()
			return nil, err
		}
		observers = append(observers, queue.NewResultPublisher(publisher, func() string {
			return a.batch.CurrentID()
		}, logger))
	}

	batch, err := service.NewBatchService(checker, store, service.Observers(observers), cfg.RequestDelay(), logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	batch.SetMetrics(a.metrics)
	a.batch = batch

	return a, nil
}

func (a *app) openStore() (repository.StateStore, error) {
	switch a.cfg.StateBackend {
	case config.StateBackendMemory:
		return repository.NewMemoryStateStore(), nil
	case config.StateBackendRedis:
		rdb, err := infraredis.NewRedis(a.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis initialization failed: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		return infraredis.NewRedisStateStore(rdb, "")
	case config.StateBackendPostgres:
		db, err := postgresql.NewPostgres(a.cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres initialization failed: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		if err := migrations.Migrate(db); err != nil {
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		return repository.NewGormStateRepo(db), nil
	default:
		return repository.NewFileStateStore(a.cfg.StateFile)
	}
}

func (a *app) openPublisher() (queue.Publisher, error) {
	client, err := queue.NewRabbitMQ(a.cfg.RabbitMQURL, a.logger)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq initialization failed: %w", err)
	}
	publisher := queue.NewRabbitMQPublisher(client)
	a.closers = append(a.closers, func() { _ = publisher.Close() })
	return publisher, nil
}

// restore loads saved state, logging rather than failing on unreadable state.
func (a *app) restore(ctx context.Context) bool {
	restored, err := a.batch.Restore(ctx)
	if err != nil {
		a.logger.Warn("failed to restore saved state", zap.Error(err))
		return false
	}
	return restored
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
