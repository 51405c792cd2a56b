package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kursadbilgin/dnc-checker/internal/config"
	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"github.com/kursadbilgin/dnc-checker/internal/observability"
	"github.com/kursadbilgin/dnc-checker/internal/queue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [clean|dnc|invalid...]",
		Short: "Print published results from RabbitMQ as JSON lines",
		Long: `Watch consumes the result queues filled by check when RABBITMQ_URL is set
and prints each message as one JSON line. Without arguments all buckets are
watched.`,
		ValidArgs: []string{"clean", "dnc", "invalid"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadChecker()
			if err != nil {
				return err
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is required for watch")
			}

			statuses, err := parseStatuses(args)
			if err != nil {
				return err
			}

			logger, err := observability.NewLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			client, err := queue.NewRabbitMQ(cfg.RabbitMQURL, logger)
			if err != nil {
				return fmt.Errorf("rabbitmq initialization failed: %w", err)
			}
			consumer := queue.NewRabbitMQConsumer(client, 10, logger)
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var mu sync.Mutex
			encoder := json.NewEncoder(cmd.OutOrStdout())
			printMessage := func(_ context.Context, msg queue.ResultMessage) error {
				mu.Lock()
				defer mu.Unlock()
				return encoder.Encode(msg)
			}

			g, groupCtx := errgroup.WithContext(ctx)
			for _, status := range statuses {
				queueName := queue.QueueName(status)
				g.Go(func() error {
					logger.Info("watching queue", zap.String("queue", queueName))
					return consumer.Consume(groupCtx, queueName, printMessage)
				})
			}
			return g.Wait()
		},
	}
}

func parseStatuses(args []string) ([]domain.Status, error) {
	if len(args) == 0 {
		return domain.Statuses(), nil
	}

	statuses := make([]domain.Status, 0, len(args))
	for _, arg := range args {
		status, err := domain.ParseStatusFromString(arg)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
