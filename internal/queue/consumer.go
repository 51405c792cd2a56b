package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQConsumer delivers result messages to a handler, one at a time per
// queue, and resubscribes with backoff when the channel drops.
type RabbitMQConsumer struct {
	client   *RabbitMQ
	prefetch int
	logger   *zap.Logger
}

func NewRabbitMQConsumer(client *RabbitMQ, prefetch int, logger *zap.Logger) *RabbitMQConsumer {
	if prefetch < 1 {
		prefetch = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RabbitMQConsumer{
		client:   client,
		prefetch: prefetch,
		logger:   logger,
	}
}

// Consume blocks until ctx is done. Malformed messages are dead-lettered;
// handler failures are requeued.
func (c *RabbitMQConsumer) Consume(ctx context.Context, queue string, handler MessageHandler) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if queue == "" {
		return fmt.Errorf("queue name is required")
	}
	if handler == nil {
		return fmt.Errorf("message handler is required")
	}

	logger := c.logger.With(zap.String("queue", queue))
	backoff := reconnectBackoff
	for {
		err := c.subscribe(ctx, queue, handler, logger)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			backoff = reconnectBackoff
			continue
		}

		logger.Warn("consumer interrupted, resubscribing", zap.Duration("retryIn", backoff), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (c *RabbitMQConsumer) subscribe(ctx context.Context, queue string, handler MessageHandler, logger *zap.Logger) error {
	ch, err := c.client.channel(ctx)
	if err != nil {
		return err
	}
	defer ch.Close() //nolint:errcheck // best-effort channel close

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %q: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := settle(d, c.dispatch(ctx, d, handler, logger)); err != nil {
				return err
			}
		}
	}
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRequeue
	outcomeDeadLetter
)

func (c *RabbitMQConsumer) dispatch(ctx context.Context, d amqp.Delivery, handler MessageHandler, logger *zap.Logger) outcome {
	var msg ResultMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		logger.Warn("dead-lettering message: invalid JSON", zap.String("messageId", d.MessageId), zap.Error(err))
		return outcomeDeadLetter
	}
	if err := msg.Validate(); err != nil {
		logger.Warn("dead-lettering message: validation failed", zap.String("messageId", msg.MessageID), zap.Error(err))
		return outcomeDeadLetter
	}

	if err := handler(ctx, msg); err != nil {
		logger.Warn("handler failed, requeueing", zap.String("messageId", msg.MessageID), zap.Error(err))
		return outcomeRequeue
	}
	return outcomeAck
}

func settle(d amqp.Delivery, result outcome) error {
	switch result {
	case outcomeDeadLetter:
		if err := d.Reject(false); err != nil {
			return fmt.Errorf("failed to reject message: %w", err)
		}
	case outcomeRequeue:
		if err := d.Nack(false, true); err != nil {
			return fmt.Errorf("failed to nack message: %w", err)
		}
	default:
		if err := d.Ack(false); err != nil {
			return fmt.Errorf("failed to ack delivery: %w", err)
		}
	}
	return nil
}

func (c *RabbitMQConsumer) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
