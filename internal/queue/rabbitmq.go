package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	dlxExchangeName  = "dnc.dlx"
	dialTimeout      = 15 * time.Second
	reconnectBackoff = time.Second
	maxBackoff       = 30 * time.Second
)

// RabbitMQ owns one broker connection, redials it with backoff when it
// drops, and declares the result topology once per connection.
type RabbitMQ struct {
	url    string
	logger *zap.Logger

	mu          sync.RWMutex
	reconnectMu sync.Mutex
	conn        *amqp.Connection
	declared    bool
}

func NewRabbitMQ(url string, logger *zap.Logger) (*RabbitMQ, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("rabbitmq url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &RabbitMQ{url: url, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if _, err := r.connection(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.declared = false
	r.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		return nil
	}

	return conn.Close()
}

// channel opens a channel on a live connection, redialing once if the
// current connection refuses.
func (r *RabbitMQ) channel(ctx context.Context) (*amqp.Channel, error) {
	conn, err := r.connection(ctx)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		r.logger.Warn("rabbitmq channel failed, reconnecting", zap.Error(err))
		r.markBroken(conn)

		if conn, err = r.connection(ctx); err != nil {
			return nil, err
		}
		if ch, err = conn.Channel(); err != nil {
			return nil, fmt.Errorf("failed to create rabbitmq channel after reconnect: %w", err)
		}
	}

	if err := r.ensureTopology(ch); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return ch, nil
}

func (r *RabbitMQ) connection(ctx context.Context) (*amqp.Connection, error) {
	r.mu.RLock()
	conn := r.conn
	r.mu.RUnlock()

	if conn != nil && !conn.IsClosed() {
		return conn, nil
	}

	return r.reconnectWithBackoff(ctx)
}

func (r *RabbitMQ) markBroken(conn *amqp.Connection) {
	r.mu.Lock()
	if r.conn == conn {
		r.conn = nil
		r.declared = false
	}
	r.mu.Unlock()

	if conn != nil && !conn.IsClosed() {
		_ = conn.Close()
	}
}

func (r *RabbitMQ) reconnectWithBackoff(ctx context.Context) (*amqp.Connection, error) {
	r.reconnectMu.Lock()
	defer r.reconnectMu.Unlock()

	r.mu.RLock()
	conn := r.conn
	r.mu.RUnlock()
	if conn != nil && !conn.IsClosed() {
		return conn, nil
	}

	wait := reconnectBackoff
	for attempt := 1; ; attempt++ {
		newConn, err := amqp.Dial(r.url)
		if err == nil {
			r.mu.Lock()
			r.conn = newConn
			r.declared = false
			r.mu.Unlock()

			if attempt > 1 {
				r.logger.Info("rabbitmq reconnected", zap.Int("attempts", attempt))
			}
			return newConn, nil
		}

		r.logger.Warn("rabbitmq dial failed",
			zap.Int("attempt", attempt),
			zap.Duration("retryIn", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("rabbitmq reconnect canceled: %w", ctx.Err())
		case <-time.After(wait):
		}

		wait *= 2
		if wait > maxBackoff {
			wait = maxBackoff
		}
	}
}

func (r *RabbitMQ) ensureTopology(ch *amqp.Channel) error {
	r.mu.RLock()
	declared := r.declared
	r.mu.RUnlock()
	if declared {
		return nil
	}

	if err := declareTopology(ch); err != nil {
		return err
	}

	r.mu.Lock()
	r.declared = true
	r.mu.Unlock()
	return nil
}

// declareTopology declares one durable queue per bucket, each dead-lettering
// into its own dlq through the dlx exchange.
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchangeName, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dlx exchange: %w", err)
	}

	for _, status := range domain.Statuses() {
		routingKey := statusRoutingKey(status)

		dlqName := DLQName(status)
		if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dlq %q: %w", dlqName, err)
		}
		if err := ch.QueueBind(dlqName, routingKey, dlxExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind dlq %q: %w", dlqName, err)
		}

		queueName := QueueName(status)
		args := amqp.Table{
			"x-dead-letter-exchange":    dlxExchangeName,
			"x-dead-letter-routing-key": routingKey,
		}
		if _, err := ch.QueueDeclare(queueName, true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare queue %q: %w", queueName, err)
		}
	}

	return nil
}

func statusRoutingKey(status domain.Status) string {
	return strings.ToLower(status.String())
}
