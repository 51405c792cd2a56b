package queue

import (
	"context"
	"fmt"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
)

// Publisher publishes lookup result messages to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, msg ResultMessage) error
	Close() error
}

// MessageHandler handles a consumed queue message.
type MessageHandler func(ctx context.Context, msg ResultMessage) error

// Consumer consumes lookup result messages from a queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}

const queuePrefix = "dnc.results"

// QueueName returns the result queue for a bucket, e.g. dnc.results.clean.
func QueueName(status domain.Status) string {
	return fmt.Sprintf("%s.%s", queuePrefix, status)
}

// DLQName returns the dead-letter queue for a bucket, e.g. dlq.dnc.results.clean.
func DLQName(status domain.Status) string {
	return fmt.Sprintf("dlq.%s", QueueName(status))
}

// ResultQueueNames returns one queue per bucket.
func ResultQueueNames() []string {
	statuses := domain.Statuses()
	queues := make([]string, 0, len(statuses))
	for _, status := range statuses {
		queues = append(queues, QueueName(status))
	}
	return queues
}

func DLQNames() []string {
	statuses := domain.Statuses()
	queues := make([]string, 0, len(statuses))
	for _, status := range statuses {
		queues = append(queues, DLQName(status))
	}
	return queues
}
