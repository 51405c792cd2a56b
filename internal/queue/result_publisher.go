package queue

import (
	"context"
	"time"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// ResultPublisher forwards each batch result to the queue of its bucket.
// Publish failures are logged and never interrupt the batch.
type ResultPublisher struct {
	publisher Publisher
	batchID   func() string
	logger    *zap.Logger
}

func NewResultPublisher(publisher Publisher, batchID func() string, logger *zap.Logger) *ResultPublisher {
	if batchID == nil {
		batchID = func() string { return "" }
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ResultPublisher{
		publisher: publisher,
		batchID:   batchID,
		logger:    logger,
	}
}

func (p *ResultPublisher) OnResult(result domain.LookupResult) {
	msg := NewResultMessage(p.batchID(), result)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, QueueName(msg.Status), msg); err != nil {
		p.logger.Warn("failed to publish result",
			zap.String("number", msg.Number),
			zap.String("status", msg.Status.String()),
			zap.Error(err),
		)
	}
}

func (p *ResultPublisher) OnProgress(int, int) {}

func (p *ResultPublisher) OnComplete(summary domain.BatchSummary) {
	p.logger.Debug("batch results published",
		zap.String("batchId", p.batchID()),
		zap.Int("processed", summary.Processed),
	)
}
