package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"github.com/kursadbilgin/dnc-checker/internal/observability"
	"github.com/kursadbilgin/dnc-checker/internal/provider"
	"go.uber.org/zap"
)

const (
	defaultMaxRetries   = 2
	defaultRequestDelay = 150 * time.Millisecond

	outcomeError        = "error"
	outcomeInconclusive = "inconclusive"
)

// dncFlags are payload fields that mark a number as do-not-call when strictly true.
var dncFlags = []string{"dnc", "dnd", "tcpa", "doNotCall", "blocked", "restricted"}

// Checker resolves one number against the upstream endpoints in order.
type Checker struct {
	api          provider.LookupAPI
	endpoints    []provider.Endpoint
	maxRetries   int
	requestDelay time.Duration
	logger       *zap.Logger
	metrics      *observability.Metrics
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewChecker(
	api provider.LookupAPI,
	endpoints []provider.Endpoint,
	maxRetries int,
	requestDelay time.Duration,
	logger *zap.Logger,
) (*Checker, error) {
	if api == nil {
		return nil, fmt.Errorf("lookup api is required")
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("at least one endpoint is required")
	}
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}
	if requestDelay < 0 {
		requestDelay = defaultRequestDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Checker{
		api:          api,
		endpoints:    append([]provider.Endpoint{}, endpoints...),
		maxRetries:   maxRetries,
		requestDelay: requestDelay,
		logger:       logger,
		now:          time.Now,
		sleep:        sleepWithContext,
	}, nil
}

func (c *Checker) SetMetrics(metrics *observability.Metrics) {
	if c == nil {
		return
	}
	c.metrics = metrics
}

// Check never returns an error: upstream failures are retried and, once
// every endpoint is exhausted, folded into an invalid result. A lookup cut
// short by ctx reports ReasonCanceled instead.
func (c *Checker) Check(ctx context.Context, number string) domain.LookupResult {
	if validation := domain.ValidateNumber(number); !validation.Valid {
		c.logger.Debug("number failed local validation",
			zap.String("number", number),
			zap.String("reason", validation.Reason),
		)
		return c.invalidResult(number, validation.Reason)
	}

	for _, endpoint := range c.endpoints {
		if ctx.Err() != nil {
			break
		}
		if result, ok := c.checkEndpoint(ctx, endpoint, number); ok {
			return result
		}
	}

	if ctx.Err() != nil {
		c.logger.Debug("lookup canceled", zap.String("number", number))
		return c.invalidResult(number, domain.ReasonCanceled)
	}

	c.logger.Info("all endpoints exhausted", zap.String("number", number))
	return c.invalidResult(number, domain.ReasonAllChecksFailed)
}

func (c *Checker) checkEndpoint(ctx context.Context, endpoint provider.Endpoint, number string) (domain.LookupResult, bool) {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, payload, err := c.fetch(ctx, endpoint, number)
		if err != nil {
			c.metrics.IncLookupAttempt(endpoint.Name, outcomeError)
			c.logger.Debug("lookup attempt failed",
				zap.String("endpoint", endpoint.Name),
				zap.String("number", number),
				zap.Int("attempt", attempt),
				zap.Bool("transient", provider.IsTransient(err)),
				zap.Error(err),
			)
			if attempt < c.maxRetries {
				if err := c.sleep(ctx, c.requestDelay*time.Duration(attempt)); err != nil {
					return domain.LookupResult{}, false
				}
				continue
			}
			return domain.LookupResult{}, false
		}

		status, conclusive := classifyPayload(payload)
		if !conclusive {
			c.metrics.IncLookupAttempt(endpoint.Name, outcomeInconclusive)
			return domain.LookupResult{}, false
		}

		c.metrics.IncLookupAttempt(endpoint.Name, status.String())
		return domain.LookupResult{
			Number:    number,
			Status:    status,
			Source:    endpoint.Name,
			Data:      body,
			Timestamp: c.now().UTC(),
		}, true
	}

	return domain.LookupResult{}, false
}

func (c *Checker) fetch(ctx context.Context, endpoint provider.Endpoint, number string) ([]byte, map[string]any, error) {
	start := c.now()
	resp, err := c.api.Fetch(ctx, endpoint, number)
	outcome := "ok"
	if err != nil {
		outcome = outcomeError
	}
	c.metrics.ObserveUpstreamRequest(endpoint.Name, outcome, c.now().Sub(start))
	if err != nil {
		return nil, nil, err
	}

	payload, err := resp.Payload()
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, payload, nil
}

func (c *Checker) invalidResult(number string, reason string) domain.LookupResult {
	return domain.LookupResult{
		Number:    number,
		Status:    domain.StatusInvalid,
		Reason:    reason,
		Timestamp: c.now().UTC(),
	}
}

// classifyPayload reports dnc or clean, or false for an inconclusive payload.
func classifyPayload(payload map[string]any) (domain.Status, bool) {
	for _, field := range dncFlags {
		if flag, ok := payload[field].(bool); ok && flag {
			return domain.StatusDNC, true
		}
	}
	if wireless, ok := payload["wireless"].(bool); ok && !wireless {
		return domain.StatusDNC, true
	}

	if status, ok := payload["status"].(string); ok && strings.EqualFold(status, "valid") {
		return domain.StatusClean, true
	}

	return "", false
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
