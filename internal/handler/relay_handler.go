package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/dnc-checker/internal/observability"
	"github.com/kursadbilgin/dnc-checker/internal/provider"
	"github.com/kursadbilgin/dnc-checker/internal/ratelimit"
	"go.uber.org/zap"
)

// RelayHandler forwards browser lookups to the upstream endpoints.
type RelayHandler struct {
	api       provider.LookupAPI
	endpoints []provider.Endpoint
	limiter   ratelimit.RateLimiter
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewRelayHandler builds a relay over endpoints. limiter may be nil.
func NewRelayHandler(
	api provider.LookupAPI,
	endpoints []provider.Endpoint,
	limiter ratelimit.RateLimiter,
	logger *zap.Logger,
) (*RelayHandler, error) {
	if api == nil {
		return nil, fmt.Errorf("lookup api is required")
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("at least one endpoint is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RelayHandler{
		api:       api,
		endpoints: append([]provider.Endpoint{}, endpoints...),
		limiter:   limiter,
		logger:    logger,
	}, nil
}

func (h *RelayHandler) SetMetrics(metrics *observability.Metrics) {
	if h == nil {
		return
	}
	h.metrics = metrics
}

func RegisterRelayRoutes(router fiber.Router, h *RelayHandler) {
	router.Get("/api/check", h.Check)
}

type relayErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (h *RelayHandler) Check(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Query("number"))
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(relayErrorResponse{Error: "Phone number is required"})
	}

	endpoint, _ := provider.ResolveEndpoint(h.endpoints, c.Query("endpoint"))

	ctx := requestContext(c)
	logger := observability.WithContextLogger(h.logger, ctx).With(
		zap.String("endpoint", endpoint.Name),
		zap.String("number", number),
	)

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx, endpoint.Name); err != nil {
			if ctx.Err() != nil {
				return h.proxyError(c, logger, err)
			}
			logger.Warn("rate limiter unavailable, forwarding without limit", zap.Error(err))
		}
	}

	start := time.Now()
	resp, err := h.api.Fetch(ctx, endpoint, number)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.metrics.ObserveUpstreamRequest(endpoint.Name, outcome, time.Since(start))
	if err != nil {
		return h.proxyError(c, logger, err)
	}

	logger.Debug("relayed lookup", zap.Int("upstreamStatus", resp.StatusCode))

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(resp.Body)
}

func (h *RelayHandler) proxyError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	logger.Warn("relay lookup failed",
		zap.Bool("transient", provider.IsTransient(err)),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(relayErrorResponse{
		Error:   "Proxy error",
		Message: err.Error(),
	})
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
		ctx = observability.WithRequestID(ctx, requestID)
	}
	return ctx
}
