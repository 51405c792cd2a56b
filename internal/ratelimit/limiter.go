package ratelimit

import "context"

// RateLimiter throttles outbound calls per upstream endpoint.
type RateLimiter interface {
	Allow(ctx context.Context, endpoint string) (bool, error)
	Wait(ctx context.Context, endpoint string) error
}
