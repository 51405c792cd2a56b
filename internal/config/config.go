package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/kursadbilgin/dnc-checker/internal/provider"
)

// Endpoints holds the upstream lookup base URLs; the number is appended as ?x=.
type Endpoints struct {
	TCPAURL    string `env:"TCPA_API_URL,default=https://api.uspeoplesearch.net/tcpa/v1"`
	PersonURL  string `env:"PERSON_API_URL,default=https://api.uspeoplesearch.net/person/v3"`
	PremiumURL string `env:"PREMIUM_API_URL,default=https://premium_lookup-1-h4761841.deta.app/person"`
	ReportURL  string `env:"REPORT_API_URL,default=https://api.uspeoplesearch.net/tcpa/report"`
}

// CheckerEndpoints returns the checker's fallback order.
func (e Endpoints) CheckerEndpoints() []provider.Endpoint {
	return []provider.Endpoint{
		{Name: provider.EndpointTCPA, URL: e.TCPAURL},
		{Name: provider.EndpointPerson, URL: e.PersonURL},
		{Name: provider.EndpointPremium, URL: e.PremiumURL},
		{Name: provider.EndpointReport, URL: e.ReportURL},
	}
}

// RelayEndpoints returns the endpoints the relay forwards to; the first is the default.
func (e Endpoints) RelayEndpoints() []provider.Endpoint {
	return []provider.Endpoint{
		{Name: provider.EndpointTCPA, URL: e.TCPAURL},
		{Name: provider.EndpointPerson, URL: e.PersonURL},
		{Name: provider.EndpointPremium, URL: e.PremiumURL},
	}
}

type RelayConfig struct {
	Endpoints

	Port              int    `env:"PORT,default=3000"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
	RedisURL          string `env:"REDIS_URL"`
	RateLimitPerSec   int    `env:"RATE_LIMIT_PER_SEC,default=0"`
	UpstreamTimeoutMS int    `env:"UPSTREAM_TIMEOUT_MS,default=10000"`
}

func (c *RelayConfig) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// State backends supported by the checker.
const (
	StateBackendFile     = "file"
	StateBackendMemory   = "memory"
	StateBackendRedis    = "redis"
	StateBackendPostgres = "postgres"
)

type CheckerConfig struct {
	Endpoints

	LogLevel       string `env:"LOG_LEVEL,default=warn"`
	StateBackend   string `env:"DNC_STATE_BACKEND,default=file"`
	StateFile      string `env:"DNC_STATE_FILE,default=.dnc-checker/state.json"`
	RedisURL       string `env:"REDIS_URL"`
	DatabaseDSN    string `env:"DATABASE_DSN"`
	RabbitMQURL    string `env:"RABBITMQ_URL"`
	RequestDelayMS int    `env:"DNC_REQUEST_DELAY_MS,default=150"`
	TimeoutMS      int    `env:"DNC_TIMEOUT_MS,default=10000"`
	MaxRetries     int    `env:"DNC_MAX_RETRIES,default=2"`
}

func (c *CheckerConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

func (c *CheckerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func LoadRelay() (*RelayConfig, error) {
	var cfg RelayConfig
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.RateLimitPerSec > 0 && strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required when RATE_LIMIT_PER_SEC is set")
	}
	return &cfg, nil
}

func LoadChecker() (*CheckerConfig, error) {
	var cfg CheckerConfig
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.StateBackend = strings.ToLower(strings.TrimSpace(cfg.StateBackend))
	switch cfg.StateBackend {
	case StateBackendFile, StateBackendMemory:
	case StateBackendRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis state backend")
		}
	case StateBackendPostgres:
		if strings.TrimSpace(cfg.DatabaseDSN) == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres state backend")
		}
	default:
		return nil, fmt.Errorf("unsupported DNC_STATE_BACKEND %q", cfg.StateBackend)
	}

	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &cfg, nil
}
