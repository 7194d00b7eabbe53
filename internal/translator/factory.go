package translator

import (
	"context"
	"fmt"
	"time"

	"shamir/internal/config"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/throttle"
)

// NewProvider builds the provider named in cfg.
func NewProvider(cfg *config.Config) (Provider, error) {
	timeout := time.Duration(cfg.Translate.RequestTimeoutS) * time.Second

	switch cfg.Translate.Provider {
	case config.ProviderGTX:
		return NewGTXProvider(cfg.Translate.Endpoint, cfg.Fetch.UserAgent, timeout), nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.Translate.OpenAI, timeout), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrInvalidProvider, cfg.Translate.Provider)
}

// NewCache returns a Redis cache when an address is configured, otherwise
// an in-memory one. The close function is never nil.
func NewCache(ctx context.Context, cfg config.CacheConfig, ttl time.Duration) (Cache, func() error, error) {
	if cfg.RedisAddr == "" {
		return NewMemoryCache(), func() error { return nil }, nil
	}

	c, err := DialRedisCache(ctx, cfg.RedisAddr, cfg.Prefix, ttl)
	if err != nil {
		return nil, nil, err
	}

	return c, c.Close, nil
}

// FromConfig wires provider, cache and retry policy from cfg.
func FromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics, sleep throttle.SleepFunc) (*Translator, func() error, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	cache, closeCache, err := NewCache(ctx, cfg.Cache, cfg.CacheTTL())
	if err != nil {
		return nil, nil, err
	}

	return New(provider, Options{
		Cache:         cache,
		Sleep:         sleep,
		Retry:         cfg.Translate.Retry,
		MaxChunkChars: cfg.Translate.MaxChunkChars,
		SourceLang:    cfg.Translate.SourceLang,
		Logger:        log,
		Metrics:       m,
	}), closeCache, nil
}
