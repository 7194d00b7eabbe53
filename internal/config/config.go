// Package config provides configuration management for the content pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigPath is tried when no --config flag is given.
const DefaultConfigPath = "configs/pipeline.yaml"

// EnvPrefix prefixes environment overrides, e.g. SHAMIR_TRANSLATE_PROVIDER.
const EnvPrefix = "SHAMIR"

// Configuration validation errors.
var (
	ErrMissingArticlesDir   = errors.New("content.articles_dir is required")
	ErrInvalidFetchDelay    = errors.New("fetch.delay_ms must be non-negative")
	ErrInvalidTimeout       = errors.New("fetch.timeout_sec must be at least 1")
	ErrInvalidBufferSize    = errors.New("fetch.buffer_size_kb must be at least 1")
	ErrSiteMissingHost      = errors.New("host is required")
	ErrInvalidVariant       = errors.New("variant must be 'query' or 'path'")
	ErrInvalidProvider      = errors.New("translate.provider must be 'gtx' or 'openai'")
	ErrInvalidTranslateWait = errors.New("translate delays must be non-negative")
	ErrInvalidChunkSize     = errors.New("translate.max_chunk_chars must be at least 1")
	ErrMissingAPIKey        = errors.New("translate.openai.api_key is required for the openai provider")
	ErrInvalidMaxPages      = errors.New("discover.max_pages must be at least 1")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Locale variant strategies.
const (
	VariantQuery = "query"
	VariantPath  = "path"
)

// Translation providers.
const (
	ProviderGTX    = "gtx"
	ProviderOpenAI = "openai"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Content   ContentConfig   `mapstructure:"content"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Sites     []SiteConfig    `mapstructure:"sites"`
	Translate TranslateConfig `mapstructure:"translate"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Discover  DiscoverConfig  `mapstructure:"discover"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ContentConfig locates the article tree.
type ContentConfig struct {
	ArticlesDir        string `mapstructure:"articles_dir"`
	ImagesDir          string `mapstructure:"images_dir"`
	UnusedImagesReport string `mapstructure:"unused_images_report"`
}

// FetchConfig controls outbound page requests.
type FetchConfig struct {
	UserAgent    string `mapstructure:"user_agent"`
	DelayMs      int    `mapstructure:"delay_ms"`
	TimeoutSec   int    `mapstructure:"timeout_sec"`
	BufferSizeKb int    `mapstructure:"buffer_size_kb"`
}

// SiteConfig describes one legacy site: how its locale variants are
// addressed and which selectors its template needs.
type SiteConfig struct {
	Host            string `mapstructure:"host"`
	Variant         string `mapstructure:"variant"`
	ContentSelector string `mapstructure:"content_selector"`
	TitleSelector   string `mapstructure:"title_selector"`
	DateSelector    string `mapstructure:"date_selector"`
	TagSelector     string `mapstructure:"tag_selector"`
	ImageSelector   string `mapstructure:"image_selector"`
	ListingSelector string `mapstructure:"listing_selector"`
}

// TranslateConfig controls the machine-translation pipeline.
type TranslateConfig struct {
	Markers         map[string][]string `mapstructure:"markers"`
	OpenAI          OpenAIConfig        `mapstructure:"openai"`
	Provider        string              `mapstructure:"provider"`
	Endpoint        string              `mapstructure:"endpoint"`
	SourceLang      string              `mapstructure:"source_lang"`
	Retry           RetryPolicy         `mapstructure:"retry"`
	MaxChunkChars   int                 `mapstructure:"max_chunk_chars"`
	RequestTimeoutS int                 `mapstructure:"request_timeout_sec"`
}

// OpenAIConfig configures the LLM provider.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// RetryPolicy defines the single bounded retry of a translation call.
type RetryPolicy struct {
	DelayMs          int     `mapstructure:"delay_ms"`
	RateLimitWaitMs  int     `mapstructure:"rate_limit_wait_ms"`
	ErrorDelayFactor float64 `mapstructure:"error_delay_factor"`
}

// CacheConfig configures the translation cache.
type CacheConfig struct {
	RedisAddr string `mapstructure:"redis_addr"`
	Prefix    string `mapstructure:"prefix"`
	TTLHours  int    `mapstructure:"ttl_hours"`
}

// DiscoverConfig drives URL discovery.
type DiscoverConfig struct {
	Output     string   `mapstructure:"output"`
	Categories []string `mapstructure:"categories"`
	Feeds      []string `mapstructure:"feeds"`
	MaxPages   int      `mapstructure:"max_pages"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// MetricsConfig defines where batch metrics are written.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// DefaultSites returns the rules for the two legacy sites.
func DefaultSites() []SiteConfig {
	return []SiteConfig{
		{
			Host:            "shamir.lv",
			Variant:         VariantQuery,
			ContentSelector: ".entry-content",
			TitleSelector:   ".herald-post-thumbnail-single header.entry-header div",
			DateSelector:    ".herald-post-thumbnail-single .herald-date",
			TagSelector:     ".herald-post-thumbnail-single .meta-category a",
			ImageSelector:   "img.attachment-herald-lay-a-full",
			ListingSelector: ".herald-main-content article",
		},
		{
			Host:    "rglhm.lv",
			Variant: VariantPath,
		},
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Content: ContentConfig{
			ArticlesDir:        "src/content/articles",
			ImagesDir:          "public/images",
			UnusedImagesReport: "unused-images.txt",
		},
		Fetch: FetchConfig{
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			DelayMs:      1000,
			TimeoutSec:   30,
			BufferSizeKb: 4096,
		},
		Sites: DefaultSites(),
		Translate: TranslateConfig{
			Provider:        ProviderGTX,
			Endpoint:        "https://translate.googleapis.com/translate_a/single",
			SourceLang:      "ru",
			MaxChunkChars:   4000,
			RequestTimeoutS: 60,
			Retry: RetryPolicy{
				DelayMs:          5000,
				RateLimitWaitMs:  30000,
				ErrorDelayFactor: 2,
			},
			OpenAI: OpenAIConfig{
				Model: "gpt-4o-mini",
			},
			Markers: map[string][]string{
				"en": {"Sorry, this entry is only available"},
				"lv": {
					"šīs materiāls vēl nav pieejams",
					"šī materiāls vēl nav pieejams",
					"Piedodiet, šīs materiāls",
					"šīs materiāls vēl nav pieejams latviešu valodā",
				},
			},
		},
		Cache: CacheConfig{
			Prefix:   "translate:",
			TTLHours: 24 * 30,
		},
		Discover: DiscoverConfig{
			Output:   "urls.txt",
			MaxPages: 29,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// LoadConfig loads configuration from an optional YAML file with
// SHAMIR_* environment overrides. An empty path falls back to
// DefaultConfigPath when that file exists, else to defaults only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("content.articles_dir", d.Content.ArticlesDir)
	v.SetDefault("content.images_dir", d.Content.ImagesDir)
	v.SetDefault("content.unused_images_report", d.Content.UnusedImagesReport)

	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.delay_ms", d.Fetch.DelayMs)
	v.SetDefault("fetch.timeout_sec", d.Fetch.TimeoutSec)
	v.SetDefault("fetch.buffer_size_kb", d.Fetch.BufferSizeKb)

	v.SetDefault("sites", siteMaps(d.Sites))

	v.SetDefault("translate.provider", d.Translate.Provider)
	v.SetDefault("translate.endpoint", d.Translate.Endpoint)
	v.SetDefault("translate.source_lang", d.Translate.SourceLang)
	v.SetDefault("translate.max_chunk_chars", d.Translate.MaxChunkChars)
	v.SetDefault("translate.request_timeout_sec", d.Translate.RequestTimeoutS)
	v.SetDefault("translate.retry.delay_ms", d.Translate.Retry.DelayMs)
	v.SetDefault("translate.retry.rate_limit_wait_ms", d.Translate.Retry.RateLimitWaitMs)
	v.SetDefault("translate.retry.error_delay_factor", d.Translate.Retry.ErrorDelayFactor)
	v.SetDefault("translate.openai.api_key", d.Translate.OpenAI.APIKey)
	v.SetDefault("translate.openai.base_url", d.Translate.OpenAI.BaseURL)
	v.SetDefault("translate.openai.model", d.Translate.OpenAI.Model)
	v.SetDefault("translate.markers", d.Translate.Markers)

	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.prefix", d.Cache.Prefix)
	v.SetDefault("cache.ttl_hours", d.Cache.TTLHours)

	v.SetDefault("discover.output", d.Discover.Output)
	v.SetDefault("discover.categories", d.Discover.Categories)
	v.SetDefault("discover.feeds", d.Discover.Feeds)
	v.SetDefault("discover.max_pages", d.Discover.MaxPages)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.encoding", d.Logging.Encoding)

	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}

func siteMaps(sites []SiteConfig) []map[string]any {
	out := make([]map[string]any, 0, len(sites))

	for _, s := range sites {
		out = append(out, map[string]any{
			"host":             s.Host,
			"variant":          s.Variant,
			"content_selector": s.ContentSelector,
			"title_selector":   s.TitleSelector,
			"date_selector":    s.DateSelector,
			"tag_selector":     s.TagSelector,
			"image_selector":   s.ImageSelector,
			"listing_selector": s.ListingSelector,
		})
	}

	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Content.ArticlesDir == "" {
		return ErrMissingArticlesDir
	}

	if c.Fetch.DelayMs < 0 {
		return ErrInvalidFetchDelay
	}

	if c.Fetch.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Fetch.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	for i, site := range c.Sites {
		if site.Host == "" {
			return fmt.Errorf("%w: sites[%d]", ErrSiteMissingHost, i)
		}

		if site.Variant != VariantQuery && site.Variant != VariantPath {
			return fmt.Errorf("%w: sites[%d] (%s)", ErrInvalidVariant, i, site.Host)
		}
	}

	switch c.Translate.Provider {
	case ProviderGTX:
	case ProviderOpenAI:
		if c.Translate.OpenAI.APIKey == "" {
			return ErrMissingAPIKey
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Translate.Provider)
	}

	if c.Translate.Retry.DelayMs < 0 || c.Translate.Retry.RateLimitWaitMs < 0 || c.Translate.Retry.ErrorDelayFactor < 0 {
		return ErrInvalidTranslateWait
	}

	if c.Translate.MaxChunkChars < 1 {
		return ErrInvalidChunkSize
	}

	if c.Discover.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// SiteFor returns the rule whose host is contained in hostname.
func (c *Config) SiteFor(hostname string) (SiteConfig, bool) {
	for _, site := range c.Sites {
		if strings.Contains(hostname, site.Host) {
			return site, true
		}
	}

	return SiteConfig{}, false
}

// FetchDelay returns the pre-request delay.
func (c *Config) FetchDelay() time.Duration {
	return time.Duration(c.Fetch.DelayMs) * time.Millisecond
}

// FetchTimeout returns the HTTP client timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSec) * time.Second
}

// CacheTTL returns how long cached translations live.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// Delay returns the fixed delay before every translation call.
func (rp *RetryPolicy) Delay() time.Duration {
	return time.Duration(rp.DelayMs) * time.Millisecond
}

// GetRetryDelay returns the wait before the single retry of a failed call.
func (rp *RetryPolicy) GetRetryDelay(rateLimited bool) time.Duration {
	if rateLimited {
		return time.Duration(rp.RateLimitWaitMs) * time.Millisecond
	}

	return time.Duration(float64(rp.DelayMs)*rp.ErrorDelayFactor) * time.Millisecond
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Articles: %s, Sites: %d, Provider: %s, FetchDelay: %dms}",
		c.Content.ArticlesDir,
		len(c.Sites),
		c.Translate.Provider,
		c.Fetch.DelayMs,
	)
}
