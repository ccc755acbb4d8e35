package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SportsFeed/internal/domain"
)

const (
	configPathEnv  = "SPORTSFEED_CONFIG"
	llmAPIKeyEnv   = "SPORTSFEED_LLM_API_KEY"
	llmModelEnv    = "SPORTSFEED_LLM_MODEL"
	storageDSNEnv  = "SPORTSFEED_STORAGE_DSN"
	logLevelEnv    = "SPORTSFEED_LOG_LEVEL"
	defaultNewsKey = "sportsfeed_news_db"
)

// Failure policies for items whose enrichment call failed.
const (
	FailurePlaceholder = "placeholder"
	FailureRetry       = "retry"
)

// DefaultLanguage is the output language of generated text when none is set.
const DefaultLanguage = "Turkish"

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Feeds      []FeedConfig     `yaml:"feeds"`
	ScoreFeeds []FeedConfig     `yaml:"scoreFeeds"`
	LLM        LLMConfig        `yaml:"llm"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Cache      CacheConfig      `yaml:"cache"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Server     ServerConfig     `yaml:"server"`
	Entities   []domain.Entity  `yaml:"entities"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig describes where the content cache is persisted.
// Driver is one of memory, file, sqlite, postgres.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Key    string `yaml:"key"`
}

// GatewayConfig describes the retrieval indirection in front of feed hosts.
type GatewayConfig struct {
	Kind     string        `yaml:"kind"`
	ProxyURL string        `yaml:"proxyUrl"`
	Timeout  time.Duration `yaml:"timeout"`
}

// FeedConfig is a single syndication endpoint.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LLMConfig defines how to contact the OpenAI-compatible generation API.
type LLMConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"apiKey"`
	Language string        `yaml:"language"`
	Timeout  time.Duration `yaml:"timeout"`
	Retry    RetryConfig   `yaml:"retry"`
}

// RetryConfig is the explicit retry strategy for capability calls.
// MaxRetries of zero means a single attempt.
type RetryConfig struct {
	MaxRetries      int           `yaml:"maxRetries"`
	InitialInterval time.Duration `yaml:"initialInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
}

// EnrichmentConfig tunes the background worker.
type EnrichmentConfig struct {
	BatchSize     int           `yaml:"batchSize"`
	Delay         time.Duration `yaml:"delay"`
	FailurePolicy string        `yaml:"failurePolicy"`
}

// CacheConfig holds the store bounds.
type CacheConfig struct {
	Retention time.Duration `yaml:"retention"`
	Capacity  int           `yaml:"capacity"`
}

// SchedulerConfig drives automatic refreshes.
type SchedulerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ServerConfig is the listen address of the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// FeedURLs returns the content endpoints.
func (c Config) FeedURLs() []string {
	return urls(c.Feeds)
}

// ScoreFeedURLs returns the score endpoints. Without an explicit list the
// content feeds whose name mentions Sport or Score are used.
func (c Config) ScoreFeedURLs() []string {
	if len(c.ScoreFeeds) > 0 {
		return urls(c.ScoreFeeds)
	}
	var selected []FeedConfig
	for _, f := range c.Feeds {
		if strings.Contains(f.Name, "Sport") || strings.Contains(f.Name, "Score") {
			selected = append(selected, f)
		}
	}
	return urls(selected)
}

func urls(feeds []FeedConfig) []string {
	out := make([]string, 0, len(feeds))
	for _, f := range feeds {
		if f.URL != "" {
			out = append(out, f.URL)
		}
	}
	return out
}

// Load reads YAML configuration from the env-provided path (if any) and
// applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit path; an empty path means defaults only.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
				cfg.applyExplicit(raw)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg
}

// explicitFields holds settings whose zero value is meaningful, so only their
// presence in the file decides whether they override the default.
type explicitFields struct {
	Enrichment struct {
		Delay *time.Duration `yaml:"delay"`
	} `yaml:"enrichment"`
	Scheduler struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"scheduler"`
}

func (c *Config) applyExplicit(raw []byte) {
	var explicit explicitFields
	if err := yaml.Unmarshal(raw, &explicit); err != nil {
		return
	}
	if explicit.Enrichment.Delay != nil {
		c.Enrichment.Delay = *explicit.Enrichment.Delay
	}
	if explicit.Scheduler.Enabled != nil {
		c.Scheduler.Enabled = *explicit.Scheduler.Enabled
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(storageDSNEnv); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) normalize() {
	switch c.Enrichment.FailurePolicy {
	case FailurePlaceholder, FailureRetry:
	default:
		log.Printf("config: unknown failure policy %q, using %s", c.Enrichment.FailurePolicy, FailurePlaceholder)
		c.Enrichment.FailurePolicy = FailurePlaceholder
	}
	if c.Enrichment.BatchSize <= 0 {
		c.Enrichment.BatchSize = defaultConfig().Enrichment.BatchSize
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = defaultConfig().Cache.Capacity
	}
	if c.Cache.Retention <= 0 {
		c.Cache.Retention = defaultConfig().Cache.Retention
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaultNewsKey
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Storage.Driver != "" {
		base.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}
	if override.Storage.Key != "" {
		base.Storage.Key = override.Storage.Key
	}

	if override.Gateway.Kind != "" {
		base.Gateway.Kind = override.Gateway.Kind
	}
	if override.Gateway.ProxyURL != "" {
		base.Gateway.ProxyURL = override.Gateway.ProxyURL
	}
	if override.Gateway.Timeout > 0 {
		base.Gateway.Timeout = override.Gateway.Timeout
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	if len(override.ScoreFeeds) > 0 {
		base.ScoreFeeds = override.ScoreFeeds
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.Language != "" {
		base.LLM.Language = override.LLM.Language
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}
	if override.LLM.Retry.MaxRetries > 0 {
		base.LLM.Retry.MaxRetries = override.LLM.Retry.MaxRetries
	}
	if override.LLM.Retry.InitialInterval > 0 {
		base.LLM.Retry.InitialInterval = override.LLM.Retry.InitialInterval
	}
	if override.LLM.Retry.MaxInterval > 0 {
		base.LLM.Retry.MaxInterval = override.LLM.Retry.MaxInterval
	}

	if override.Enrichment.BatchSize > 0 {
		base.Enrichment.BatchSize = override.Enrichment.BatchSize
	}
	if override.Enrichment.FailurePolicy != "" {
		base.Enrichment.FailurePolicy = override.Enrichment.FailurePolicy
	}

	if override.Cache.Retention > 0 {
		base.Cache.Retention = override.Cache.Retention
	}
	if override.Cache.Capacity > 0 {
		base.Cache.Capacity = override.Cache.Capacity
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if len(override.Entities) > 0 {
		base.Entities = override.Entities
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{Driver: "file", DSN: "./sportsfeed-state", Key: defaultNewsKey},
		Gateway: GatewayConfig{
			Kind:     "allorigins",
			ProxyURL: "https://api.allorigins.win/get?url=",
			Timeout:  15 * time.Second,
		},
		Feeds: []FeedConfig{
			{Name: "BBC Sport", URL: "https://feeds.bbci.co.uk/sport/rss.xml"},
			{Name: "ESPN Soccer", URL: "https://www.espn.com/espn/rss/soccer/news"},
			{Name: "Sky Sports Football", URL: "https://www.skysports.com/rss/12040"},
		},
		LLM: LLMConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
			Model:    "gemini-2.5-flash",
			Language: DefaultLanguage,
			Timeout:  30 * time.Second,
			Retry: RetryConfig{
				MaxRetries:      0,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		Enrichment: EnrichmentConfig{
			BatchSize:     3,
			Delay:         500 * time.Millisecond,
			FailurePolicy: FailurePlaceholder,
		},
		Cache:     CacheConfig{Retention: 7 * 24 * time.Hour, Capacity: 100},
		Scheduler: SchedulerConfig{Enabled: false, Interval: 15 * time.Minute},
		Server:    ServerConfig{Addr: ":8080"},
	}
}
