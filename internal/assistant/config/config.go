package config

import (
	"time"

	"ai-crypto-assistant/pkg/config"
)

// Assistant holds pipeline-wide settings.
type Assistant struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout" default:"60s"`
	DefaultLanguage string        `mapstructure:"default_language" default:"en" validate:"oneof=en ru"`
	SuggestionLimit int           `mapstructure:"suggestion_limit" default:"5" validate:"min=1,max=20"`
}

// Aggregator holds the per-source fetch budget.
type Aggregator struct {
	Timeout       time.Duration `mapstructure:"timeout" default:"12s"`
	PriceTimeout  time.Duration `mapstructure:"price_timeout" default:"5s"`
	MarketTimeout time.Duration `mapstructure:"market_timeout" default:"5s"`
	NewsTimeout   time.Duration `mapstructure:"news_timeout" default:"5s"`
	NewsLimit     int           `mapstructure:"news_limit" default:"5" validate:"min=1,max=50"`
}

// Binance holds the configuration for the Binance spot API.
type Binance struct {
	BaseURL             string `mapstructure:"base_url" default:"https://api.binance.com"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute" default:"600" validate:"min=1"`
}

// CoinGecko holds the configuration for the CoinGecko API.
type CoinGecko struct {
	BaseURL             string `mapstructure:"base_url" default:"https://api.coingecko.com/api/v3"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute" default:"30" validate:"min=1"`
}

// CryptoPanic holds the configuration for the CryptoPanic news API.
type CryptoPanic struct {
	BaseURL             string `mapstructure:"base_url" default:"https://cryptopanic.com/api/v1"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute" default:"60" validate:"min=1"`
}

// RSS holds the public news feeds used when no CryptoPanic key is set.
type RSS struct {
	Disabled bool          `mapstructure:"disabled"`
	Feeds    []string      `mapstructure:"feeds"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"5m"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider   string        `mapstructure:"provider" default:"ollama" validate:"oneof=ollama openai gemini"`
	Model      string        `mapstructure:"model" default:"llama2"`
	Timeout    time.Duration `mapstructure:"timeout" default:"45s"`
	RetryDelay time.Duration `mapstructure:"retry_delay" default:"1s"`
	MaxTokens  int           `mapstructure:"max_tokens" default:"500" validate:"min=1"`
	// Temperature is a string so that an explicit 0 survives tag defaults.
	Temperature         string `mapstructure:"temperature" default:"0.7"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute" default:"60" validate:"min=1"`
}

// Ollama holds the configuration for a local Ollama server.
type Ollama struct {
	BaseURL string `mapstructure:"base_url" default:"http://localhost:11434"`
}

// OpenAI holds the configuration for an OpenAI-compatible completions endpoint.
type OpenAI struct {
	BaseURL string `mapstructure:"base_url" default:"http://localhost:11434/v1"`
	APIKey  string `mapstructure:"api_key"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey string `mapstructure:"api_key"`
}

// Cache holds the snapshot cache configuration.
type Cache struct {
	Enabled bool          `mapstructure:"enabled"`
	Driver  string        `mapstructure:"driver" default:"memory" validate:"oneof=memory redis"`
	TTL     time.Duration `mapstructure:"ttl" default:"30s"`
}

// Warmer holds the cache warmer schedule.
type Warmer struct {
	Enabled  bool     `mapstructure:"enabled"`
	Schedule string   `mapstructure:"schedule" default:"@every 1m"`
	Assets   []string `mapstructure:"assets"`
}

// Telegram holds configuration for the Telegram bot.
type Telegram struct {
	BotToken       string `mapstructure:"bot_token"`
	PollingTimeout int    `mapstructure:"polling_timeout" default:"60" validate:"min=1"`
}

// Config holds the full configuration for the assistant service.
type Config struct {
	App         config.App    `mapstructure:"app"`
	Logger      config.Logger `mapstructure:"logger"`
	API         config.API    `mapstructure:"api"`
	Redis       config.Redis  `mapstructure:"redis"`
	Assistant   Assistant     `mapstructure:"assistant"`
	Aggregator  Aggregator    `mapstructure:"aggregator"`
	Binance     Binance       `mapstructure:"binance"`
	CoinGecko   CoinGecko     `mapstructure:"coingecko"`
	CryptoPanic CryptoPanic   `mapstructure:"cryptopanic"`
	RSS         RSS           `mapstructure:"rss"`
	AI          AI            `mapstructure:"ai"`
	Ollama      Ollama        `mapstructure:"ollama"`
	OpenAI      OpenAI        `mapstructure:"openai"`
	Gemini      Gemini        `mapstructure:"gemini"`
	Cache       Cache         `mapstructure:"cache"`
	Warmer      Warmer        `mapstructure:"warmer"`
	Telegram    Telegram      `mapstructure:"telegram"`
}

var envBindings = []config.EnvBinding{
	{Key: "cryptopanic.api_key", Envs: []string{"CRYPTOPANIC_API_KEY", "API_KEY"}},
	{Key: "coingecko.api_key", Envs: []string{"COINGECKO_API_KEY"}},
	{Key: "telegram.bot_token", Envs: []string{"TELEGRAM_BOT_TOKEN"}},
	{Key: "gemini.api_key", Envs: []string{"GEMINI_API_KEY"}},
	{Key: "openai.api_key", Envs: []string{"OPENAI_API_KEY"}},
	{Key: "ollama.base_url", Envs: []string{"OLLAMA_BASE_URL"}},
	{Key: "ai.model", Envs: []string{"OLLAMA_MODEL", "AI_MODEL"}},
	{Key: "ai.provider", Envs: []string{"AI_PROVIDER"}},
	{Key: "redis.password", Envs: []string{"REDIS_PASSWORD"}},
}

// Load loads the assistant configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, envBindings...); err != nil {
		return nil, err
	}
	if cfg.RSS.Disabled {
		cfg.RSS.Feeds = nil
	} else if len(cfg.RSS.Feeds) == 0 {
		cfg.RSS.Feeds = DefaultFeeds()
	}
	return &cfg, nil
}

// DefaultFeeds are the public crypto news feeds.
func DefaultFeeds() []string {
	return []string{
		"https://www.coindesk.com/arc/outboundfeeds/rss/",
		"https://cointelegraph.com/rss",
	}
}
