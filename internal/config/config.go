package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration. The scraper, marketplace, and
// gateway binaries share one config shape; each reads only the sections it
// needs.
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	OpenAI   OpenAIConfig
	Stripe   StripeConfig
	Pipeline PipelineConfig
	Photos   PhotoConfig
	Janitor  JanitorConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// OpenAIConfig holds the GPT provider settings used by the scraper.
// The API key is intentionally not validated at startup: a missing key is
// reported as a configuration error when a scrape is attempted.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// StripeConfig holds the payment provider settings used by the marketplace.
// Like the OpenAI key, absence is a call-time error, not a startup error.
type StripeConfig struct {
	APIKey string
}

// PipelineConfig holds the lead-quality gate and tier thresholds.
// The numbers are inherited business constants; they are configurable but
// ship with the production defaults.
type PipelineConfig struct {
	GateMinDistress     float64
	GateMinROI          float64
	PlatinumMinDistress float64
	PlatinumMinROI      float64
	GoldMinDistress     float64
	GoldMinROI          float64
	SilverMinDistress   float64
	SilverMinROI        float64
	HotMarkets          []string
	HotMarketMultiplier decimal.Decimal
	PackageTTL          time.Duration
}

// PhotoConfig holds settings for the outbound listing-photo fetch.
type PhotoConfig struct {
	FetchTimeout time.Duration
	MaxPhotos    int
}

// JanitorConfig holds the expired-listing sweep settings.
type JanitorConfig struct {
	Enabled  bool
	Schedule string
}

// Load reads configuration from the environment (and a .env file when one
// exists in the working directory). It provides production defaults for
// every tunable value.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_MAX_TOKENS", 2000)

	v.SetDefault("GATE_MIN_DISTRESS", 40.0)
	v.SetDefault("GATE_MIN_ROI", 10.0)
	v.SetDefault("PLATINUM_MIN_DISTRESS", 70.0)
	v.SetDefault("PLATINUM_MIN_ROI", 20.0)
	v.SetDefault("GOLD_MIN_DISTRESS", 60.0)
	v.SetDefault("GOLD_MIN_ROI", 15.0)
	v.SetDefault("SILVER_MIN_DISTRESS", 50.0)
	v.SetDefault("SILVER_MIN_ROI", 12.0)
	v.SetDefault("HOT_MARKETS", "austin,dallas,houston,atlanta,phoenix")
	v.SetDefault("HOT_MARKET_MULTIPLIER", "1.5")
	v.SetDefault("PACKAGE_TTL_HOURS", 168)

	v.SetDefault("PHOTO_FETCH_TIMEOUT_SECONDS", 10)
	v.SetDefault("PHOTO_MAX_PER_PROPERTY", 3)

	v.SetDefault("JANITOR_ENABLED", true)
	v.SetDefault("JANITOR_SCHEDULE", "@every 1h")

	v.AutomaticEnv()

	multiplier, err := decimal.NewFromString(v.GetString("HOT_MARKET_MULTIPLIER"))
	if err != nil {
		return nil, fmt.Errorf("HOT_MARKET_MULTIPLIER is not a valid decimal: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		CORS: CORSConfig{
			Origins: splitList(v.GetString("CORS_ORIGINS")),
		},
		OpenAI: OpenAIConfig{
			APIKey:    v.GetString("OPENAI_API_KEY"),
			Model:     v.GetString("OPENAI_MODEL"),
			MaxTokens: v.GetInt("OPENAI_MAX_TOKENS"),
		},
		Stripe: StripeConfig{
			APIKey: v.GetString("STRIPE_SECRET_KEY"),
		},
		Pipeline: PipelineConfig{
			GateMinDistress:     v.GetFloat64("GATE_MIN_DISTRESS"),
			GateMinROI:          v.GetFloat64("GATE_MIN_ROI"),
			PlatinumMinDistress: v.GetFloat64("PLATINUM_MIN_DISTRESS"),
			PlatinumMinROI:      v.GetFloat64("PLATINUM_MIN_ROI"),
			GoldMinDistress:     v.GetFloat64("GOLD_MIN_DISTRESS"),
			GoldMinROI:          v.GetFloat64("GOLD_MIN_ROI"),
			SilverMinDistress:   v.GetFloat64("SILVER_MIN_DISTRESS"),
			SilverMinROI:        v.GetFloat64("SILVER_MIN_ROI"),
			HotMarkets:          splitList(v.GetString("HOT_MARKETS")),
			HotMarketMultiplier: multiplier,
			PackageTTL:          time.Duration(v.GetInt("PACKAGE_TTL_HOURS")) * time.Hour,
		},
		Photos: PhotoConfig{
			FetchTimeout: time.Duration(v.GetInt("PHOTO_FETCH_TIMEOUT_SECONDS")) * time.Second,
			MaxPhotos:    v.GetInt("PHOTO_MAX_PER_PROPERTY"),
		},
		Janitor: JanitorConfig{
			Enabled:  v.GetBool("JANITOR_ENABLED"),
			Schedule: v.GetString("JANITOR_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Provider API keys are deliberately excluded: they are checked at call time
// so the services can boot without credentials.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("OPENAI_MODEL is required")
	}
	if c.OpenAI.MaxTokens < 1 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be at least 1")
	}
	if c.Pipeline.GateMinDistress < 0 || c.Pipeline.GateMinDistress > 100 {
		return fmt.Errorf("GATE_MIN_DISTRESS must be between 0 and 100")
	}
	if c.Pipeline.GateMinROI < 0 {
		return fmt.Errorf("GATE_MIN_ROI must be non-negative")
	}
	if c.Pipeline.HotMarketMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("HOT_MARKET_MULTIPLIER must be at least 1")
	}
	if c.Pipeline.PackageTTL <= 0 {
		return fmt.Errorf("PACKAGE_TTL_HOURS must be positive")
	}
	if c.Photos.FetchTimeout <= 0 {
		return fmt.Errorf("PHOTO_FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.Photos.MaxPhotos < 0 {
		return fmt.Errorf("PHOTO_MAX_PER_PROPERTY must be non-negative")
	}
	if c.Janitor.Enabled && c.Janitor.Schedule == "" {
		return fmt.Errorf("JANITOR_SCHEDULE is required when the janitor is enabled")
	}
	return nil
}

// splitList splits a comma-separated string into trimmed, non-empty parts.
func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
