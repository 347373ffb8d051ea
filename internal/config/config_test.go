package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("Expected model gpt-4o-mini, got %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.MaxTokens != 2000 {
		t.Errorf("Expected max tokens 2000, got %d", cfg.OpenAI.MaxTokens)
	}
	if cfg.Pipeline.GateMinDistress != 40 {
		t.Errorf("Expected gate distress 40, got %f", cfg.Pipeline.GateMinDistress)
	}
	if cfg.Pipeline.GateMinROI != 10 {
		t.Errorf("Expected gate ROI 10, got %f", cfg.Pipeline.GateMinROI)
	}
	if len(cfg.Pipeline.HotMarkets) != 5 {
		t.Errorf("Expected 5 hot markets, got %d", len(cfg.Pipeline.HotMarkets))
	}
	if !cfg.Pipeline.HotMarketMultiplier.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("Expected multiplier 1.5, got %s", cfg.Pipeline.HotMarketMultiplier)
	}
	if cfg.Pipeline.PackageTTL != 168*time.Hour {
		t.Errorf("Expected package TTL 168h, got %s", cfg.Pipeline.PackageTTL)
	}
	if cfg.Photos.FetchTimeout != 10*time.Second {
		t.Errorf("Expected photo timeout 10s, got %s", cfg.Photos.FetchTimeout)
	}
	if cfg.Photos.MaxPhotos != 3 {
		t.Errorf("Expected max photos 3, got %d", cfg.Photos.MaxPhotos)
	}
	if !cfg.Janitor.Enabled {
		t.Error("Expected janitor enabled by default")
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	os.Setenv("OPENAI_API_KEY", "sk-test")
	os.Setenv("OPENAI_MODEL", "gpt-4o")
	os.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	os.Setenv("GATE_MIN_DISTRESS", "55")
	os.Setenv("HOT_MARKETS", "austin, boise")
	os.Setenv("HOT_MARKET_MULTIPLIER", "2")
	os.Setenv("JANITOR_ENABLED", "false")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORS.Origins)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("Expected OpenAI key from env, got %s", cfg.OpenAI.APIKey)
	}
	if cfg.Stripe.APIKey != "sk_test_123" {
		t.Errorf("Expected Stripe key from env, got %s", cfg.Stripe.APIKey)
	}
	if cfg.Pipeline.GateMinDistress != 55 {
		t.Errorf("Expected gate distress 55, got %f", cfg.Pipeline.GateMinDistress)
	}
	if len(cfg.Pipeline.HotMarkets) != 2 || cfg.Pipeline.HotMarkets[1] != "boise" {
		t.Errorf("Unexpected hot markets: %v", cfg.Pipeline.HotMarkets)
	}
	if !cfg.Pipeline.HotMarketMultiplier.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected multiplier 2, got %s", cfg.Pipeline.HotMarketMultiplier)
	}
	if cfg.Janitor.Enabled {
		t.Error("Expected janitor disabled")
	}
}

func TestLoad_InvalidMultiplier(t *testing.T) {
	clearConfigEnvVars()
	os.Setenv("HOT_MARKET_MULTIPLIER", "not-a-number")
	defer os.Unsetenv("HOT_MARKET_MULTIPLIER")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid multiplier")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"missing CORS origins", func(c *Config) { c.CORS.Origins = nil }},
		{"missing model", func(c *Config) { c.OpenAI.Model = "" }},
		{"zero max tokens", func(c *Config) { c.OpenAI.MaxTokens = 0 }},
		{"gate distress out of range", func(c *Config) { c.Pipeline.GateMinDistress = 101 }},
		{"negative gate ROI", func(c *Config) { c.Pipeline.GateMinROI = -1 }},
		{"multiplier below one", func(c *Config) { c.Pipeline.HotMarketMultiplier = decimal.RequireFromString("0.5") }},
		{"zero package TTL", func(c *Config) { c.Pipeline.PackageTTL = 0 }},
		{"zero photo timeout", func(c *Config) { c.Photos.FetchTimeout = 0 }},
		{"negative max photos", func(c *Config) { c.Photos.MaxPhotos = -1 }},
		{"janitor without schedule", func(c *Config) { c.Janitor.Schedule = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnvVars()
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty string", "", 0},
		{"single item", "austin", 1},
		{"multiple items", "austin,dallas,houston", 3},
		{"items with spaces", " austin , dallas ", 2},
		{"trailing comma", "austin,", 1},
		{"only commas", ",,,", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitList(tt.input)
			if len(result) != tt.expected {
				t.Errorf("Expected %d items, got %d (%v)", tt.expected, len(result), result)
			}
		})
	}
}

func clearConfigEnvVars() {
	vars := []string{
		"PORT", "ENV", "CORS_ORIGINS",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_MAX_TOKENS",
		"STRIPE_SECRET_KEY",
		"GATE_MIN_DISTRESS", "GATE_MIN_ROI",
		"PLATINUM_MIN_DISTRESS", "PLATINUM_MIN_ROI",
		"GOLD_MIN_DISTRESS", "GOLD_MIN_ROI",
		"SILVER_MIN_DISTRESS", "SILVER_MIN_ROI",
		"HOT_MARKETS", "HOT_MARKET_MULTIPLIER", "PACKAGE_TTL_HOURS",
		"PHOTO_FETCH_TIMEOUT_SECONDS", "PHOTO_MAX_PER_PROPERTY",
		"JANITOR_ENABLED", "JANITOR_SCHEDULE",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
