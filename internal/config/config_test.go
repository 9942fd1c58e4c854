package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PolygonBaseURL != "https://api.polygon.io" {
		t.Errorf("unexpected polygon base url: %s", cfg.PolygonBaseURL)
	}
	if cfg.PriceSource != PriceSourcePrevClose {
		t.Errorf("expected default price source %s, got %s", PriceSourcePrevClose, cfg.PriceSource)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("PRICE_SOURCE", PriceSourceLastTrade)
	t.Setenv("NEWS_LIMIT", "4")
	t.Setenv("LLM_PROVIDER", ProviderDeepSeek)

	cfg := DefaultConfig()
	if cfg.PriceSource != PriceSourceLastTrade {
		t.Errorf("PRICE_SOURCE override not applied, got %s", cfg.PriceSource)
	}
	if cfg.NewsLimit != 4 {
		t.Errorf("NEWS_LIMIT override not applied, got %d", cfg.NewsLimit)
	}
	if cfg.LLMProvider != ProviderDeepSeek {
		t.Errorf("LLM_PROVIDER override not applied, got %s", cfg.LLMProvider)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLMProvider = "bard"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown llm provider")
	}

	cfg = DefaultConfig()
	cfg.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}
