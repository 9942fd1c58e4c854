// Package config holds runtime configuration for polygon-mcp.
// Values come from defaults, an optional JSON config file, a .env file,
// and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Price snapshot modes supported by the market-data gateway.
const (
	PriceSourcePrevClose = "prev_close"
	PriceSourceLastTrade = "last_trade"
)

// LLM providers supported for classification and narrative generation.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

type Config struct {
	ReportsDir string `json:"reports_dir"`

	PolygonAPIKey  string `json:"polygon_api_key"`
	PolygonBaseURL string `json:"polygon_base_url"`
	RequestTimeout int    `json:"request_timeout_seconds"`
	PriceSource    string `json:"price_source"`
	NewsLimit      int    `json:"news_limit"`

	LLMProvider    string `json:"llm_provider"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	OpenAIBaseURL  string `json:"openai_base_url"`
	OpenAIModel    string `json:"openai_model"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`
	DeepSeekModel  string `json:"deepseek_model"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	Debug     bool   `json:"debug"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		ReportsDir: "reports",

		PolygonBaseURL: "https://api.polygon.io",
		RequestTimeout: 10,
		PriceSource:    PriceSourcePrevClose,
		NewsLimit:      10,

		LLMProvider:   ProviderOpenAI,
		OpenAIBaseURL: "https://api.openai.com/v1",
		OpenAIModel:   "gpt-4.1-mini",
		DeepSeekModel: "deepseek-chat",

		LogLevel:  "info",
		LogFormat: "console",
		Debug:     false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("REPORTS_DIR"); val != "" {
		c.ReportsDir = val
	}

	if val := os.Getenv("POLYGON_API_KEY"); val != "" {
		c.PolygonAPIKey = val
	}
	if val := os.Getenv("POLYGON_BASE_URL"); val != "" {
		c.PolygonBaseURL = val
	}
	if val := os.Getenv("POLYGON_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RequestTimeout = v
		}
	}
	if val := os.Getenv("PRICE_SOURCE"); val != "" {
		c.PriceSource = val
	}
	if val := os.Getenv("NEWS_LIMIT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.NewsLimit = v
		}
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("OPENAI_BASE_URL"); val != "" {
		c.OpenAIBaseURL = val
	}
	if val := os.Getenv("OPENAI_MODEL"); val != "" {
		c.OpenAIModel = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_MODEL"); val != "" {
		c.DeepSeekModel = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.LogFormat = val
	}
	if val := os.Getenv("POLYGON_MCP_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) Validate() error {
	switch c.PriceSource {
	case PriceSourcePrevClose, PriceSourceLastTrade:
	default:
		return fmt.Errorf("invalid price_source %q", c.PriceSource)
	}
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderDeepSeek:
	default:
		return fmt.Errorf("invalid llm_provider %q", c.LLMProvider)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeout)
	}
	if c.NewsLimit <= 0 {
		return fmt.Errorf("news_limit must be positive, got %d", c.NewsLimit)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ReportsDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
