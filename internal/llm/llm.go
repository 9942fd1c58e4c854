// Package llm constructs the chat model used for query classification
// and narrative generation.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/kaljuvee/polygon-mcp/internal/config"
)

const maxTokens = 2000

// NewChatModel builds the configured provider's chat model. OpenAI is
// the default; any OpenAI-compatible endpoint works via OPENAI_BASE_URL.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			return nil, fmt.Errorf("deepseek api key is required")
		}
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.DeepSeekModel,
			MaxTokens: maxTokens,
		})
	default:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai api key is required")
		}
		tokens := maxTokens
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.OpenAIModel,
			MaxTokens: &tokens,
		})
	}
}
