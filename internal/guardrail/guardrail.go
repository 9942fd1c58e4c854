// Package guardrail gates the pipeline: a query must be judged
// finance-related before any market data is fetched.
package guardrail

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

const validatorPrompt = `You are a finance query validator. Determine if the user's query is related to finance, stocks, markets, or investments.

Finance-related topics include: stock prices, equities, ETFs, crypto, forex, company analysis, market trends and news, trading, investments, fundamentals, economic indicators, earnings, dividends, corporate actions, market cap.

Not finance-related: personal financial advice, and any topic unrelated to markets.

Respond with JSON format: {"is_about_finance": boolean, "reasoning": "explanation"}`

// Result is the classification verdict. When the model is unreachable
// or returns garbage the verdict is false with the failure as the
// reasoning, so the pipeline never proceeds on ambiguous input.
type Result struct {
	IsAboutFinance bool   `json:"is_about_finance"`
	Reasoning      string `json:"reasoning"`
}

type Classifier struct {
	model model.BaseChatModel
	log   zerolog.Logger
}

func NewClassifier(m model.BaseChatModel, log zerolog.Logger) *Classifier {
	return &Classifier{model: m, log: log}
}

// Classify judges whether a query is in-domain. It never returns an
// error: all failure modes collapse to a closed gate.
func (c *Classifier) Classify(ctx context.Context, query string) Result {
	msg, err := c.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(validatorPrompt),
		schema.UserMessage(query),
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("finance validation unavailable")
		return Result{IsAboutFinance: false, Reasoning: fmt.Sprintf("Error in validation: %v", err)}
	}

	var result Result
	if err := json.Unmarshal([]byte(extractJSON(msg.Content)), &result); err != nil {
		c.log.Warn().Str("content", msg.Content).Msg("finance validation returned malformed output")
		return Result{IsAboutFinance: false, Reasoning: fmt.Sprintf("Error in validation: %v", err)}
	}
	return result
}

// extractJSON strips markdown fences and surrounding prose so that a
// chatty model response still parses.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
