// Package narrative appends LLM-generated analysis to a synthesized
// report. The structured report is the deliverable; narrative is a
// best-effort addition and its failures stay inline.
package narrative

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/kaljuvee/polygon-mcp/internal/report"
)

const analystPrompt = `You are a Financial Analysis Agent. Your role is to:

1. Use the provided market data to produce accurate financial analysis
2. Include appropriate disclaimers
3. Double-check all calculations
4. If data is unavailable, explain gracefully - never fabricate

RULES:
- Base the analysis strictly on the data supplied below; do not invent numbers, news, or events
- Cover key insights, price movements, relevant news context, and risk factors
- Always end with the disclaimer, reproduced verbatim: "` + report.Disclaimer + `"`

type Augmenter struct {
	model model.BaseChatModel
	log   zerolog.Logger
}

func NewAugmenter(m model.BaseChatModel, log zerolog.Logger) *Augmenter {
	return &Augmenter{model: m, log: log}
}

// Augment generates analytical prose grounded in the already
// synthesized report. On any model failure it returns a marked error
// string instead, so the caller can still deliver the structured data.
func (a *Augmenter) Augment(ctx context.Context, query, reportBody string) string {
	user := fmt.Sprintf("User Query: %s\n\nMarket Data:\n%s\n\nProvide a comprehensive financial analysis based on the data above.", query, reportBody)

	msg, err := a.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(analystPrompt),
		schema.UserMessage(user),
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("narrative generation failed")
		return fmt.Sprintf("[narrative unavailable: %v]", err)
	}
	return msg.Content
}
