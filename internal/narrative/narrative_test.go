package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/kaljuvee/polygon-mcp/pkg/logger"
)

type fakeModel struct {
	content string
	err     error
	gotUser string
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range input {
		if m.Role == schema.User {
			f.gotUser = m.Content
		}
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func TestAugmentGroundsPromptInReport(t *testing.T) {
	fake := &fakeModel{content: "The stock closed higher."}
	a := NewAugmenter(fake, logger.Nop())

	got := a.Augment(context.Background(), "how is AAPL doing?", "## Analysis for AAPL\n**Close:** $110.00")
	if got != "The stock closed higher." {
		t.Fatalf("unexpected narrative: %q", got)
	}
	if !strings.Contains(fake.gotUser, "**Close:** $110.00") {
		t.Error("synthesized report not supplied as grounding context")
	}
	if !strings.Contains(fake.gotUser, "how is AAPL doing?") {
		t.Error("user query not supplied to the model")
	}
}

func TestAugmentReturnsMarkedErrorOnFailure(t *testing.T) {
	a := NewAugmenter(&fakeModel{err: errors.New("quota exceeded")}, logger.Nop())

	got := a.Augment(context.Background(), "q", "body")
	if !strings.Contains(got, "narrative unavailable") || !strings.Contains(got, "quota exceeded") {
		t.Fatalf("expected marked error string, got %q", got)
	}
}
