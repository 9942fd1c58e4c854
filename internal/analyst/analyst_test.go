package analyst

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kaljuvee/polygon-mcp/internal/guardrail"
	"github.com/kaljuvee/polygon-mcp/internal/polygon"
	"github.com/kaljuvee/polygon-mcp/internal/report"
	"github.com/kaljuvee/polygon-mcp/pkg/logger"
)

type fakeClassifier struct {
	result guardrail.Result
}

func (f *fakeClassifier) Classify(ctx context.Context, query string) guardrail.Result {
	return f.result
}

type fakeGateway struct {
	calls   atomic.Int64
	details polygon.FetchResult
	price   polygon.FetchResult
	news    polygon.FetchResult
	aggs    polygon.FetchResult
}

func (f *fakeGateway) TickerDetails(ctx context.Context, ticker string) polygon.FetchResult {
	f.calls.Add(1)
	return f.details
}

func (f *fakeGateway) PriceSnapshot(ctx context.Context, ticker string) polygon.FetchResult {
	f.calls.Add(1)
	return f.price
}

func (f *fakeGateway) News(ctx context.Context, ticker string, limit int) polygon.FetchResult {
	f.calls.Add(1)
	return f.news
}

func (f *fakeGateway) Aggregates(ctx context.Context, ticker string, rng polygon.AggregatesRange) polygon.FetchResult {
	f.calls.Add(1)
	return f.aggs
}

type fakeAugmenter struct {
	narrative string
}

func (f *fakeAugmenter) Augment(ctx context.Context, query, reportBody string) string {
	return f.narrative
}

func successGateway() *fakeGateway {
	return &fakeGateway{
		details: polygon.FetchResult{
			Kind: polygon.KindDetails,
			Payload: map[string]any{"results": map[string]any{
				"name": "Apple Inc.", "market": "stocks", "type": "CS", "currency_name": "usd",
			}},
		},
		price: polygon.FetchResult{
			Kind: polygon.KindPrice,
			Payload: map[string]any{"results": []any{map[string]any{
				"c": float64(110), "o": float64(100), "h": float64(111), "l": float64(99), "v": float64(500),
			}}},
		},
		news: polygon.FetchResult{
			Kind:    polygon.KindNews,
			Payload: map[string]any{"results": []any{}},
		},
		aggs: polygon.FetchResult{
			Kind:    polygon.KindAggregates,
			Payload: map[string]any{"results": []any{}},
		},
	}
}

func inDomain() *fakeClassifier {
	return &fakeClassifier{result: guardrail.Result{IsAboutFinance: true, Reasoning: "stock query"}}
}

func TestHandleQueryProducesReport(t *testing.T) {
	gw := successGateway()
	a := New(inDomain(), gw, nil, nil, logger.Nop())

	out := a.HandleQuery(context.Background(), "What is the current price of Apple?")
	if out.Rejected() {
		t.Fatalf("unexpected rejection: %s", out.Rejection)
	}
	if out.Ticker != "AAPL" {
		t.Errorf("ticker = %s, want AAPL", out.Ticker)
	}
	if !strings.Contains(out.Report, "## Analysis for AAPL") {
		t.Errorf("report missing header:\n%s", out.Report)
	}
	if !strings.HasSuffix(out.Report, report.Disclaimer) {
		t.Error("report must end with the disclaimer when no augmenter is configured")
	}
	if got := gw.calls.Load(); got != 4 {
		t.Errorf("expected 4 gateway calls, got %d", got)
	}
}

func TestHandleQueryAppendsNarrative(t *testing.T) {
	a := New(inDomain(), successGateway(), &fakeAugmenter{narrative: "Solid quarter overall."}, nil, logger.Nop())

	out := a.HandleQuery(context.Background(), "how is apple doing")
	if !strings.Contains(out.Report, "## AI Analysis\n\nSolid quarter overall.") {
		t.Errorf("narrative not appended:\n%s", out.Report)
	}
	if !strings.Contains(out.Report, report.Disclaimer) {
		t.Error("structured report section lost its disclaimer")
	}
}

func TestHandleQueryRejectsOutOfDomainWithoutFetching(t *testing.T) {
	gw := successGateway()
	cls := &fakeClassifier{result: guardrail.Result{IsAboutFinance: false, Reasoning: "cooking question"}}
	a := New(cls, gw, nil, nil, logger.Nop())

	out := a.HandleQuery(context.Background(), "best pasta recipe")
	if !out.Rejected() {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(out.Rejection, "cooking question") {
		t.Errorf("rejection should carry the rationale: %s", out.Rejection)
	}
	if got := gw.calls.Load(); got != 0 {
		t.Errorf("gateway must not be called for rejected queries, got %d calls", got)
	}
}

func TestHandleQueryClassifierOutageFailsClosed(t *testing.T) {
	gw := successGateway()
	cls := &fakeClassifier{result: guardrail.Result{IsAboutFinance: false, Reasoning: "Error in validation: connection refused"}}
	a := New(cls, gw, nil, nil, logger.Nop())

	out := a.HandleQuery(context.Background(), "price of AAPL")
	if !out.Rejected() {
		t.Fatal("expected rejection when classification is unavailable")
	}
	if got := gw.calls.Load(); got != 0 {
		t.Errorf("expected zero gateway calls, got %d", got)
	}
}

func TestHandleQueryUnresolvedTicker(t *testing.T) {
	gw := successGateway()
	a := New(inDomain(), gw, nil, nil, logger.Nop())

	out := a.HandleQuery(context.Background(), "how are the markets doing today")
	if !out.Rejected() {
		t.Fatal("expected rejection for unresolvable ticker")
	}
	if !strings.Contains(out.Rejection, "specify a stock ticker") {
		t.Errorf("unexpected guidance message: %s", out.Rejection)
	}
	if got := gw.calls.Load(); got != 0 {
		t.Errorf("expected zero gateway calls, got %d", got)
	}
}

func TestHandleQueryPartialFailureStillReports(t *testing.T) {
	gw := successGateway()
	gw.news = polygon.FetchResult{
		Kind:    polygon.KindNews,
		Failure: &polygon.Failure{Kind: polygon.FailureTimeout, Detail: "request failed: timeout"},
	}
	a := New(inDomain(), gw, nil, nil, logger.Nop())

	out := a.HandleQuery(context.Background(), "price of apple stock")
	if out.Rejected() {
		t.Fatalf("partial fetch failure must not reject the query: %s", out.Rejection)
	}
	if !strings.Contains(out.Report, "Warning: could not fetch news") {
		t.Errorf("missing news warning:\n%s", out.Report)
	}
	if !strings.Contains(out.Report, "**Company:** Apple Inc.") {
		t.Error("successful sections missing from report")
	}
}
