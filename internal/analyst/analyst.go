// Package analyst runs the query pipeline: guardrail, ticker
// resolution, market data fan-out, synthesis, and optional narrative.
package analyst

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kaljuvee/polygon-mcp/internal/guardrail"
	"github.com/kaljuvee/polygon-mcp/internal/polygon"
	"github.com/kaljuvee/polygon-mcp/internal/report"
	"github.com/kaljuvee/polygon-mcp/internal/resolver"
)

// newsFetchLimit matches the number of articles the report renders;
// fetching more would be wasted.
const newsFetchLimit = 3

// Classifier gates the pipeline before any market data is fetched.
type Classifier interface {
	Classify(ctx context.Context, query string) guardrail.Result
}

// Gateway is the market-data source; each call is independent.
type Gateway interface {
	TickerDetails(ctx context.Context, ticker string) polygon.FetchResult
	PriceSnapshot(ctx context.Context, ticker string) polygon.FetchResult
	News(ctx context.Context, ticker string, limit int) polygon.FetchResult
	Aggregates(ctx context.Context, ticker string, rng polygon.AggregatesRange) polygon.FetchResult
}

// Augmenter appends generated analysis; nil disables augmentation.
type Augmenter interface {
	Augment(ctx context.Context, query, reportBody string) string
}

// Saver persists finished reports.
type Saver interface {
	Save(content, ticker string) (string, error)
}

// Outcome is either a finished report or a rejection message; exactly
// one of Report and Rejection is set.
type Outcome struct {
	Ticker    string
	Report    string
	Rejection string
}

func (o Outcome) Rejected() bool {
	return o.Rejection != ""
}

type Analyst struct {
	classifier Classifier
	gateway    Gateway
	augmenter  Augmenter
	store      Saver
	log        zerolog.Logger
}

func New(classifier Classifier, gateway Gateway, augmenter Augmenter, store Saver, log zerolog.Logger) *Analyst {
	return &Analyst{
		classifier: classifier,
		gateway:    gateway,
		augmenter:  augmenter,
		store:      store,
		log:        log,
	}
}

// HandleQuery answers one free-text query. The classifier must pass
// before any gateway call is issued; an unresolved ticker is the only
// other terminal case. Per-kind fetch failures degrade inside the
// report instead of aborting.
func (a *Analyst) HandleQuery(ctx context.Context, query string) Outcome {
	verdict := a.classifier.Classify(ctx, query)
	if !verdict.IsAboutFinance {
		a.log.Info().Str("reasoning", verdict.Reasoning).Msg("query rejected by guardrail")
		return Outcome{Rejection: fmt.Sprintf(
			"This query doesn't appear to be finance-related. %s\n\nPlease ask questions about stocks, market data, financial analysis, or related topics.",
			verdict.Reasoning)}
	}

	ticker, ok := resolver.Resolve(query)
	if !ok {
		return Outcome{Rejection: "Please specify a stock ticker (e.g., AAPL, MSFT, GOOGL) in your query."}
	}
	a.log.Debug().Str("ticker", ticker).Msg("ticker resolved")

	results := a.fetchAll(ctx, ticker)

	body := report.Synthesize(ticker, results)
	if a.augmenter != nil {
		body = body + "\n\n## AI Analysis\n\n" + a.augmenter.Augment(ctx, query, body)
	}

	return Outcome{Ticker: ticker, Report: body}
}

// fetchAll fans out over the independent gateway calls and joins the
// results. Concurrency here is a latency optimization only; no call
// depends on another.
func (a *Analyst) fetchAll(ctx context.Context, ticker string) map[polygon.DataKind]polygon.FetchResult {
	fetches := map[polygon.DataKind]func() polygon.FetchResult{
		polygon.KindDetails: func() polygon.FetchResult { return a.gateway.TickerDetails(ctx, ticker) },
		polygon.KindPrice:   func() polygon.FetchResult { return a.gateway.PriceSnapshot(ctx, ticker) },
		polygon.KindNews:    func() polygon.FetchResult { return a.gateway.News(ctx, ticker, newsFetchLimit) },
		polygon.KindAggregates: func() polygon.FetchResult {
			return a.gateway.Aggregates(ctx, ticker, polygon.AggregatesRange{})
		},
	}

	results := make(map[polygon.DataKind]polygon.FetchResult, len(fetches))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for kind, fetch := range fetches {
		wg.Add(1)
		go func(kind polygon.DataKind, fetch func() polygon.FetchResult) {
			defer wg.Done()
			res := fetch()
			mu.Lock()
			results[kind] = res
			mu.Unlock()
		}(kind, fetch)
	}
	wg.Wait()
	return results
}

// Save persists a finished report. Persistence errors propagate: the
// save is an explicit user action, not retried or swallowed.
func (a *Analyst) Save(content, ticker string) (string, error) {
	if a.store == nil {
		return "", fmt.Errorf("no report store configured")
	}
	path, err := a.store.Save(content, ticker)
	if err != nil {
		return "", fmt.Errorf("save report for %s: %w", ticker, err)
	}
	a.log.Info().Str("path", path).Msg("report saved")
	return path, nil
}
