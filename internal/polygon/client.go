// Package polygon is the outbound gateway to the Polygon.io market
// data API. Every call issues one HTTP request with a bounded timeout
// and reports its outcome as a FetchResult; errors never escape the
// package as Go errors. Calls are independent and carry no retries.
package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/kaljuvee/polygon-mcp/internal/config"
)

const defaultAggregatesWindow = 30 * 24 * time.Hour

type Client struct {
	http        *resty.Client
	log         zerolog.Logger
	priceSource string
	newsLimit   int
}

func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.PolygonBaseURL)
	client.SetTimeout(time.Duration(cfg.RequestTimeout) * time.Second)
	client.SetHeader("User-Agent", "polygon-mcp/1.0")
	client.SetQueryParam("apikey", cfg.PolygonAPIKey)

	return &Client{
		http:        client,
		log:         log,
		priceSource: cfg.PriceSource,
		newsLimit:   cfg.NewsLimit,
	}
}

// TickerDetails fetches reference data for a ticker.
func (c *Client) TickerDetails(ctx context.Context, ticker string) FetchResult {
	return c.get(ctx, KindDetails, "/v3/reference/tickers/"+ticker, nil)
}

// PriceSnapshot fetches the configured price view: the previous-day
// bar or the last trade. Callers must not assume which.
func (c *Client) PriceSnapshot(ctx context.Context, ticker string) FetchResult {
	if c.priceSource == config.PriceSourceLastTrade {
		return c.get(ctx, KindPrice, "/v2/last/trade/"+ticker, nil)
	}
	return c.get(ctx, KindPrice, fmt.Sprintf("/v2/aggs/ticker/%s/prev", ticker), nil)
}

// News fetches recent articles for a ticker. The limit is clamped to
// the configured maximum here rather than trusted from the caller.
func (c *Client) News(ctx context.Context, ticker string, limit int) FetchResult {
	if limit <= 0 || limit > c.newsLimit {
		limit = c.newsLimit
	}
	return c.get(ctx, KindNews, "/v2/reference/news", map[string]string{
		"ticker": ticker,
		"limit":  strconv.Itoa(limit),
	})
}

// AggregatesRange bounds an Aggregates request. Zero values fall back
// to daily bars over the last 30 days.
type AggregatesRange struct {
	Multiplier int
	Timespan   string
	From       time.Time
	To         time.Time
}

// Aggregates fetches historical bars for a ticker.
func (c *Client) Aggregates(ctx context.Context, ticker string, rng AggregatesRange) FetchResult {
	if rng.Multiplier <= 0 {
		rng.Multiplier = 1
	}
	if rng.Timespan == "" {
		rng.Timespan = "day"
	}
	if rng.To.IsZero() {
		rng.To = time.Now()
	}
	if rng.From.IsZero() {
		rng.From = rng.To.Add(-defaultAggregatesWindow)
	}

	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/%d/%s/%s/%s",
		ticker, rng.Multiplier, rng.Timespan,
		rng.From.Format("2006-01-02"), rng.To.Format("2006-01-02"))
	return c.get(ctx, KindAggregates, path, nil)
}

// MarketStatus fetches the current trading status of the exchanges.
func (c *Client) MarketStatus(ctx context.Context) FetchResult {
	return c.get(ctx, KindMarketStatus, "/v1/marketstatus/now", nil)
}

func (c *Client) get(ctx context.Context, kind DataKind, path string, params map[string]string) FetchResult {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		fk := FailureTransport
		if isTimeout(err) {
			fk = FailureTimeout
		}
		c.log.Warn().Str("kind", string(kind)).Err(err).Msg("polygon request failed")
		return failure(kind, fk, fmt.Sprintf("request failed: %v", err))
	}

	if resp.StatusCode() != http.StatusOK {
		c.log.Warn().Str("kind", string(kind)).Int("status", resp.StatusCode()).Msg("polygon non-OK response")
		return failure(kind, FailureHTTPStatus,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String())))
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return failure(kind, FailureTransport, fmt.Sprintf("malformed response: %v", err))
	}

	return success(kind, payload)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
