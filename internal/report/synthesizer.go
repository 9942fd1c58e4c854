// Package report merges independently fetched market data into one
// formatted markdown report. Failed or empty fetches degrade to a
// warning line or a skipped section; synthesis itself never fails.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/kaljuvee/polygon-mcp/internal/polygon"
)

// Disclaimer terminates every report, byte for byte.
const Disclaimer = "Not financial advice. For informational purposes only."

// newsLimit caps rendered articles regardless of how many the
// gateway returned.
const newsLimit = 3

// sectionOrder fixes the report layout; synthesis output depends only
// on its inputs, never on map iteration order.
var sectionOrder = []polygon.DataKind{
	polygon.KindDetails,
	polygon.KindPrice,
	polygon.KindAggregates,
	polygon.KindNews,
}

// Synthesize builds the report body for a resolved ticker from the
// per-kind fetch results. Kinds absent from the map are skipped.
func Synthesize(ticker string, results map[polygon.DataKind]polygon.FetchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Analysis for %s\n\n", ticker)

	for _, kind := range sectionOrder {
		res, ok := results[kind]
		if !ok {
			continue
		}
		if !res.OK() {
			fmt.Fprintf(&b, "Warning: could not fetch %s: %s\n\n", res.Kind, res.Failure.Detail)
			continue
		}
		switch kind {
		case polygon.KindDetails:
			writeDetails(&b, res)
		case polygon.KindPrice:
			writePrice(&b, res)
		case polygon.KindAggregates:
			writeAggregates(&b, res)
		case polygon.KindNews:
			writeNews(&b, res)
		}
	}

	b.WriteString("---\n")
	b.WriteString(Disclaimer)
	return b.String()
}

func writeDetails(b *strings.Builder, res polygon.FetchResult) {
	details, ok := resultsObject(res)
	if !ok || len(details) == 0 {
		return
	}

	fmt.Fprintf(b, "**Company:** %s\n", getString(details, "name"))
	fmt.Fprintf(b, "**Market:** %s\n", strings.ToUpper(getString(details, "market")))
	fmt.Fprintf(b, "**Type:** %s\n", getString(details, "type"))
	fmt.Fprintf(b, "**Currency:** %s\n", strings.ToUpper(getString(details, "currency_name")))

	if marketCap, ok := details["market_cap"].(float64); ok {
		fmt.Fprintf(b, "**Market Cap:** %s\n", FormatMarketCap(marketCap))
	}

	b.WriteString("\n")
}

func writePrice(b *strings.Builder, res polygon.FetchResult) {
	bar, ok := resultsObject(res)
	if !ok || len(bar) == 0 {
		return
	}

	// Last-trade responses carry a price field instead of OHLCV.
	if price, ok := bar["p"]; ok {
		b.WriteString("**Latest Trade:**\n")
		fmt.Fprintf(b, "- **Price:** %s\n", FormatPrice(price))
		if size, ok := bar["s"]; ok {
			fmt.Fprintf(b, "- **Size:** %s shares\n", FormatVolume(size))
		}
		b.WriteString("\n")
		return
	}

	b.WriteString("**Price Data:**\n")
	fmt.Fprintf(b, "- **Close:** %s\n", FormatPrice(bar["c"]))
	fmt.Fprintf(b, "- **Open:** %s\n", FormatPrice(bar["o"]))
	fmt.Fprintf(b, "- **High:** %s\n", FormatPrice(bar["h"]))
	fmt.Fprintf(b, "- **Low:** %s\n", FormatPrice(bar["l"]))
	fmt.Fprintf(b, "- **Volume:** %s shares\n", FormatVolume(bar["v"]))
	b.WriteString("\n")

	openPrice, haveOpen := bar["o"].(float64)
	closePrice, haveClose := bar["c"].(float64)
	if haveOpen && haveClose {
		if line, ok := FormatDailyChange(openPrice, closePrice); ok {
			fmt.Fprintf(b, "**Daily Change:** %s\n\n", line)
		}
	}
}

func writeAggregates(b *strings.Builder, res polygon.FetchResult) {
	raw, ok := res.Results()
	if !ok {
		return
	}
	bars, ok := raw.([]any)
	if !ok || len(bars) == 0 {
		return
	}

	var high, low float64
	var totalVolume float64
	first := true
	for _, item := range bars {
		bar, ok := item.(map[string]any)
		if !ok {
			continue
		}
		h, _ := bar["h"].(float64)
		l, _ := bar["l"].(float64)
		v, _ := bar["v"].(float64)
		if first {
			high, low = h, l
			first = false
		} else {
			if h > high {
				high = h
			}
			if l < low {
				low = l
			}
		}
		totalVolume += v
	}
	if first {
		return
	}

	b.WriteString("**Price History:**\n")
	fmt.Fprintf(b, "- **Bars:** %d\n", len(bars))
	fmt.Fprintf(b, "- **Period High:** %s\n", FormatPrice(high))
	fmt.Fprintf(b, "- **Period Low:** %s\n", FormatPrice(low))
	fmt.Fprintf(b, "- **Avg Volume:** %s shares\n", FormatVolume(totalVolume/float64(len(bars))))
	b.WriteString("\n")
}

func writeNews(b *strings.Builder, res polygon.FetchResult) {
	raw, ok := res.Results()
	if !ok {
		return
	}
	articles, ok := raw.([]any)
	if !ok || len(articles) == 0 {
		return
	}
	if len(articles) > newsLimit {
		articles = articles[:newsLimit]
	}

	b.WriteString("**Recent News:**\n")
	for _, item := range articles {
		article, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := getStringDefault(article, "title", "No title")
		url := getStringDefault(article, "article_url", "#")
		published := getStringDefault(article, "published_utc", "Unknown date")
		fmt.Fprintf(b, "- [%s](%s) - %s\n", title, url, normalizeTimestamp(published))
	}
	b.WriteString("\n")
}

// normalizeTimestamp reformats an RFC 3339 publish time, falling back
// to the raw string when it cannot be parsed.
func normalizeTimestamp(published string) string {
	t, err := time.Parse(time.RFC3339, published)
	if err != nil {
		return published
	}
	return t.Format("2006-01-02 15:04")
}

// resultsObject unwraps the "results" field as a single object. Some
// endpoints wrap it in a one-element list.
func resultsObject(res polygon.FetchResult) (map[string]any, bool) {
	raw, ok := res.Results()
	if !ok {
		return nil, false
	}
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case []any:
		if len(v) == 0 {
			return nil, false
		}
		obj, ok := v[0].(map[string]any)
		return obj, ok
	default:
		return nil, false
	}
}

func getString(m map[string]any, key string) string {
	return getStringDefault(m, key, "N/A")
}

func getStringDefault(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return def
}
