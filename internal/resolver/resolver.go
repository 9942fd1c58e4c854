// Package resolver maps free-text financial queries to ticker symbols.
package resolver

import (
	"regexp"
	"strings"
)

type mapping struct {
	name   string
	ticker string
}

// companyTickers is checked in order; the first name found as a
// substring of the lowercased query wins. Order is a deterministic
// tie-break for queries naming more than one company, not a ranking.
var companyTickers = []mapping{
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"amazon", "AMZN"},
	{"tesla", "TSLA"},
	{"meta", "META"},
	{"facebook", "META"},
	{"nvidia", "NVDA"},
	{"netflix", "NFLX"},
	{"disney", "DIS"},
	{"walmart", "WMT"},
	{"coca cola", "KO"},
	{"pepsi", "PEP"},
	{"johnson", "JNJ"},
	{"visa", "V"},
	{"mastercard", "MA"},
	{"intel", "INTC"},
	{"amd", "AMD"},
	{"ibm", "IBM"},
	{"oracle", "ORCL"},
	{"salesforce", "CRM"},
	{"adobe", "ADBE"},
	{"zoom", "ZM"},
	{"uber", "UBER"},
	{"lyft", "LYFT"},
	{"airbnb", "ABNB"},
	{"spotify", "SPOT"},
	{"twitter", "TWTR"},
	{"snapchat", "SNAP"},
	{"pinterest", "PINS"},
	{"square", "SQ"},
	{"paypal", "PYPL"},
	{"coinbase", "COIN"},
	{"robinhood", "HOOD"},
}

// tickerPatterns is applied in order against the original-case query.
// The first pattern with at least one match wins and its first match
// is returned. The bare-token fallback can pick up incidental
// uppercase acronyms ("CEO", "USA"); that behavior is kept as is.
var tickerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z]{1,5})\b\s+(?:stock|price|shares|ticker)`),
	regexp.MustCompile(`(?:ticker|symbol)\s+([A-Z]{1,5})\b`),
	regexp.MustCompile(`\$([A-Z]{1,5})\b`),
	regexp.MustCompile(`\b([A-Z]{2,5})\b`),
}

// Resolve extracts a ticker symbol from a natural-language query.
// Known company names take precedence over symbol patterns. The
// second return value is false when nothing matched.
func Resolve(query string) (string, bool) {
	queryLower := strings.ToLower(query)

	for _, m := range companyTickers {
		if strings.Contains(queryLower, m.name) {
			return m.ticker, true
		}
	}

	for _, pattern := range tickerPatterns {
		match := pattern.FindStringSubmatch(query)
		if match == nil {
			continue
		}
		ticker := strings.ToUpper(match[1])
		if len(ticker) >= 1 && len(ticker) <= 5 {
			return ticker, true
		}
	}

	return "", false
}
