package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a numeric price as currency with two decimals.
// nil renders as "N/A"; non-numeric values pass through unchanged.
func FormatPrice(v any) string {
	f, ok := asFloat(v)
	if !ok {
		if v == nil {
			return "N/A"
		}
		return fmt.Sprint(v)
	}
	return "$" + groupFloat(f, 2)
}

// FormatVolume renders a share count rescaled to millions or
// thousands: 2_500_000 -> "2.5M", 1500 -> "1.5K", 500 -> "500".
// The same rule applies anywhere a share count appears.
func FormatVolume(v any) string {
	f, ok := asFloat(v)
	if !ok {
		if v == nil {
			return "N/A"
		}
		return fmt.Sprint(v)
	}
	vol := int64(f)
	switch {
	case vol >= 1_000_000:
		return strconv.FormatFloat(float64(vol)/1_000_000, 'f', 1, 64) + "M"
	case vol >= 1_000:
		return strconv.FormatFloat(float64(vol)/1_000, 'f', 1, 64) + "K"
	default:
		return groupInt(vol)
	}
}

// FormatMarketCap rescales to billions or millions with one decimal,
// falling back to a thousands-separated integer below a million.
func FormatMarketCap(marketCap float64) string {
	switch {
	case marketCap >= 1_000_000_000:
		return "$" + strconv.FormatFloat(marketCap/1_000_000_000, 'f', 1, 64) + "B"
	case marketCap >= 1_000_000:
		return "$" + strconv.FormatFloat(marketCap/1_000_000, 'f', 1, 64) + "M"
	default:
		return "$" + groupInt(int64(marketCap))
	}
}

// FormatDailyChange computes close-open and the percent move. The
// second return value is false when open is zero, in which case no
// change line should be emitted at all.
func FormatDailyChange(open, close float64) (string, bool) {
	if open == 0 {
		return "", false
	}
	o := decimal.NewFromFloat(open)
	change := decimal.NewFromFloat(close).Sub(o)
	pct := change.Div(o).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("%s (%s%%)", signedFixed(change), signedFixed(pct)), true
}

func signedFixed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// groupInt renders an integer with thousands separators.
func groupInt(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func groupFloat(f float64, places int) string {
	s := strconv.FormatFloat(f, 'f', places, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	n, _ := strconv.ParseInt(intPart, 10, 64)
	out := groupInt(n)
	if neg {
		out = "-" + out
	}
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}
