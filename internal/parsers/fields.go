// =============================================================================
// Freight Tracker - Field Parsers
// =============================================================================
//
// Pure conversion functions from raw cell values to typed values. A raw value
// is whatever the source extracted: a string, a Go number, a time.Time, a
// decimal.Decimal or nil.
//
// CONTRACT:
//   Every parser is total. Unparseable input yields the documented default
//   (zero, nil, empty string or empty list) and never an error or a panic.
//
// PARSERS:
//   - Currency   : "R$ 1.234,56" -> 1234.56
//   - Integer    : "1.250 km"    -> 1250
//   - LocalDate  : see date.go
//   - SplitMulti : "A1; B2,  C3" -> [A1 B2 C3]
//   - FirstURL   : "veja https://maps.app/x" -> "https://maps.app/x"
//   - Text       : any raw value -> trimmed display text
//
// =============================================================================

package parsers

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	currencySymbol   = regexp.MustCompile(`(?i)R\$\s*`)
	nonCurrencyChars = regexp.MustCompile(`[^0-9,.\-]`)
	nonDigits        = regexp.MustCompile(`[^0-9]`)
	multiSeparator   = regexp.MustCompile(`[;,\r\n]+|\s{2,}`)
	firstURL         = regexp.MustCompile(`(?i)https?://[^\s]+`)
)

// =============================================================================
// CURRENCY
// =============================================================================

// Currency parses a monetary value written in Brazilian notation.
//
// PARAMETERS:
//   - v: a string such as "R$ 1.234,56", or a native number.
//
// RETURNS:
//   - The decimal amount. Empty or invalid input returns zero.
//
// NOTES:
//   Every "." in a string is a thousands separator and "," is the decimal
//   mark, so "1500.5" reads as 15005. Native numbers pass through unchanged,
//   including their sign.
func Currency(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		return Currency(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case int32:
		return decimal.NewFromInt(int64(x))
	case string:
		return parseCurrencyText(x)
	case time.Time, bool:
		return decimal.Zero
	default:
		return parseCurrencyText(fmt.Sprint(x))
	}
}

func parseCurrencyText(s string) decimal.Decimal {
	s = currencySymbol.ReplaceAllString(s, "")
	s = nonCurrencyChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	if s == "" || s == "-" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// INTEGER
// =============================================================================

// Integer parses a non-negative whole number.
//
// Strings keep only their digits ("1.250 km" -> 1250). Native numbers are
// truncated. Negative, NaN and overflowing values return 0.
func Integer(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case int:
		return max(x, 0)
	case int64:
		return Integer(float64(x))
	case int32:
		return max(int(x), 0)
	case float32:
		return Integer(float64(x))
	case float64:
		if math.IsNaN(x) || x < 0 || x > math.MaxInt32 {
			return 0
		}
		return int(x)
	case decimal.Decimal:
		if x.IsNegative() {
			return 0
		}
		return Integer(x.IntPart())
	case string:
		digits := nonDigits.ReplaceAllString(x, "")
		if digits == "" {
			return 0
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// =============================================================================
// MULTI-VALUE AND URL
// =============================================================================

// SplitMulti splits a multi-valued cell (chassis lists, mostly).
//
// Separators are semicolons, commas, newlines and runs of two or more
// whitespace characters. Entries are trimmed, empty entries dropped and
// order preserved. Empty input returns an empty, non-nil list.
func SplitMulti(v any) []string {
	text := Text(v)
	out := []string{}
	if text == "" {
		return out
	}

	for _, part := range multiSeparator.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FirstURL returns the first http(s) link found in v, or "".
func FirstURL(v any) string {
	return firstURL.FindString(Text(v))
}

// =============================================================================
// TEXT
// =============================================================================

// Text renders any raw value as trimmed display text.
// Dates render as DD/MM/YYYY; whole floats render without a fraction.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return Text(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("02/01/2006")
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return strings.TrimSpace(x.String())
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// IsBlank reports whether v carries no displayable content.
func IsBlank(v any) bool {
	return Text(v) == ""
}
