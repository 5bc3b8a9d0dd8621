package normalize

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reCurrency    = regexp.MustCompile(`[₹$,]`)
	rePlaceholder = regexp.MustCompile(`(?i)(price.*request|na|n/?a|none|null)`)
)

// Price parses a monetary cell such as "₹12,500.50" or "$1,000".
// Placeholders ("Price on request", "NA", "none", "null") and anything
// unparseable yield an invalid NullDecimal. No rounding is applied.
func Price(v any) decimal.NullDecimal {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(t))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(t))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(t)))
	}

	s, ok := Text(v)
	if !ok {
		return decimal.NullDecimal{}
	}
	s = strings.TrimSpace(reCurrency.ReplaceAllString(s, ""))
	if s == "" || rePlaceholder.MatchString(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
