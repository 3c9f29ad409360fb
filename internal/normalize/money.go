// Package normalize converts the loosely-typed values arriving from
// storefront checkouts (money, weights, phone numbers, payment-method
// labels) into the canonical shapes the carrier API requires. All
// functions are pure and tolerate missing or malformed input.
package normalize

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money coerces a numeric or numeric-string value to a non-negative
// amount formatted with exactly two decimal digits. Missing, malformed,
// negative or non-finite input yields "0.00".
func Money(v any) string {
	return MoneyDecimal(v).StringFixed(2)
}

// MoneyDecimal is Money without the final formatting step.
func MoneyDecimal(v any) decimal.Decimal {
	d, ok := toDecimal(v)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return n, true
	case string:
		return parseDecimalString(n)
	case json.Number:
		return parseDecimalString(n.String())
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return toDecimal(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}

// parseDecimalString accepts both "." and "," as the decimal separator.
func parseDecimalString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
