package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// grams-per-kilogram heuristic threshold for unit-less weights
const bareGramsThreshold = 50

// Weight resolves a weight value to kilograms. It accepts numbers and
// strings carrying an optional unit suffix ("kg", "g", "gr") with either
// "." or "," as the decimal separator.
//
// Unit-less values are disambiguated by magnitude: anything above 50 is
// taken as grams and divided by 1000, anything else as kilograms already.
// A genuine kilogram value above 50 is therefore misread as grams; the
// carrier ceiling of 12 kg keeps such parcels out of range either way, so
// the shortcut has survived every revision of this service.
//
// Invalid, negative or non-finite input resolves to 0.
func Weight(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case string:
		return weightFromString(n)
	case json.Number:
		return weightFromString(n.String())
	case float64:
		return bareWeight(n)
	case float32:
		return bareWeight(float64(n))
	case int:
		return bareWeight(float64(n))
	case int64:
		return bareWeight(float64(n))
	default:
		return 0
	}
}

func weightFromString(s string) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	grams := false
	switch {
	case strings.HasSuffix(s, "kg"):
		s = strings.TrimSuffix(s, "kg")
	case strings.HasSuffix(s, "gr"):
		s = strings.TrimSuffix(s, "gr")
		grams = true
	case strings.HasSuffix(s, "g"):
		s = strings.TrimSuffix(s, "g")
		grams = true
	default:
		// no unit: fall back to the magnitude heuristic
		if n, err := parseFloat(s); err == nil {
			return bareWeight(n)
		}
		return 0
	}

	n, err := parseFloat(s)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if grams {
		return n / 1000
	}
	return n
}

func bareWeight(n float64) float64 {
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if n > bareGramsThreshold {
		return n / 1000
	}
	return n
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// ItemWeight is the per-line-item input to TotalWeight.
type ItemWeight struct {
	Weight   any
	Quantity int
}

// TotalWeight resolves an order's total weight in kilograms: an explicit
// total wins, otherwise the per-item weights are normalized and summed.
// Items without a quantity count once.
func TotalWeight(explicit any, items []ItemWeight) float64 {
	if w := Weight(explicit); w > 0 {
		return w
	}

	var total float64
	for _, it := range items {
		q := it.Quantity
		if q <= 0 {
			q = 1
		}
		total += Weight(it.Weight) * float64(q)
	}
	return total
}
