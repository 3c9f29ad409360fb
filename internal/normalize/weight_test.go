package normalize

import (
	"encoding/json"
	"math"
	"testing"
)

func TestWeight_UnitSuffixes(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"kilogram suffix", "3kg", 3},
		{"kilogram suffix with comma separator", "0,22kg", 0.22},
		{"kilogram suffix with dot separator", "0.22kg", 0.22},
		{"gram suffix", "220g", 0.22},
		{"gram suffix gr", "220gr", 0.22},
		{"gram suffix with comma separator", "1220,5g", 1.2205},
		{"suffix with surrounding space", " 2kg ", 2},
		{"uppercase suffix", "2KG", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Weight(tt.input)
			if !almostEqual(got, tt.want) {
				t.Errorf("Weight(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Unit-less weights above 50 are read as grams; this is the documented
// magnitude heuristic, so a genuine 60 kg value comes back as 0.06.
func TestWeight_BareNumberHeuristic(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"small number stays kilograms", float64(3), 3},
		{"boundary value stays kilograms", float64(50), 50},
		{"large number read as grams", float64(220), 0.22},
		{"large numeric string read as grams", "1500", 1.5},
		{"integer input", 12, 12},
		{"json number", json.Number("250"), 0.25},
		{"heavy kilogram value misread as grams", float64(60), 0.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Weight(tt.input)
			if !almostEqual(got, tt.want) {
				t.Errorf("Weight(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWeight_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"empty string", ""},
		{"garbage string", "heavy"},
		{"garbage with suffix", "heavykg"},
		{"negative number", float64(-2)},
		{"negative with suffix", "-2kg"},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"unsupported type", []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Weight(tt.input); got != 0 {
				t.Errorf("Weight(%v) = %v, want 0", tt.input, got)
			}
		})
	}
}

func TestTotalWeight(t *testing.T) {
	t.Run("explicit total wins over items", func(t *testing.T) {
		items := []ItemWeight{{Weight: "500g", Quantity: 4}}
		if got := TotalWeight("3kg", items); !almostEqual(got, 3) {
			t.Errorf("TotalWeight = %v, want 3", got)
		}
	})

	t.Run("items summed when no explicit total", func(t *testing.T) {
		items := []ItemWeight{
			{Weight: "500g", Quantity: 2}, // 1 kg
			{Weight: 0.25, Quantity: 4},   // 1 kg
		}
		if got := TotalWeight(nil, items); !almostEqual(got, 2) {
			t.Errorf("TotalWeight = %v, want 2", got)
		}
	})

	t.Run("missing quantity counts once", func(t *testing.T) {
		items := []ItemWeight{{Weight: "2kg"}}
		if got := TotalWeight(nil, items); !almostEqual(got, 2) {
			t.Errorf("TotalWeight = %v, want 2", got)
		}
	})

	t.Run("zero without any weight source", func(t *testing.T) {
		if got := TotalWeight(nil, nil); got != 0 {
			t.Errorf("TotalWeight = %v, want 0", got)
		}
	})

	t.Run("explicit zero falls through to items", func(t *testing.T) {
		items := []ItemWeight{{Weight: "250g", Quantity: 2}}
		if got := TotalWeight(0, items); !almostEqual(got, 0.5) {
			t.Errorf("TotalWeight = %v, want 0.5", got)
		}
	})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
