package normalize

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"float", 12.5, "12.50"},
		{"float rounding", 12.345, "12.35"},
		{"integer", 12, "12.00"},
		{"int64", int64(7), "7.00"},
		{"numeric string", "19.9", "19.90"},
		{"numeric string with comma", "19,90", "19.90"},
		{"json number", json.Number("3.1"), "3.10"},
		{"zero", 0, "0.00"},
		{"nil", nil, "0.00"},
		{"empty string", "", "0.00"},
		{"garbage string", "abc", "0.00"},
		{"negative clamps to zero", -5.0, "0.00"},
		{"negative string clamps to zero", "-5", "0.00"},
		{"NaN", math.NaN(), "0.00"},
		{"infinity", math.Inf(1), "0.00"},
		{"unsupported type", struct{}{}, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Money(tt.input); got != tt.want {
				t.Errorf("Money(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyDecimal(t *testing.T) {
	d := MoneyDecimal("12,40")
	if d.StringFixed(2) != "12.40" {
		t.Errorf("MoneyDecimal(\"12,40\") = %s, want 12.40", d)
	}

	if !MoneyDecimal(nil).IsZero() {
		t.Error("MoneyDecimal(nil) should be zero")
	}
}
