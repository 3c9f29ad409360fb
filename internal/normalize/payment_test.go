package normalize

import "testing"

func TestPaymentMode(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Mode
	}{
		{"card", "card", ModePrepaid},
		{"credit card with space", "Credit Card", ModePrepaid},
		{"paypal", "PayPal", ModePrepaid},
		{"bank transfer", "bank-transfer", ModePrepaid},
		{"explicit prepaid", "prepaid", ModePrepaid},
		{"apple pay", "Apple Pay", ModePrepaid},
		{"cod", "COD", ModeCOD},
		{"cash", "cash", ModeCOD},
		{"cash on delivery spaced", "Cash on Delivery", ModeCOD},
		{"cash on delivery dashed", "cash-on-delivery", ModeCOD},
		{"pay on pickup", "pay_on_pickup", ModeCOD},
		{"greek cod label", "antikatavoli", ModeCOD},
		{"unknown label defaults to prepaid", "barter", ModePrepaid},
		{"empty label defaults to prepaid", "", ModePrepaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaymentMode(tt.label); got != tt.want {
				t.Errorf("PaymentMode(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}
