package normalize

import "strings"

// Mode is the carrier's payment mode for a delivery request.
type Mode string

const (
	ModePrepaid Mode = "prepaid"
	ModeCOD     Mode = "cod"
)

// Labels are matched case-insensitively with spaces, dashes and dots
// treated as underscores, so "Cash on Delivery", "cash-on-delivery" and
// "CASH_ON_DELIVERY" all land in the same bucket.
var prepaidLabels = map[string]struct{}{
	"prepaid":       {},
	"card":          {},
	"credit_card":   {},
	"creditcard":    {},
	"debit_card":    {},
	"stripe":        {},
	"paypal":        {},
	"wallet":        {},
	"apple_pay":     {},
	"google_pay":    {},
	"bank_transfer": {},
	"banktransfer":  {},
	"bank_deposit":  {},
	"deposit":       {},
	"online":        {},
	"iris":          {},
}

var codLabels = map[string]struct{}{
	"cod":              {},
	"cash":             {},
	"cash_on_delivery": {},
	"cashondelivery":   {},
	"pay_on_delivery":  {},
	"payondelivery":    {},
	"pay_on_pickup":    {},
	"payonpickup":      {},
	"antikatavoli":     {},
}

// PaymentMode maps a storefront payment-method label to a carrier
// payment mode. Unrecognized labels default to prepaid so that an
// unknown method never asks the carrier to collect cash.
func PaymentMode(label string) Mode {
	key := canonicalLabel(label)
	if _, ok := codLabels[key]; ok {
		return ModeCOD
	}
	if _, ok := prepaidLabels[key]; ok {
		return ModePrepaid
	}
	return ModePrepaid
}

var labelReplacer = strings.NewReplacer(" ", "_", "-", "_", ".", "_")

func canonicalLabel(label string) string {
	return labelReplacer.Replace(strings.ToLower(strings.TrimSpace(label)))
}
