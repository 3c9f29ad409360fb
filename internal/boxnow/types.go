// Package boxnow is a typed client for the BoxNow locker-delivery REST
// API: credential exchange with a cached bearer token, delivery-request
// creation, origin/destination listing and voucher (label PDF) download.
package boxnow

// Carrier limits and enums.
const (
	// MaxWeightKg is the ceiling the carrier accepts per delivery request.
	MaxWeightKg = 12.0

	// OriginAnyAPM is the origin location id meaning "any automated
	// pickup machine"; it requires a compartment-size hint per item.
	OriginAnyAPM = "AnyAPM"

	CompartmentMedium = 2
	CompartmentLarge  = 3

	compartmentMediumMaxKg = 5.0
)

// CompartmentForWeight sizes a parcel compartment from its weight.
func CompartmentForWeight(weightKg float64) int {
	if weightKg <= compartmentMediumMaxKg {
		return CompartmentMedium
	}
	return CompartmentLarge
}

// Contact is an origin or destination block of a delivery request.
type Contact struct {
	LocationID    string `json:"locationId"`
	ContactName   string `json:"contactName,omitempty"`
	ContactEmail  string `json:"contactEmail,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Country       string `json:"country,omitempty"`
}

// Item is a parcel line of a delivery request. Orders are collapsed to
// a single synthetic parcel carrying the whole cart's aggregate weight
// and value rather than one item per cart line.
type Item struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Value           string  `json:"value"`
	Weight          float64 `json:"weight"`
	CompartmentSize int     `json:"compartmentSize,omitempty"`
}

// DeliveryRequest is the canonical payload for POST /api/v1/delivery-requests.
type DeliveryRequest struct {
	OrderNumber         string  `json:"orderNumber"`
	InvoiceValue        string  `json:"invoiceValue"`
	PaymentMode         string  `json:"paymentMode"`
	AmountToBeCollected string  `json:"amountToBeCollected"`
	AllowReturn         bool    `json:"allowReturn"`
	Origin              Contact `json:"origin"`
	Destination         Contact `json:"destination"`
	Items               []Item  `json:"items"`
}

// DeliveryResponse is the carrier's answer to a created delivery request.
type DeliveryResponse struct {
	ID      string   `json:"id"`
	Parcels []Parcel `json:"parcels"`
}

// Parcel identifies one created parcel; its id doubles as the tracking
// number on the carrier's public tracking page.
type Parcel struct {
	ID string `json:"id"`
}

// ParcelIDs returns the created parcel identifiers in order.
func (r *DeliveryResponse) ParcelIDs() []string {
	ids := make([]string, 0, len(r.Parcels))
	for _, p := range r.Parcels {
		ids = append(ids, p.ID)
	}
	return ids
}
