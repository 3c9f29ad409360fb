package models

import "time"

// Order statuses. An order is created once and mutated in place as the
// carrier result and voucher outcome become known; it is never deleted.
const (
	StatusCreated      = "created"
	StatusShipping     = "shipping"
	StatusCarrierError = "carrier_error"
)

// Order is the locally stored order record.
type Order struct {
	ID          string        `json:"id"`
	OrderNumber string        `json:"orderNumber"`
	Items       []OrderItem   `json:"items"`
	Customer    Customer      `json:"customer"`
	Totals      OrderTotals   `json:"totals"`
	Metadata    OrderMetadata `json:"metadata"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// OrderItem is a stored cart line with server-normalized price and weight.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    string  `json:"price"`
	WeightKg float64 `json:"weightKg,omitempty"`
}

// Customer is the resolved customer contact.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderTotals are the server-trusted totals, two-decimal strings.
type OrderTotals struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// OrderMetadata groups the integration outcomes recorded against an
// order after creation. Sub-objects are replaced wholesale on update;
// absent ones survive (shallow merge).
type OrderMetadata struct {
	Payment *PaymentMeta `json:"payment,omitempty"`
	Carrier *CarrierMeta `json:"carrier,omitempty"`
}

// PaymentMeta records how the order is being paid.
type PaymentMeta struct {
	Method   string `json:"method,omitempty"`
	Mode     string `json:"mode,omitempty"`
	IntentID string `json:"intentId,omitempty"`
}

// CarrierMeta records the delivery-request outcome.
type CarrierMeta struct {
	LockerID       string     `json:"lockerId,omitempty"`
	ParcelID       string     `json:"parcelId,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	LabelURL       string     `json:"labelUrl,omitempty"`
	Error          string     `json:"error,omitempty"`
	VoucherSentAt  *time.Time `json:"voucherSentAt,omitempty"`
}
