package models

import (
	"strings"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/normalize"
)

// CheckoutPayload is the union of every inbound checkout shape this
// service has accepted across storefront revisions: flat fields, nested
// customer/destination objects, split first/last names, and assorted
// aliases for the same logical value. No schema is enforced at decode
// time; each logical field has exactly one Resolve method that applies
// the alias precedence.
type CheckoutPayload struct {
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`

	InvoiceValue FlexString `json:"invoiceValue"`
	Total        FlexString `json:"total"`

	PaymentMode   string `json:"paymentMode"`
	PaymentMethod string `json:"paymentMethod"`

	// flat customer fields
	CustomerName string `json:"customerName"`
	Name         string `json:"name"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Mobile       string `json:"mobile"`

	Customer *CustomerInfo `json:"customer"`

	// destination locker aliases
	DestinationLocationID string           `json:"destinationLocationId"`
	LockerID              string           `json:"lockerId"`
	BoxnowLockerID        string           `json:"boxnowLockerId"`
	Destination           *DestinationInfo `json:"destination"`

	// weight aliases; per-item weights are the fallback
	CartWeightKg FlexString `json:"cartWeightKg"`
	TotalWeight  FlexString `json:"totalWeight"`
	Weight       FlexString `json:"weight"`

	Items []CheckoutItem `json:"items"`

	PromoCode string `json:"promoCode"`
}

// CustomerInfo is the nested customer object variant.
type CustomerInfo struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Mobile    string `json:"mobile"`
}

// DestinationInfo is the nested destination object variant.
type DestinationInfo struct {
	LocationID string `json:"locationId"`
	LockerID   string `json:"lockerId"`
}

// CheckoutItem is a cart line item.
type CheckoutItem struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Quantity int        `json:"quantity"`
	Price    FlexString `json:"price"`
	Weight   FlexString `json:"weight"`
}

// ResolveOrderNumber returns the caller-supplied order identifier or ""
// when none was sent (the orchestrator then generates one).
func (p *CheckoutPayload) ResolveOrderNumber() string {
	if p.OrderNumber != "" {
		return p.OrderNumber
	}
	return p.OrderID
}

// ResolveCustomer flattens the customer aliases into a single contact.
// The nested customer object wins over flat fields; split first/last
// names are joined when no full name is present.
func (p *CheckoutPayload) ResolveCustomer() Customer {
	c := Customer{}

	if p.Customer != nil {
		c.Name = firstNonEmpty(p.Customer.Name, joinName(p.Customer.FirstName, p.Customer.LastName))
		c.Email = p.Customer.Email
		c.Phone = firstNonEmpty(p.Customer.Phone, p.Customer.Mobile)
	}

	c.Name = firstNonEmpty(c.Name, p.CustomerName, p.Name, joinName(p.FirstName, p.LastName))
	c.Email = firstNonEmpty(c.Email, p.Email)
	c.Phone = firstNonEmpty(c.Phone, p.Phone, p.Mobile)

	return c
}

// ResolveLockerID returns the destination locker identifier from any of
// its aliases.
func (p *CheckoutPayload) ResolveLockerID() string {
	id := firstNonEmpty(p.DestinationLocationID, p.LockerID, p.BoxnowLockerID)
	if id == "" && p.Destination != nil {
		id = firstNonEmpty(p.Destination.LocationID, p.Destination.LockerID)
	}
	return id
}

// ResolveWeightInput returns the explicit total-weight value (if any
// alias was sent) and the per-item fallback weights.
func (p *CheckoutPayload) ResolveWeightInput() (explicit any, items []normalize.ItemWeight) {
	if s := firstNonEmpty(p.CartWeightKg.String(), p.TotalWeight.String(), p.Weight.String()); s != "" {
		explicit = s
	}

	items = make([]normalize.ItemWeight, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, normalize.ItemWeight{Weight: it.Weight.String(), Quantity: it.Quantity})
	}
	return explicit, items
}

// ResolveInvoiceValue returns the order's monetary value from whichever
// alias was sent.
func (p *CheckoutPayload) ResolveInvoiceValue() any {
	return firstNonEmpty(p.InvoiceValue.String(), p.Total.String())
}

// ResolvePaymentLabel returns the raw payment-method label.
func (p *CheckoutPayload) ResolvePaymentLabel() string {
	return firstNonEmpty(p.PaymentMode, p.PaymentMethod)
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
