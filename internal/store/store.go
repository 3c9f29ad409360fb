// Package store persists local order records keyed by order number.
// Orders are created once and patched in place as carrier and voucher
// outcomes arrive; every driver guarantees atomic per-record updates.
package store

import (
	"context"
	"errors"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrExists   = errors.New("order already exists")
)

// Store is the narrow surface the rest of the service sees.
type Store interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderNumber string) (*models.Order, error)
	Update(ctx context.Context, orderNumber string, patch Patch) (*models.Order, error)
}

// Patch mutates selected parts of a stored order. An empty Status is
// left unchanged; non-nil metadata sub-objects replace the stored ones
// wholesale while absent ones survive (shallow merge).
type Patch struct {
	Status  string
	Payment *models.PaymentMeta
	Carrier *models.CarrierMeta
}

func (p Patch) apply(o *models.Order) {
	if p.Status != "" {
		o.Status = p.Status
	}
	if p.Payment != nil {
		meta := *p.Payment
		o.Metadata.Payment = &meta
	}
	if p.Carrier != nil {
		meta := *p.Carrier
		o.Metadata.Carrier = &meta
	}
}

// clone copies an order deeply enough that callers can't alias stored
// state through slices or metadata pointers.
func clone(o *models.Order) *models.Order {
	cp := *o
	if o.Items != nil {
		cp.Items = make([]models.OrderItem, len(o.Items))
		copy(cp.Items, o.Items)
	}
	if o.Metadata.Payment != nil {
		p := *o.Metadata.Payment
		cp.Metadata.Payment = &p
	}
	if o.Metadata.Carrier != nil {
		c := *o.Metadata.Carrier
		cp.Metadata.Carrier = &c
	}
	return &cp
}
