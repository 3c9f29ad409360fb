// Package metrics exposes Prometheus counters for the checkout and
// delivery flow, served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for DeliveryErrors and SideEffectErrors.
const (
	ReasonValidation = "validation"
	ReasonUpstream   = "upstream"

	KindLabel = "label"
	KindEmail = "email"
	KindStore = "store"
)

var (
	DeliveriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxnow_deliveries_created_total",
		Help: "Delivery requests accepted by the carrier.",
	})

	DeliveryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boxnow_delivery_errors_total",
		Help: "Delivery requests that failed, by reason.",
	}, []string{"reason"})

	VouchersEmailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boxnow_vouchers_emailed_total",
		Help: "Voucher PDFs emailed to the back office.",
	})

	SideEffectErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boxnow_side_effect_errors_total",
		Help: "Post-response side effects that failed, by kind.",
	}, []string{"kind"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders persisted through the orders API.",
	})
)
