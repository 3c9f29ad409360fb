package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/config"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/metrics"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/normalize"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/promo"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/store"
)

// OrdersHandler persists locally-computed orders and serves lookups.
// Totals are always computed server-side from the submitted line items;
// client-sent totals are ignored.
type OrdersHandler struct {
	store     store.Store
	validator *promo.Validator
	shipping  config.ShippingConfig
	discount  int
	log       *slog.Logger
	now       func() time.Time
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(st store.Store, validator *promo.Validator, shipping config.ShippingConfig, discountPercent int, log *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		store:     st,
		validator: validator,
		shipping:  shipping,
		discount:  discountPercent,
		log:       log,
		now:       time.Now,
	}
}

type createOrderResponse struct {
	Success     bool               `json:"success"`
	OrderID     string             `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Totals      models.OrderTotals `json:"totals"`
}

// Create handles POST /api/orders/create
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload models.CheckoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Error("failed to decode order payload", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if len(payload.Items) == 0 {
		WriteError(w, http.StatusBadRequest, "Order must contain at least one item", h.log)
		return
	}
	customer := payload.ResolveCustomer()
	if customer.Name == "" || customer.Email == "" {
		WriteError(w, http.StatusBadRequest, "Customer name and email are required", h.log)
		return
	}

	promoValid := false
	if payload.PromoCode != "" {
		promoValid = h.validator.IsValid(payload.PromoCode)
		if !promoValid {
			WriteError(w, http.StatusBadRequest, "Promo code is not valid", h.log)
			return
		}
	}

	orderNumber := payload.ResolveOrderNumber()
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("ORD-%d", h.now().UnixMilli())
	}

	items := make([]models.OrderItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, models.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    normalize.Money(it.Price.String()),
			WeightKg: normalize.Weight(it.Weight.String()),
		})
	}

	paymentLabel := payload.ResolvePaymentLabel()
	order := &models.Order{
		ID:          uuid.NewString(),
		OrderNumber: orderNumber,
		Items:       items,
		Customer:    customer,
		Totals:      h.computeTotals(payload.Items, promoValid),
		Metadata: models.OrderMetadata{
			Payment: &models.PaymentMeta{
				Method: paymentLabel,
				Mode:   string(normalize.PaymentMode(paymentLabel)),
			},
		},
		Status:    models.StatusCreated,
		CreatedAt: h.now().UTC(),
	}

	if err := h.store.Create(r.Context(), order); err != nil {
		if errors.Is(err, store.ErrExists) {
			WriteError(w, http.StatusConflict, "Order already exists", h.log)
			return
		}
		h.log.Error("failed to persist order", "order", orderNumber, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to persist order", h.log)
		return
	}

	metrics.OrdersCreated.Inc()
	h.log.Info("order created", "order", orderNumber, "items", len(order.Items), "total", order.Totals.Total)

	WriteJSON(w, http.StatusOK, createOrderResponse{
		Success:     true,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Totals:      order.Totals,
	}, h.log)
}

// Get handles GET /api/orders/{orderNumber}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := h.store.Get(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
			return
		}
		h.log.Error("failed to load order", "order", orderNumber, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load order", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// computeTotals derives the server-trusted totals: subtotal from the
// line items, flat-rate shipping waived above the free-shipping
// threshold, and the configured percent discount when a valid promo
// code was sent.
func (h *OrdersHandler) computeTotals(items []models.CheckoutItem, promoValid bool) models.OrderTotals {
	subtotal := decimal.Zero
	for _, it := range items {
		price := normalize.MoneyDecimal(it.Price.String())
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	shipping := decimal.Zero
	if flat, err := decimal.NewFromString(h.shipping.FlatRate); err == nil {
		shipping = flat
	}
	if freeOver, err := decimal.NewFromString(h.shipping.FreeOver); err == nil && !freeOver.IsZero() {
		if subtotal.GreaterThanOrEqual(freeOver) {
			shipping = decimal.Zero
		}
	}

	discount := decimal.Zero
	if promoValid && h.discount > 0 {
		discount = subtotal.Mul(decimal.NewFromInt(int64(h.discount))).
			Div(decimal.NewFromInt(100)).Round(2)
	}

	total := subtotal.Sub(discount).Add(shipping)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return models.OrderTotals{
		Subtotal: subtotal.StringFixed(2),
		Shipping: shipping.StringFixed(2),
		Discount: discount.StringFixed(2),
		Total:    total.StringFixed(2),
	}
}
