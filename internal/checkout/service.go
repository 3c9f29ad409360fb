// Package checkout turns loosely-shaped storefront payloads into
// BoxNow delivery requests and runs the follow-up side effects.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/boxnow"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/mail"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/metrics"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/normalize"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/store"
)

// Validation error codes returned to storefront callers.
const (
	CodeMissingDestination   = "MISSING_DESTINATION_LOCATION"
	CodeMissingCustomerName  = "MISSING_CUSTOMER_NAME"
	CodeMissingCustomerEmail = "MISSING_CUSTOMER_EMAIL"
	CodeMissingCustomerPhone = "MISSING_CUSTOMER_PHONE"
	CodeMissingWeight        = "MISSING_WEIGHT"
	CodeMaxWeightExceeded    = "BOXNOW_MAX_WEIGHT_EXCEEDED"
)

// ValidationError rejects a payload before any carrier call is made.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Gateway is the slice of the carrier client the orchestrator uses.
type Gateway interface {
	CreateDeliveryRequest(ctx context.Context, req *boxnow.DeliveryRequest) (*boxnow.DeliveryResponse, error)
	Label(ctx context.Context, orderNumber string) ([]byte, error)
}

// Dispatcher schedules detached background work. Submitted functions
// run outside the request lifecycle and must never block the caller.
type Dispatcher interface {
	Submit(name string, fn func(context.Context))
}

// Options carry the deployment-level delivery settings.
type Options struct {
	OriginLocationID string
	OriginName       string
	OriginEmail      string
	OriginPhone      string
	Country          string

	CODEnabled   bool
	ForcePrepaid bool
	PhoneFormat  normalize.PhoneFormat
}

// Result is the success payload for a created delivery request.
type Result struct {
	OrderNumber string   `json:"orderNumber"`
	TrackingIDs []string `json:"trackingIds"`
	VoucherURL  string   `json:"voucherUrl"`
}

// Service orchestrates delivery-request creation. The store and mailer
// are optional; a nil store skips order metadata recording and a nil
// mailer disables voucher email.
type Service struct {
	gateway    Gateway
	store      store.Store
	mailer     mail.Mailer
	dispatcher Dispatcher
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(gateway Gateway, st store.Store, mailer mail.Mailer, dispatcher Dispatcher, opts Options, logger *slog.Logger) *Service {
	if opts.Country == "" {
		opts.Country = "GR"
	}
	return &Service{
		gateway:    gateway,
		store:      st,
		mailer:     mailer,
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateDeliveryRequest validates and normalizes a checkout payload,
// submits it to the carrier and schedules the voucher email. Upstream
// failures are returned as *boxnow.APIError so the handler can relay
// the carrier's status and body verbatim.
func (s *Service) CreateDeliveryRequest(ctx context.Context, payload *models.CheckoutPayload) (*Result, error) {
	orderNumber := payload.ResolveOrderNumber()
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("ORD-%d", s.now().UnixMilli())
	}

	customer := payload.ResolveCustomer()
	lockerID := payload.ResolveLockerID()

	if lockerID == "" {
		return nil, s.reject(CodeMissingDestination, "destination locker id is required")
	}
	if customer.Name == "" {
		return nil, s.reject(CodeMissingCustomerName, "customer name is required")
	}
	if customer.Email == "" {
		return nil, s.reject(CodeMissingCustomerEmail, "customer email is required")
	}
	phone := normalize.Phone(customer.Phone, s.opts.PhoneFormat)
	if phone == "" {
		return nil, s.reject(CodeMissingCustomerPhone, "customer phone is required")
	}

	explicit, items := payload.ResolveWeightInput()
	weightKg := normalize.TotalWeight(explicit, items)
	if weightKg <= 0 {
		return nil, s.reject(CodeMissingWeight, "order weight is missing or zero")
	}
	if weightKg > boxnow.MaxWeightKg {
		return nil, s.reject(CodeMaxWeightExceeded,
			fmt.Sprintf("order weight %.3f kg exceeds the %.0f kg locker limit", weightKg, boxnow.MaxWeightKg))
	}

	mode := normalize.PaymentMode(payload.ResolvePaymentLabel())
	if s.opts.ForcePrepaid || !s.opts.CODEnabled {
		mode = normalize.ModePrepaid
	}

	invoiceValue := normalize.Money(payload.ResolveInvoiceValue())
	amountToBeCollected := "0.00"
	if mode == normalize.ModeCOD {
		amountToBeCollected = invoiceValue
	}

	// The whole order ships as one synthetic parcel. AnyAPM origins
	// require a compartment-size hint.
	item := boxnow.Item{
		ID:     orderNumber,
		Name:   "Order " + orderNumber,
		Value:  invoiceValue,
		Weight: weightKg,
	}
	if s.opts.OriginLocationID == boxnow.OriginAnyAPM {
		item.CompartmentSize = boxnow.CompartmentForWeight(weightKg)
	}

	req := &boxnow.DeliveryRequest{
		OrderNumber:         orderNumber,
		InvoiceValue:        invoiceValue,
		PaymentMode:         string(mode),
		AmountToBeCollected: amountToBeCollected,
		AllowReturn:         true,
		Origin: boxnow.Contact{
			LocationID:    s.opts.OriginLocationID,
			ContactName:   s.opts.OriginName,
			ContactEmail:  s.opts.OriginEmail,
			ContactNumber: s.opts.OriginPhone,
			Country:       s.opts.Country,
		},
		Destination: boxnow.Contact{
			LocationID:    lockerID,
			ContactName:   customer.Name,
			ContactEmail:  customer.Email,
			ContactNumber: phone,
			Country:       s.opts.Country,
		},
		Items: []boxnow.Item{item},
	}

	resp, err := s.gateway.CreateDeliveryRequest(ctx, req)
	if err != nil {
		metrics.DeliveryErrors.WithLabelValues(metrics.ReasonUpstream).Inc()
		s.recordCarrierFailure(ctx, orderNumber, lockerID, err)
		return nil, err
	}

	metrics.DeliveriesCreated.Inc()
	result := &Result{
		OrderNumber: orderNumber,
		TrackingIDs: resp.ParcelIDs(),
		VoucherURL:  "/api/carrier/labels/order/" + orderNumber,
	}
	s.logger.Info("delivery request created",
		"order", orderNumber, "locker", lockerID, "parcels", len(result.TrackingIDs))

	s.recordCarrierSuccess(ctx, orderNumber, lockerID, result)
	s.scheduleVoucherEmail(orderNumber)

	return result, nil
}

// Voucher fetches the carrier's label PDF for an order.
func (s *Service) Voucher(ctx context.Context, orderNumber string) ([]byte, error) {
	return s.gateway.Label(ctx, orderNumber)
}

func (s *Service) reject(code, message string) error {
	metrics.DeliveryErrors.WithLabelValues(metrics.ReasonValidation).Inc()
	return &ValidationError{Code: code, Message: message}
}

// recordCarrierFailure marks the locally stored order, when one
// exists, as failed at the carrier. Best effort: the carrier error
// itself is what the caller sees.
func (s *Service) recordCarrierFailure(ctx context.Context, orderNumber, lockerID string, cause error) {
	if s.store == nil {
		return
	}

	detail := cause.Error()
	var apiErr *boxnow.APIError
	if errors.As(cause, &apiErr) {
		detail = string(apiErr.Body)
	}

	_, err := s.store.Update(ctx, orderNumber, store.Patch{
		Status:  models.StatusCarrierError,
		Carrier: &models.CarrierMeta{LockerID: lockerID, Error: detail},
	})
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		metrics.SideEffectErrors.WithLabelValues(metrics.KindStore).Inc()
		s.logger.Error("failed to record carrier failure", "order", orderNumber, "error", err)
	}
}

func (s *Service) recordCarrierSuccess(ctx context.Context, orderNumber, lockerID string, result *Result) {
	if s.store == nil {
		return
	}

	meta := &models.CarrierMeta{
		LockerID: lockerID,
		LabelURL: result.VoucherURL,
	}
	if len(result.TrackingIDs) > 0 {
		meta.ParcelID = result.TrackingIDs[0]
		meta.TrackingNumber = result.TrackingIDs[0]
	}

	_, err := s.store.Update(ctx, orderNumber, store.Patch{
		Status:  models.StatusShipping,
		Carrier: meta,
	})
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		metrics.SideEffectErrors.WithLabelValues(metrics.KindStore).Inc()
		s.logger.Error("failed to record carrier result", "order", orderNumber, "error", err)
	}
}

// scheduleVoucherEmail hands the label-fetch-and-email step to the
// dispatcher. It runs after the response is sent; failures are logged
// and counted, never surfaced to the caller.
func (s *Service) scheduleVoucherEmail(orderNumber string) {
	if s.mailer == nil || s.dispatcher == nil {
		return
	}
	s.dispatcher.Submit("voucher-email", func(ctx context.Context) {
		s.emailVoucher(ctx, orderNumber)
	})
}

func (s *Service) emailVoucher(ctx context.Context, orderNumber string) {
	pdf, err := s.gateway.Label(ctx, orderNumber)
	if err != nil {
		metrics.SideEffectErrors.WithLabelValues(metrics.KindLabel).Inc()
		s.logger.Error("failed to fetch voucher label", "order", orderNumber, "error", err)
		return
	}

	if err := s.mailer.SendVoucher(orderNumber, pdf); err != nil {
		metrics.SideEffectErrors.WithLabelValues(metrics.KindEmail).Inc()
		s.logger.Error("failed to email voucher", "order", orderNumber, "error", err)
		return
	}
	metrics.VouchersEmailed.Inc()
	s.logger.Info("voucher emailed", "order", orderNumber)

	s.markVoucherSent(ctx, orderNumber)
}

func (s *Service) markVoucherSent(ctx context.Context, orderNumber string) {
	if s.store == nil {
		return
	}

	order, err := s.store.Get(ctx, orderNumber)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		metrics.SideEffectErrors.WithLabelValues(metrics.KindStore).Inc()
		s.logger.Error("failed to load order for voucher timestamp", "order", orderNumber, "error", err)
		return
	}

	meta := models.CarrierMeta{}
	if order.Metadata.Carrier != nil {
		meta = *order.Metadata.Carrier
	}
	sentAt := s.now()
	meta.VoucherSentAt = &sentAt

	if _, err := s.store.Update(ctx, orderNumber, store.Patch{Carrier: &meta}); err != nil {
		metrics.SideEffectErrors.WithLabelValues(metrics.KindStore).Inc()
		s.logger.Error("failed to record voucher timestamp", "order", orderNumber, "error", err)
	}
}
