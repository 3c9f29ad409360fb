package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/boxnow"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/checkout"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
)

// CarrierAPI is the slice of the carrier client the relay routes use.
type CarrierAPI interface {
	Origins(ctx context.Context) (json.RawMessage, error)
	Destinations(ctx context.Context, query url.Values) (json.RawMessage, error)
}

// CarrierHandler exposes the carrier proxy routes: location listings,
// delivery-request creation and voucher retrieval.
type CarrierHandler struct {
	carrier CarrierAPI
	service *checkout.Service
	log     *slog.Logger
}

// NewCarrierHandler creates a new carrier handler
func NewCarrierHandler(carrier CarrierAPI, service *checkout.Service, log *slog.Logger) *CarrierHandler {
	return &CarrierHandler{
		carrier: carrier,
		service: service,
		log:     log,
	}
}

// Origins handles GET /api/carrier/origins
func (h *CarrierHandler) Origins(w http.ResponseWriter, r *http.Request) {
	body, err := h.carrier.Origins(r.Context())
	if err != nil {
		h.log.Error("failed to list origins", "error", err)
		h.writeCarrierError(w, err)
		return
	}
	writeRawJSON(w, body)
}

// Destinations handles GET /api/carrier/destinations. Query parameters
// are forwarded to the carrier untouched.
func (h *CarrierHandler) Destinations(w http.ResponseWriter, r *http.Request) {
	body, err := h.carrier.Destinations(r.Context(), r.URL.Query())
	if err != nil {
		h.log.Error("failed to list destinations", "error", err)
		h.writeCarrierError(w, err)
		return
	}
	writeRawJSON(w, body)
}

// CreateDeliveryRequest handles POST /api/carrier/delivery-requests
func (h *CarrierHandler) CreateDeliveryRequest(w http.ResponseWriter, r *http.Request) {
	var payload models.CheckoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Error("failed to decode checkout payload", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	result, err := h.service.CreateDeliveryRequest(r.Context(), &payload)
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			WriteErrorCode(w, http.StatusBadRequest, vErr.Message, vErr.Code, h.log)
			return
		}
		h.log.Error("failed to create delivery request", "error", err)
		h.writeCarrierError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.log)
}

// Label handles GET /api/carrier/labels/order/{orderNumber}
func (h *CarrierHandler) Label(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		WriteError(w, http.StatusBadRequest, "order number is required", h.log)
		return
	}

	pdf, err := h.service.Voucher(r.Context(), orderNumber)
	if err != nil {
		h.log.Error("failed to fetch voucher label", "order", orderNumber, "error", err)
		WriteError(w, http.StatusBadGateway, "failed to fetch voucher label", h.log)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.log.Error("failed to write voucher label", "order", orderNumber, "error", err)
	}
}

// writeCarrierError maps gateway failures: carrier non-2xx responses
// are relayed verbatim (status, body and content type), configuration
// errors are 500, anything else is a 502.
func (h *CarrierHandler) writeCarrierError(w http.ResponseWriter, err error) {
	var apiErr *boxnow.APIError
	if errors.As(err, &apiErr) {
		ct := apiErr.ContentType
		if ct == "" {
			ct = "application/json"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(apiErr.StatusCode)
		if _, werr := w.Write(apiErr.Body); werr != nil {
			h.log.Error("failed to relay carrier error body", "error", werr)
		}
		return
	}
	if errors.Is(err, boxnow.ErrNotConfigured) {
		WriteError(w, http.StatusInternalServerError, "carrier credentials are not configured", h.log)
		return
	}
	WriteError(w, http.StatusBadGateway, "failed to reach carrier", h.log)
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
