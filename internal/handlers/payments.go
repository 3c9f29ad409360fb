package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/payments"
)

// PaymentsHandler proxies payment-intent creation. A nil client means
// the payment provider is not configured for this deployment.
type PaymentsHandler struct {
	client payments.Client
	log    *slog.Logger
}

// NewPaymentsHandler creates a new payments handler
func NewPaymentsHandler(client payments.Client, log *slog.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		client: client,
		log:    log,
	}
}

type createIntentRequest struct {
	Amount       models.FlexString `json:"amount"`
	Currency     string            `json:"currency"`
	ReceiptEmail string            `json:"receiptEmail"`
	OrderNumber  string            `json:"orderNumber"`
}

// CreateIntent handles POST /api/payments/intents
func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		WriteError(w, http.StatusServiceUnavailable, "Payment provider is not configured", h.log)
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode intent request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if req.Amount.Empty() {
		WriteError(w, http.StatusBadRequest, "Amount is required", h.log)
		return
	}

	intent, err := h.client.CreateIntent(r.Context(), payments.IntentRequest{
		Amount:       req.Amount.String(),
		Currency:     req.Currency,
		ReceiptEmail: req.ReceiptEmail,
		OrderNumber:  req.OrderNumber,
	})
	if err != nil {
		if errors.Is(err, payments.ErrInvalidAmount) {
			WriteError(w, http.StatusBadRequest, "Invalid amount", h.log)
			return
		}
		var apiErr *payments.APIError
		if errors.As(err, &apiErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apiErr.StatusCode)
			if _, werr := w.Write(apiErr.Body); werr != nil {
				h.log.Error("failed to relay provider error body", "error", werr)
			}
			return
		}
		h.log.Error("failed to create payment intent", "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to create payment intent", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, intent, h.log)
}
