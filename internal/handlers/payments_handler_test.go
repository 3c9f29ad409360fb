package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/payments"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/pkg/logger"
)

type stubPayments struct {
	mu     sync.Mutex
	intent payments.Intent
	err    error
	calls  int
	last   payments.IntentRequest
}

func (s *stubPayments) CreateIntent(_ context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	intent := s.intent
	return &intent, nil
}

func postIntent(h *PaymentsHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/intents", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateIntent(w, req)
	return w
}

func TestCreateIntentHandler(t *testing.T) {
	t.Run("forwards the request and returns the intent", func(t *testing.T) {
		stub := &stubPayments{intent: payments.Intent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			Status:       "requires_payment_method",
		}}
		h := NewPaymentsHandler(stub, logger.New("error"))

		w := postIntent(h, `{"amount": 21.30, "currency": "eur", "receiptEmail": "a@b.com", "orderNumber": "1001"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		var intent payments.Intent
		if err := json.NewDecoder(w.Body).Decode(&intent); err != nil {
			t.Fatalf("decode intent: %v", err)
		}
		if intent.ID != "pi_123" || intent.ClientSecret != "pi_123_secret" {
			t.Errorf("intent = %+v, want pi_123", intent)
		}

		want := payments.IntentRequest{Amount: "21.30", Currency: "eur", ReceiptEmail: "a@b.com", OrderNumber: "1001"}
		if stub.last != want {
			t.Errorf("forwarded request = %+v, want %+v", stub.last, want)
		}
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		h := NewPaymentsHandler(nil, logger.New("error"))

		w := postIntent(h, `{"amount": "21.30"}`)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})

	t.Run("missing amount", func(t *testing.T) {
		stub := &stubPayments{}
		h := NewPaymentsHandler(stub, logger.New("error"))

		w := postIntent(h, `{"currency": "eur"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		if stub.calls != 0 {
			t.Errorf("provider calls = %d, want 0", stub.calls)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		stub := &stubPayments{err: payments.ErrInvalidAmount}
		h := NewPaymentsHandler(stub, logger.New("error"))

		w := postIntent(h, `{"amount": "not-money"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("relays provider errors verbatim", func(t *testing.T) {
		stub := &stubPayments{err: &payments.APIError{
			StatusCode: http.StatusPaymentRequired,
			Body:       []byte(`{"error": {"code": "card_declined"}}`),
		}}
		h := NewPaymentsHandler(stub, logger.New("error"))

		w := postIntent(h, `{"amount": "21.30"}`)

		if w.Code != http.StatusPaymentRequired {
			t.Errorf("status = %d, want 402", w.Code)
		}
		if !strings.Contains(w.Body.String(), "card_declined") {
			t.Errorf("body = %q, want the provider error body", w.Body.String())
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		stub := &stubPayments{}
		h := NewPaymentsHandler(stub, logger.New("error"))

		w := postIntent(h, `{"amount":`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
