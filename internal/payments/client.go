// Package payments proxies payment-intent creation to the configured
// payment provider.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/config"
)

// ErrInvalidAmount rejects amounts that cannot be charged.
var ErrInvalidAmount = errors.New("invalid amount")

// IntentRequest describes the intent to create. Amount is a major-unit
// money string ("21.30"); the provider receives integer minor units.
type IntentRequest struct {
	Amount       string
	Currency     string
	ReceiptEmail string
	OrderNumber  string
}

// Intent is the provider's created payment intent.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// Client creates payment intents.
type Client interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// APIError is a non-2xx provider response.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("payment provider returned status %d: %s", e.StatusCode, body)
}

// HTTPClient talks to a Stripe-style payment API over HTTP.
type HTTPClient struct {
	apiURL     string
	secretKey  string
	currency   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(cfg config.PaymentConfig, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *HTTPClient) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	amount, err := minorUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = c.currency
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("metadata[order_number]", req.OrderNumber)
	if req.ReceiptEmail != "" {
		form.Set("receipt_email", req.ReceiptEmail)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create intent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	c.logger.Debug("payment intent created", "intent", intent.ID, "order", req.OrderNumber)
	return &intent, nil
}

// minorUnits converts a major-unit money string to integer minor
// units, rounding half away from zero on sub-cent input.
func minorUnits(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative %q", ErrInvalidAmount, amount)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
