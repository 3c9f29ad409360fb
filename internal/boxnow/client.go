package boxnow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/config"
)

// Client talks to the BoxNow API. Every operation obtains a bearer
// token through the embedded credential cache and attaches the optional
// partner identifier header.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	partnerID    string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
	cache        tokenCache
}

// New creates a carrier client for the configured environment.
func New(cfg config.BoxNowConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL(),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		partnerID:    cfg.PartnerID,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
		now:          time.Now,
	}
}

// Origins lists the pickup points available to the merchant account.
// The carrier's JSON is returned as-is.
func (c *Client) Origins(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/api/v1/origins", nil)
}

// Destinations lists lockers; query parameters (e.g. latitude/longitude
// filters) are forwarded untouched.
func (c *Client) Destinations(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.getJSON(ctx, "/api/v1/destinations", query)
}

// CreateDeliveryRequest submits a delivery request. A non-2xx carrier
// status surfaces as *APIError with the carrier's body verbatim.
func (c *Client) CreateDeliveryRequest(ctx context.Context, dr *DeliveryRequest) (*DeliveryResponse, error) {
	payload, err := json.Marshal(dr)
	if err != nil {
		return nil, fmt.Errorf("failed to encode delivery request: %w", err)
	}

	body, err := c.send(ctx, http.MethodPost, "/api/v1/delivery-requests", nil, payload)
	if err != nil {
		return nil, err
	}

	var out DeliveryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode delivery response: %w", err)
	}
	return &out, nil
}

// Label downloads the voucher PDF for a delivery request. The bytes are
// opaque to this service.
func (c *Client) Label(ctx context.Context, orderNumber string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, "/api/v1/delivery-requests/"+url.PathEscape(orderNumber)+"/label.pdf", nil, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	body, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// send performs one authenticated call and returns the raw response
// body. No retries: a failure is the caller's to relay.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create carrier request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.partnerID != "" {
		req.Header.Set("X-PartnerID", c.partnerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read carrier response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode:  resp.StatusCode,
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}

	return body, nil
}
