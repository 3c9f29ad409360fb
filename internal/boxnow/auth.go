package boxnow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// tokenSafetyMargin is how long before its actual expiry a cached token
// is already treated as expired, so a request never leaves with a token
// about to die in flight.
const tokenSafetyMargin = 30 * time.Second

type authSessionRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type authSessionResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// tokenCache is a single process-wide slot, replaced wholesale on
// refresh. The slot itself is mutex-guarded; the refresh call is not
// serialized, so two callers that both observe an expired slot may both
// exchange credentials. Each exchange yields an independently valid
// token, so the only cost is a redundant call.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func (tc *tokenCache) get(now time.Time) (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.token != "" && now.Add(tokenSafetyMargin).Before(tc.expiresAt) {
		return tc.token, true
	}
	return "", false
}

func (tc *tokenCache) put(token string, expiresAt time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.token = token
	tc.expiresAt = expiresAt
}

// Token returns a valid bearer token, reusing the cached one while it
// is comfortably inside its lifetime and exchanging the client
// credentials otherwise. Exchange failures are fatal for the calling
// operation and are not cached.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", ErrNotConfigured
	}

	if token, ok := c.cache.get(c.now()); ok {
		return token, nil
	}

	body, err := json.Marshal(authSessionRequest{
		GrantType:    "client_credentials",
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth-sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth session call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{
			StatusCode:  resp.StatusCode,
			Body:        respBody,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}

	var session authSessionResponse
	if err := json.Unmarshal(respBody, &session); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if session.AccessToken == "" {
		return "", fmt.Errorf("auth response carried no access token")
	}

	expiresAt := c.now().Add(time.Duration(session.ExpiresIn) * time.Second)
	c.cache.put(session.AccessToken, expiresAt)
	c.logger.Debug("carrier token refreshed", "expires_in_s", session.ExpiresIn)

	return session.AccessToken, nil
}
