package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/response"
)

// IdentityClient asks the identity provider to vouch for a session token
type IdentityClient struct {
	baseURL    string
	cookie     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// SessionLookupRequest is the body sent to the identity provider
type SessionLookupRequest struct {
	Token string `json:"token"`
}

// SessionLookupResponse is the identity provider's answer
type SessionLookupResponse struct {
	Valid   bool            `json:"valid"`
	User    *domain.Session `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
}

// NewIdentityClient creates a new IdentityClient
func NewIdentityClient(baseURL, cookie string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *IdentityClient {
	if cookie == "" {
		cookie = DefaultSessionCookie
	}
	return &IdentityClient{
		baseURL: baseURL,
		cookie:  cookie,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// Resolve validates the request's session token with the provider.
// An unreachable provider is reported as unavailable, not as a bad session.
func (c *IdentityClient) Resolve(ctx context.Context, r *http.Request) (*domain.Session, error) {
	token := sessionToken(r, c.cookie)
	if token == "" {
		return nil, nil
	}

	url := fmt.Sprintf("%s/api/auth/session", c.baseURL)

	jsonBody, err := json.Marshal(SessionLookupRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall("/api/auth/session", http.MethodPost, statusCode, duration, err)

	if err != nil {
		c.logger.Error("Failed to reach identity provider", zap.Error(err), zap.Duration("duration", duration))
		return nil, response.NewUnavailableError("Identity provider unavailable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("session rejected by identity provider")
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("Identity provider returned server error", zap.Int("status_code", resp.StatusCode))
		return nil, response.NewUnavailableError("Identity provider unavailable")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("session lookup failed with status: %d", resp.StatusCode)
	}

	var result SessionLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Valid || result.User == nil || result.User.ID == "" {
		return nil, fmt.Errorf("session is not valid: %s", result.Message)
	}

	return result.User, nil
}
