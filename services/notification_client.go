package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-service/models"
)

// ErrNotConfigured reports that no notification URL is set; checkout
// maps it to a validation failure instead of a transport failure.
var ErrNotConfigured = errors.New("checkout notification URL not configured")

// CheckoutNotifier delivers a checkout snapshot to the order
// notification channel.
type CheckoutNotifier interface {
	Notify(ctx context.Context, payload *models.CheckoutPayload) (*models.CheckoutResponse, error)
}

// NotificationClient calls the checkout notification function over
// HTTP. The function emails the order to the shop owner and, on its
// side, also clears the user's cart rows.
type NotificationClient struct {
	url        string
	httpClient *http.Client
}

// NewNotificationClient creates a new NotificationClient. An empty URL
// is allowed here; Notify reports it as a configuration error so the
// failure carries a specific cause.
func NewNotificationClient(url string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify posts the payload and decodes {success, emailId} on 2xx or
// {error} on anything else.
func (c *NotificationClient) Notify(ctx context.Context, payload *models.CheckoutPayload) (*models.CheckoutResponse, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		errMsg := errResp["error"]
		if errMsg == "" {
			errMsg = fmt.Sprintf("notification function returned %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("notification failed: %s", errMsg)
	}

	var result models.CheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("invalid notification response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("notification function reported failure")
	}
	return &result, nil
}
