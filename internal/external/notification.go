package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tourly/internal/models"
)

// NotificationClient sends booking confirmations through the email service.
// Fire-and-forget from the core's perspective: the outcome is recorded on the
// booking, never retried here.
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

type NotificationConfig struct {
	BaseURL string
	Timeout time.Duration
}

type sendConfirmationResponse struct {
	Delivered bool `json:"delivered"`
}

func NewNotificationClient(cfg NotificationConfig) *NotificationClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &NotificationClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (nc *NotificationClient) SendBookingConfirmation(snapshot models.BookingSnapshot) (bool, error) {
	jsonBody, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("failed to marshal booking snapshot: %w", err)
	}

	resp, err := nc.httpClient.Post(nc.baseURL+"/api/v1/emails/booking-confirmation", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return false, fmt.Errorf("failed to send confirmation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result sendConfirmationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Delivered, nil
}
