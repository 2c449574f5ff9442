package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"tourly/internal/middleware"
	"tourly/internal/models"
)

// TestClient provides methods for exercising a running API instance
type TestClient struct {
	BaseURL       string
	AuthHeader    string
	WebhookSecret string
	HTTPClient    *http.Client
}

// NewTestClient creates a new test client
func NewTestClient(baseURL, authHeader, webhookSecret string) *TestClient {
	return &TestClient{
		BaseURL:       baseURL,
		AuthHeader:    authHeader,
		WebhookSecret: webhookSecret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// makeRequest makes an HTTP request and returns the response
func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthHeader != "" {
		req.Header.Set("Authorization", c.AuthHeader)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// HealthCheck verifies the service is up
func (c *TestClient) HealthCheck(t *testing.T) {
	resp := c.makeRequest(t, "GET", "/health", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
}

// CreateReservation places a hold and returns the reserve id
func (c *TestClient) CreateReservation(t *testing.T, req models.CreateReservationRequest) *models.CreateReservationResponse {
	resp := c.makeRequest(t, "POST", "/api/reservations", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var result models.CreateReservationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode reservation response: %v", err)
	}

	return &result
}

// GetReservation fetches reservation details
func (c *TestClient) GetReservation(t *testing.T, reserveID string) *models.ReservationDetailsResponse {
	resp := c.makeRequest(t, "GET", "/api/reservations/"+reserveID, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result models.ReservationDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode details response: %v", err)
	}

	return &result
}

// BookReservation converts a hold into a booking
func (c *TestClient) BookReservation(t *testing.T, reserveID string, req models.BookReservationRequest) *models.BookReservationResponse {
	resp := c.makeRequest(t, "POST", "/api/reservations/"+reserveID+"/book", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var result models.BookReservationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode booking response: %v", err)
	}

	return &result
}

// SendWebhook delivers a signed gateway event and returns the status code
func (c *TestClient) SendWebhook(t *testing.T, event models.GatewayWebhookEvent) int {
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/api/payments/webhook", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SignatureHeader, middleware.SignBody(body, c.WebhookSecret))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode
}

// ReleaseReservation triggers the scheduler release callback
func (c *TestClient) ReleaseReservation(t *testing.T, reserveID string) *models.ReleaseCallbackResponse {
	resp := c.makeRequest(t, "POST", "/api/scheduler/release", models.ReleaseCallbackRequest{ReserveID: reserveID})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result models.ReleaseCallbackResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode release response: %v", err)
	}

	return &result
}
