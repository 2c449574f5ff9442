package external

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"tourly/internal/apperr"
)

// PaymentClient wraps the external payment gateway. Every failure it returns is
// apperr.KindGateway: retryable by an operator or by event redelivery, never by
// changing the caller's input.
type PaymentClient struct {
	baseURL    string
	merchantID string
	secretKey  string
	httpClient *http.Client
}

type PaymentConfig struct {
	BaseURL       string
	MerchantID    string
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration
}

type IntentRequest struct {
	MerchantID string `json:"merchantId"`
	Token      string `json:"token"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	BookingID  string `json:"bookingId"`
	UserID     string `json:"userId"`
}

type IntentResponse struct {
	Success      bool   `json:"success"`
	PaymentID    string `json:"paymentId"`
	ClientSecret string `json:"clientSecret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	CreatedAt    string `json:"createdAt"`
}

type ChargeResponse struct {
	Success    bool   `json:"success"`
	ChargeID   string `json:"chargeId"`
	CardBrand  string `json:"cardBrand"`
	CardLast4  string `json:"cardLast4"`
	ReceiptURL string `json:"receiptUrl"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

type RefundResponse struct {
	Success  bool   `json:"success"`
	RefundID string `json:"refundId"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
}

func NewPaymentClient(cfg PaymentConfig) *PaymentClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &PaymentClient{
		baseURL:    cfg.BaseURL,
		merchantID: cfg.MerchantID,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// signToken builds the request token: parameters sorted by name, values
// concatenated, HMAC-SHA256 under the merchant secret.
func (pc *PaymentClient) signToken(params map[string]string) string {
	params["MerchantId"] = pc.merchantID

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tokenString string
	for _, key := range keys {
		tokenString += params[key]
	}

	mac := hmac.New(sha256.New, []byte(pc.secretKey))
	mac.Write([]byte(tokenString))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreateIntent registers a payment intent for the booking and returns the
// gateway-issued payment id and the client secret the browser needs.
func (pc *PaymentClient) CreateIntent(amount int64, currency, bookingID string, userID int64) (*IntentResponse, error) {
	params := map[string]string{
		"Amount":    strconv.FormatInt(amount, 10),
		"Currency":  currency,
		"BookingId": bookingID,
	}
	token := pc.signToken(params)

	req := IntentRequest{
		MerchantID: pc.merchantID,
		Token:      token,
		Amount:     amount,
		Currency:   currency,
		BookingID:  bookingID,
		UserID:     strconv.FormatInt(userID, 10),
	}

	var result IntentResponse
	if err := pc.post("/api/v1/intents", req, &result); err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, apperr.New(apperr.KindGateway, "payment intent was rejected by the gateway")
	}

	return &result, nil
}

// RetrieveCharge fetches card summary and receipt reference for a charge
func (pc *PaymentClient) RetrieveCharge(chargeID string) (*ChargeResponse, error) {
	params := map[string]string{
		"ChargeId": chargeID,
	}
	token := pc.signToken(params)

	reqData := map[string]interface{}{
		"merchantId": pc.merchantID,
		"token":      token,
		"chargeId":   chargeID,
	}

	var result ChargeResponse
	if err := pc.post("/api/v1/charges/retrieve", reqData, &result); err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, apperr.New(apperr.KindGateway, "charge lookup was rejected by the gateway")
	}

	return &result, nil
}

// Refund returns up to the refundable amount of a captured payment
func (pc *PaymentClient) Refund(paymentID string, amount int64) (*RefundResponse, error) {
	params := map[string]string{
		"Amount":    strconv.FormatInt(amount, 10),
		"PaymentId": paymentID,
	}
	token := pc.signToken(params)

	reqData := map[string]interface{}{
		"merchantId": pc.merchantID,
		"token":      token,
		"paymentId":  paymentID,
		"amount":     amount,
	}

	var result RefundResponse
	if err := pc.post("/api/v1/refunds", reqData, &result); err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, apperr.New(apperr.KindGateway, "refund was rejected by the gateway")
	}

	return &result, nil
}

func (pc *PaymentClient) post(path string, payload interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := pc.httpClient.Post(pc.baseURL+path, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return apperr.Wrap(apperr.KindGateway, "gateway request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apperr.New(apperr.KindGateway, fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindGateway, "failed to decode gateway response", err)
	}

	return nil
}
