package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signatureRouter() (*gin.Engine, *[]byte) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var seenBody []byte
	r.POST("/webhook", WebhookSignature(testSecret), func(c *gin.Context) {
		seenBody, _ = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})
	return r, &seenBody
}

func postSigned(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookSignatureAccepted(t *testing.T) {
	r, seenBody := signatureRouter()
	body := []byte(`{"type":"payment.succeeded","amount":20000}`)

	w := postSigned(r, body, SignBody(body, testSecret))

	require.Equal(t, http.StatusOK, w.Code)
	// The middleware must hand the handler an intact body after reading it
	assert.Equal(t, body, *seenBody)
}

func TestWebhookSignatureRejected(t *testing.T) {
	r, _ := signatureRouter()
	body := []byte(`{"type":"payment.succeeded"}`)

	cases := []struct {
		name      string
		signature string
	}{
		{"missing", ""},
		{"wrong secret", SignBody(body, "whsec_other")},
		{"signed different body", SignBody([]byte(`{"type":"payment.failed"}`), testSecret)},
		{"garbage", "deadbeef"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postSigned(r, body, tc.signature)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
