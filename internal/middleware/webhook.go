package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the gateway's HMAC of the raw request body
const SignatureHeader = "X-Gateway-Signature"

// WebhookSignature verifies the gateway HMAC before any webhook handler runs.
// Unsigned or mis-signed deliveries never reach the state machine.
func WebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		// Restore the body for the handler's bind
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signature := c.GetHeader(SignatureHeader)
		if signature == "" || !verifySignature(body, signature, secret) {
			slog.Error("Webhook signature verification failed",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		c.Next()
	}
}

func verifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignBody computes the signature the gateway would send. Exported for tests
// and for the local webhook simulator.
func SignBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
