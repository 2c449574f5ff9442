package handlers

import (
	"net/http"

	"tourly/internal/models"

	"github.com/gin-gonic/gin"
)

// Payments handlers

// OnGatewayEvent - POST /api/payments/webhook
// Apply a signed gateway event to booking state. Signature verification runs
// in middleware before this handler. The status code tells the gateway
// whether to retry: 4xx means never, 502 means the failure is transient.
func (h *Handlers) OnGatewayEvent(c *gin.Context) {
	var event models.GatewayWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Bookings.HandleGatewayEvent(c.Request.Context(), &event); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
