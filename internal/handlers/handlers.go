package handlers

import (
	"log/slog"
	"net/http"

	"tourly/internal/apperr"
	"tourly/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		services: services,
	}
}

// callerID extracts the authenticated user id set by the BasicAuth middleware
func callerID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// respondError maps the domain error taxonomy onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindGone:
		status = http.StatusGone
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindGateway:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		slog.Error("Unexpected error", "error", err, "path", c.Request.URL.Path)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
