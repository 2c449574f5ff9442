package handlers

import (
	"net/http"

	"tourly/internal/models"

	"github.com/gin-gonic/gin"
)

// Reservations handlers

// CreateReservation - POST /api/reservations
// Place a time-bounded hold on tour capacity
func (h *Handlers) CreateReservation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Reservations.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetReservation - GET /api/reservations/:reserveId
// Fetch reservation details with the tour display snapshot
func (h *Handlers) GetReservation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reserveID := c.Param("reserveId")

	response, err := h.services.Reservations.GetDetails(c.Request.Context(), userID, reserveID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BookReservation - POST /api/reservations/:reserveId/book
// Convert a live hold into a booking with a pending payment attempt
func (h *Handlers) BookReservation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reserveID := c.Param("reserveId")

	var req models.BookReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Bookings.Book(c.Request.Context(), userID, reserveID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ReleaseReservation - POST /api/scheduler/release
// Scheduler callback: return seats of a lapsed hold to inventory
func (h *Handlers) ReleaseReservation(c *gin.Context) {
	var req models.ReleaseCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	released, err := h.services.Release.Release(c.Request.Context(), req.ReserveID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ReleaseCallbackResponse{Released: released})
}
