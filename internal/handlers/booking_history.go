package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/car-rental/internal/middleware"
	"github.com/ukydev/car-rental/internal/models"
	"github.com/ukydev/car-rental/internal/services"
)

// BookingHistoryHandler serves the booking archive
type BookingHistoryHandler struct {
	history *services.HistoryService
}

// NewBookingHistoryHandler creates a booking history handler
func NewBookingHistoryHandler(history *services.HistoryService) *BookingHistoryHandler {
	return &BookingHistoryHandler{history: history}
}

// List returns every archived booking, newest completion first
func (h *BookingHistoryHandler) List(c *gin.Context) {
	records, err := h.history.List(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Get returns one archived booking
func (h *BookingHistoryHandler) Get(c *gin.Context) {
	record, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Booking history not found")
		return
	}
	c.JSON(http.StatusOK, record)
}

// ByEmail returns archived bookings for one customer email. Non-admin
// callers may only read their own history.
func (h *BookingHistoryHandler) ByEmail(c *gin.Context) {
	email := c.Param("email")

	claims, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User context not found", nil)
		return
	}
	if !claims.Role.HasPermission(models.ActionViewBookingHistory) && !strings.EqualFold(claims.Email, email) {
		respondError(c, http.StatusForbidden, "Insufficient permissions", nil)
		return
	}

	records, err := h.history.ByEmail(c.Request.Context(), email)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Search matches name, email or phone case-insensitively
func (h *BookingHistoryHandler) Search(c *gin.Context) {
	records, err := h.history.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Stats returns the archive summary
func (h *BookingHistoryHandler) Stats(c *gin.Context) {
	stats, err := h.history.Stats(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Delete removes one archived booking
func (h *BookingHistoryHandler) Delete(c *gin.Context) {
	if err := h.history.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err, "Booking history not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking history deleted successfully"})
}
