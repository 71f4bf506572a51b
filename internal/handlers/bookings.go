package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/middleware"
	"github.com/ukydev/car-rental/internal/models"
	"github.com/ukydev/car-rental/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingHandler serves active bookings
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a booking handler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create books a car for the authenticated user. Bookings made by staff
// are flagged as admin bookings and are not owned by the caller.
func (h *BookingHandler) Create(c *gin.Context) {
	claims, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User context not found", nil)
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	isAdmin := claims.Role.HasPermission(models.ActionManageBookings)
	var owner *primitive.ObjectID
	if !isAdmin {
		if oid, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			owner = &oid
		}
		if req.Email == "" {
			req.Email = claims.Email
		}
	}

	booking, err := h.bookings.Create(c.Request.Context(), req, owner, isAdmin)
	switch {
	case errors.Is(err, services.ErrCarUnavailable):
		respondError(c, http.StatusConflict, "Car is not available", nil)
	case errors.Is(err, services.ErrCarNotFound):
		respondError(c, http.StatusNotFound, "Car not found", nil)
	case err != nil:
		respondServerError(c, err)
	default:
		c.JSON(http.StatusCreated, booking)
	}
}

// List returns every active booking
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.bookings.List(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListMine returns the caller's own active bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	claims, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User context not found", nil)
		return
	}

	bookings, err := h.bookings.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Get returns one active booking by id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Complete archives the booking and returns the history record
func (h *BookingHandler) Complete(c *gin.Context) {
	record, err := h.bookings.Complete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, db.ErrDuplicate) {
		respondError(c, http.StatusConflict, "Booking already archived", nil)
		return
	}
	if err != nil {
		respondStoreError(c, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Cancel removes the booking without archiving it
func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.bookings.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err, "Booking not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}
