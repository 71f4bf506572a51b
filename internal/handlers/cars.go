package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/models"
	"github.com/ukydev/car-rental/internal/services"
)

// maxImageSize caps car image uploads.
const maxImageSize = 8 << 20

// CarHandler serves the car directory
type CarHandler struct {
	cars *services.CarService
}

// NewCarHandler creates a new car handler
func NewCarHandler(cars *services.CarService) *CarHandler {
	return &CarHandler{cars: cars}
}

// List returns every car in the directory
func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.cars.List(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

// Get returns one car by id
func (h *CarHandler) Get(c *gin.Context) {
	car, err := h.cars.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Car not found")
		return
	}
	c.JSON(http.StatusOK, car)
}

// Create adds a car to the directory
func (h *CarHandler) Create(c *gin.Context) {
	var req models.CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	car, err := h.cars.Add(c.Request.Context(), req.ToCar())
	if errors.Is(err, db.ErrDuplicate) {
		respondError(c, http.StatusConflict, "A car with this carId already exists", err)
		return
	}
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

// Update edits a car. Availability is left alone unless the body sets it
func (h *CarHandler) Update(c *gin.Context) {
	var req models.CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	car, err := h.cars.Update(c.Request.Context(), c.Param("id"), req.ToUpdate())
	if err != nil {
		respondStoreError(c, err, "Car not found")
		return
	}
	c.JSON(http.StatusOK, car)
}

// Delete removes a car. Unknown ids are reported as deleted.
func (h *CarHandler) Delete(c *gin.Context) {
	if err := h.cars.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted successfully"})
}

// UploadImage accepts a multipart "image" field and stores it as the car's picture
func (h *CarHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
	header, err := c.FormFile("image")
	if err != nil {
		respondInvalid(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		respondInvalid(c, err)
		return
	}
	defer file.Close()

	car, err := h.cars.UploadImage(c.Request.Context(), c.Param("id"), file)
	if errors.Is(err, services.ErrUploadsDisabled) {
		respondError(c, http.StatusNotImplemented, "Image uploads are not configured", nil)
		return
	}
	if err != nil {
		respondStoreError(c, err, "Car not found")
		return
	}
	c.JSON(http.StatusOK, car)
}
