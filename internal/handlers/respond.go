package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/middleware"
)

// ExposeErrorDetails controls whether server error bodies echo the
// underlying error. Set from configuration at startup.
var ExposeErrorDetails = true

func respondError(c *gin.Context, status int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil && (status < http.StatusInternalServerError || ExposeErrorDetails) {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

func respondInvalid(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "Invalid request", err)
}

// respondStoreError maps store sentinels onto HTTP statuses.
func respondStoreError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		respondError(c, http.StatusNotFound, notFound, nil)
	case errors.Is(err, db.ErrDuplicate):
		respondError(c, http.StatusConflict, "Resource already exists", err)
	default:
		respondServerError(c, err)
	}
}

func respondServerError(c *gin.Context, err error) {
	log.WithError(err).WithFields(log.Fields{
		"request_id": c.GetString(middleware.RequestIDHeader),
		"path":       c.FullPath(),
	}).Error("Request failed")
	respondError(c, http.StatusInternalServerError, "Server Error", err)
}
