package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/car-rental/internal/db"
)

// UserHandler serves the admin user listing
type UserHandler struct {
	users db.UserCollection
}

// NewUserHandler creates a user handler
func NewUserHandler(users db.UserCollection) *UserHandler {
	return &UserHandler{users: users}
}

// List returns every user account
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.FindUsers(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
