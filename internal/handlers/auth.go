package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/auth"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/middleware"
	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
	}
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var loginReq models.LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		respondInvalid(c, err)
		return
	}

	user, err := h.userCollection.FindUserByUsername(c.Request.Context(), loginReq.Username)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if !user.IsActive {
		respondError(c, http.StatusUnauthorized, "Account is deactivated", nil)
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	response, err := h.issueTokens(user)
	if err != nil {
		respondServerError(c, err)
		return
	}

	if err := h.userCollection.UpdateLastLogin(c.Request.Context(), user.ID.Hex()); err != nil {
		log.WithError(err).WithField("user", user.Username).Warn("Failed to update last login")
	}

	c.JSON(http.StatusOK, response)
}

// Register creates a customer account. Staff and admin accounts are
// provisioned out of band.
func (h *AuthHandler) Register(c *gin.Context) {
	var registerReq models.RegisterRequest
	if err := c.ShouldBindJSON(&registerReq); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.userCollection.FindUserByUsername(ctx, registerReq.Username); err == nil {
		respondError(c, http.StatusConflict, "Username already exists", nil)
		return
	}
	if _, err := h.userCollection.FindUserByEmail(ctx, registerReq.Email); err == nil {
		respondError(c, http.StatusConflict, "Email already exists", nil)
		return
	}

	passwordHash, err := h.authService.HashPassword(registerReq.Password)
	if err != nil {
		respondServerError(c, err)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     registerReq.Username,
		Email:        registerReq.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
		FirstName:    registerReq.FirstName,
		LastName:     registerReq.LastName,
		Phone:        registerReq.Phone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.userCollection.InsertUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			respondError(c, http.StatusConflict, "Username or email already exists", nil)
			return
		}
		respondServerError(c, err)
		return
	}

	response, err := h.issueTokens(&user)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) issueTokens(user *models.User) (*models.LoginResponse, error) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User context not found", nil)
		return
	}

	user, err := h.userCollection.FindUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondStoreError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User context not found", nil)
		return
	}

	var updateReq models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.userCollection.FindUserByID(ctx, claims.UserID)
	if err != nil {
		respondStoreError(c, err, "User not found")
		return
	}

	if updateReq.FirstName != "" {
		user.FirstName = updateReq.FirstName
	}
	if updateReq.LastName != "" {
		user.LastName = updateReq.LastName
	}
	if updateReq.Phone != "" {
		user.Phone = updateReq.Phone
	}
	if updateReq.Email != "" && updateReq.Email != user.Email {
		existingUser, err := h.userCollection.FindUserByEmail(ctx, updateReq.Email)
		if err == nil && existingUser.ID.Hex() != claims.UserID {
			respondError(c, http.StatusConflict, "Email already exists", nil)
			return
		}
		user.Email = updateReq.Email
	}

	if err := h.userCollection.UpdateUser(ctx, claims.UserID, *user); err != nil {
		respondStoreError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User context not found", nil)
		return
	}

	var passwordReq models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&passwordReq); err != nil {
		respondInvalid(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.userCollection.FindUserByID(ctx, claims.UserID)
	if err != nil {
		respondStoreError(c, err, "User not found")
		return
	}

	if !h.authService.CheckPassword(passwordReq.CurrentPassword, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "Current password is incorrect", nil)
		return
	}

	newPasswordHash, err := h.authService.HashPassword(passwordReq.NewPassword)
	if err != nil {
		respondServerError(c, err)
		return
	}

	user.PasswordHash = newPasswordHash
	if err := h.userCollection.UpdateUser(ctx, claims.UserID, *user); err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
