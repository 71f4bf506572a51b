package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/middleware"
	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewHandler serves customer reviews
type ReviewHandler struct {
	reviews db.ReviewCollection
	users   db.UserCollection
}

// NewReviewHandler creates a review handler. users resolves the display
// name of reviewers who leave it blank.
func NewReviewHandler(reviews db.ReviewCollection, users db.UserCollection) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, users: users}
}

// List returns all reviews, newest first
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviews.FindReviews(c.Request.Context())
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Create posts a review as the authenticated user
func (h *ReviewHandler) Create(c *gin.Context) {
	claims, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User context not found", nil)
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	review := models.Review{
		Name:    req.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if review.Name == "" {
		review.Name = h.displayName(c, claims)
	}
	if oid, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		review.User = &oid
	}

	created, err := h.reviews.InsertReview(c.Request.Context(), review)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// displayName prefers the reviewer's full name and falls back to the
// username carried in the token.
func (h *ReviewHandler) displayName(c *gin.Context, claims *models.Claims) string {
	user, err := h.users.FindUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Debug("Reviewer lookup failed, using username")
		return claims.Username
	}
	return user.FullName()
}

// Delete removes a review
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviews.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
