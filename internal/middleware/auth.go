package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/car-rental/internal/auth"
	"github.com/ukydev/car-rental/internal/models"
)

// UserContextKey is the gin context key holding *models.Claims.
const UserContextKey = "user"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authService *auth.Service
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate validates the bearer token and stores its claims on the context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token, err := m.authService.ExtractTokenFromHeader(authHeader)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			if err == auth.ErrExpiredToken {
				abort(c, http.StatusUnauthorized, "Token expired")
				return
			}
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(UserContextKey, claims)
		c.Next()
	}
}

// RequirePermission checks if the user's role allows the action
func (m *AuthMiddleware) RequirePermission(requiredAction string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetUserFromContext(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "User context not found")
			return
		}

		if !claims.Role.HasPermission(requiredAction) {
			abort(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// GetUserFromContext extracts user claims from the gin context
func GetUserFromContext(c *gin.Context) (*models.Claims, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.Claims)
	return claims, ok && claims != nil
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
