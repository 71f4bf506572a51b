package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-rental/internal/auth"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/mocks"
	"github.com/ukydev/car-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestAuthService(t *testing.T) *auth.Service {
	t.Helper()
	authService, err := auth.NewService("handler-test-secret", time.Hour)
	require.NoError(t, err)
	return authService
}

func authRouter(authService *auth.Service, users db.UserCollection, claims *models.Claims) *gin.Engine {
	h := NewAuthHandler(authService, users)
	router := gin.New()
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/register", h.Register)
	protected := router.Group("/api/auth", withClaims(claims))
	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.UpdateProfile)
	protected.POST("/change-password", h.ChangePassword)
	return router
}

func testUser(t *testing.T, authService *auth.Service, active bool) *models.User {
	t.Helper()
	passwordHash, err := authService.HashPassword("password123")
	require.NoError(t, err)
	return &models.User{
		ID:           primitive.NewObjectID(),
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
		IsActive:     active,
	}
}

func claimsFor(user *models.User) *models.Claims {
	return &models.Claims{UserID: user.ID.Hex(), Username: user.Username, Email: user.Email, Role: user.Role}
}

func TestAuthHandler_Login(t *testing.T) {
	authService := newTestAuthService(t)

	t.Run("successful login", func(t *testing.T) {
		users := new(mocks.UserCollection)
		user := testUser(t, authService, true)

		users.On("FindUserByUsername", mock.Anything, "testuser").Return(user, nil)
		users.On("UpdateLastLogin", mock.Anything, user.ID.Hex()).Return(nil)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/login", models.LoginRequest{
			Username: "testuser",
			Password: "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var response models.LoginResponse
		decode(t, w, &response)
		assert.NotEmpty(t, response.Token)
		assert.NotEmpty(t, response.RefreshToken)
		assert.Equal(t, user.Username, response.User.Username)
		assert.NotContains(t, w.Body.String(), user.PasswordHash)

		claims, err := authService.ValidateToken(response.Token)
		require.NoError(t, err)
		assert.Equal(t, user.Email, claims.Email)

		users.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByUsername", mock.Anything, "testuser").Return(nil, db.ErrNotFound)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/login", models.LoginRequest{
			Username: "testuser",
			Password: "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		users.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByUsername", mock.Anything, "testuser").Return(testUser(t, authService, true), nil)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/login", models.LoginRequest{
			Username: "testuser",
			Password: "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("inactive user", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByUsername", mock.Anything, "testuser").Return(testUser(t, authService, false), nil)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/login", models.LoginRequest{
			Username: "testuser",
			Password: "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Account is deactivated")
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, authRouter(authService, new(mocks.UserCollection), nil), http.MethodPost, "/api/auth/login",
			map[string]string{"username": "testuser"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	authService := newTestAuthService(t)
	registerReq := models.RegisterRequest{
		Username:  "newuser",
		Email:     "newuser@example.com",
		Password:  "password123",
		FirstName: "New",
		LastName:  "User",
	}

	t.Run("successful registration", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByUsername", mock.Anything, "newuser").Return(nil, db.ErrNotFound)
		users.On("FindUserByEmail", mock.Anything, "newuser@example.com").Return(nil, db.ErrNotFound)
		users.On("InsertUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Role == models.RoleCustomer && u.IsActive && u.PasswordHash != "password123"
		})).Return(nil)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/register", registerReq)
		assert.Equal(t, http.StatusCreated, w.Code)

		var response models.LoginResponse
		decode(t, w, &response)
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, models.RoleCustomer, response.User.Role)
		users.AssertExpectations(t)
	})

	t.Run("role in body is ignored", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByUsername", mock.Anything, "newuser").Return(nil, db.ErrNotFound)
		users.On("FindUserByEmail", mock.Anything, "newuser@example.com").Return(nil, db.ErrNotFound)
		users.On("InsertUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Role == models.RoleCustomer
		})).Return(nil)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/register", map[string]string{
			"username": "newuser", "email": "newuser@example.com", "password": "password123", "role": "admin",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		users.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByUsername", mock.Anything, "newuser").Return(&models.User{}, nil)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/register", registerReq)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByUsername", mock.Anything, "newuser").Return(nil, db.ErrNotFound)
		users.On("FindUserByEmail", mock.Anything, "newuser@example.com").Return(&models.User{}, nil)

		w := doJSON(t, authRouter(authService, users, nil), http.MethodPost, "/api/auth/register", registerReq)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		bad := registerReq
		bad.Password = "short"
		w := doJSON(t, authRouter(authService, new(mocks.UserCollection), nil), http.MethodPost, "/api/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		bad := registerReq
		bad.Email = "not-an-email"
		w := doJSON(t, authRouter(authService, new(mocks.UserCollection), nil), http.MethodPost, "/api/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	authService := newTestAuthService(t)
	user := testUser(t, authService, true)

	t.Run("found", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)

		w := doJSON(t, authRouter(authService, users, claimsFor(user)), http.MethodGet, "/api/auth/profile", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got models.User
		decode(t, w, &got)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("no session", func(t *testing.T) {
		w := doJSON(t, authRouter(authService, new(mocks.UserCollection), nil), http.MethodGet, "/api/auth/profile", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user deleted", func(t *testing.T) {
		users := new(mocks.UserCollection)
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(nil, db.ErrNotFound)

		w := doJSON(t, authRouter(authService, users, claimsFor(user)), http.MethodGet, "/api/auth/profile", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	authService := newTestAuthService(t)

	t.Run("updated", func(t *testing.T) {
		user := testUser(t, authService, true)
		users := new(mocks.UserCollection)
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)
		users.On("FindUserByEmail", mock.Anything, "updated@example.com").Return(nil, db.ErrNotFound)
		users.On("UpdateUser", mock.Anything, user.ID.Hex(), mock.MatchedBy(func(u models.User) bool {
			return u.FirstName == "Updated" && u.Email == "updated@example.com" && u.Phone == "0779999999"
		})).Return(nil)

		w := doJSON(t, authRouter(authService, users, claimsFor(user)), http.MethodPut, "/api/auth/profile", models.UpdateProfileRequest{
			FirstName: "Updated",
			Email:     "updated@example.com",
			Phone:     "0779999999",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		users.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		user := testUser(t, authService, true)
		users := new(mocks.UserCollection)
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)
		users.On("FindUserByEmail", mock.Anything, "taken@example.com").Return(&models.User{ID: primitive.NewObjectID()}, nil)

		w := doJSON(t, authRouter(authService, users, claimsFor(user)), http.MethodPut, "/api/auth/profile", models.UpdateProfileRequest{
			Email: "taken@example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	authService := newTestAuthService(t)

	t.Run("changed", func(t *testing.T) {
		user := testUser(t, authService, true)
		users := new(mocks.UserCollection)
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)
		users.On("UpdateUser", mock.Anything, user.ID.Hex(), mock.MatchedBy(func(u models.User) bool {
			return authService.CheckPassword("newpassword123", u.PasswordHash)
		})).Return(nil)

		w := doJSON(t, authRouter(authService, users, claimsFor(user)), http.MethodPost, "/api/auth/change-password", models.ChangePasswordRequest{
			CurrentPassword: "password123",
			NewPassword:     "newpassword123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		users.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		user := testUser(t, authService, true)
		users := new(mocks.UserCollection)
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)

		w := doJSON(t, authRouter(authService, users, claimsFor(user)), http.MethodPost, "/api/auth/change-password", models.ChangePasswordRequest{
			CurrentPassword: "wrongpassword",
			NewPassword:     "newpassword123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new password too short", func(t *testing.T) {
		user := testUser(t, authService, true)
		w := doJSON(t, authRouter(authService, new(mocks.UserCollection), claimsFor(user)), http.MethodPost, "/api/auth/change-password", models.ChangePasswordRequest{
			CurrentPassword: "password123",
			NewPassword:     "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
