package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ukydev/car-rental/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	// DefaultTokenExpiry applies when no expiry is configured.
	DefaultTokenExpiry = 24 * time.Hour

	issuer       = "car-rental"
	bearerScheme = "Bearer"
)

// sessionClaims is the token payload. The subject carries the user id.
type sessionClaims struct {
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and checks session tokens and hashes passwords.
type Service struct {
	secret []byte
	expiry time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

// NewService builds the session service. A non-positive expiry falls back
// to DefaultTokenExpiry.
func NewService(secret string, tokenExp time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if tokenExp <= 0 {
		tokenExp = DefaultTokenExpiry
	}
	return &Service{
		secret: []byte(secret),
		expiry: tokenExp,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
		now: time.Now,
	}, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken signs a session token for user.
func (s *Service) GenerateToken(user *models.User) (string, error) {
	issuedAt := s.now()
	claims := sessionClaims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// GenerateRefreshToken returns 32 random bytes, base64url encoded.
func (s *Service) GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ValidateToken checks signature, issuer and expiry and returns the
// session. A leading "Bearer " is tolerated.
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, bearerScheme+" ")

	var claims sessionClaims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Username == "" || !models.IsValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}
	return &models.Claims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
		Exp:      claims.ExpiresAt.Unix(),
	}, nil
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" header.
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != bearerScheme || token == "" || strings.ContainsRune(token, ' ') {
		return "", ErrInvalidToken
	}
	return token, nil
}
