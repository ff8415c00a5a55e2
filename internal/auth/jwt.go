package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const tokenIssuer = "storefront-api"

// TokenManager issues and validates the admin session tokens. The admin
// exchanges the configured API key for a short-lived HS256 token.
type TokenManager struct {
	config  *config.AdminConfig
	nowFunc func() time.Time
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(cfg *config.AdminConfig) *TokenManager {
	return &TokenManager{
		config:  cfg,
		nowFunc: time.Now,
	}
}

// Login checks the submitted API key and issues a session token.
func (m *TokenManager) Login(apiKey string) (string, time.Time, error) {
	if m.config.APIKey == "" {
		return "", time.Time{}, fmt.Errorf("%w: admin access not configured", ErrInvalidCredentials)
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.config.APIKey)) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := m.nowFunc()
	expiresAt := now.Add(m.config.TokenTTL())
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "admin",
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and validates a session token.
func (m *TokenManager) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(m.nowFunc))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
