package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/auth"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"go.uber.org/zap"
)

type AuthHandler struct {
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthHandler(tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		logger: logger,
	}
}

// Login exchanges the admin API key for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.Login(req.APIKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("failed admin login attempt", zap.String("remote_addr", r.RemoteAddr))
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, domain.AdminLoginResponse{
		Token:     token,
		ExpiresIn: int(time.Until(expiresAt).Seconds()),
	})
}
