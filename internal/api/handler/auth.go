package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/auth"
	"github.com/justichain/justichain/internal/registry"
)

// AuthHandler handles token issuance.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IssueToken handles POST /v1/auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	token, expiresAt, err := h.authService.IssueToken(req.Secret, registry.Identity(req.Identity))
	if err != nil {
		if errors.Is(err, auth.ErrBadBootstrapSecret) {
			response.Unauthorized(w, r, "bad bootstrap secret")
			return
		}
		response.BadRequest(w, r, "token issuance failed", nil)
		return
	}

	response.JSON(w, r, http.StatusOK, models.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.Unix(),
	})
}
