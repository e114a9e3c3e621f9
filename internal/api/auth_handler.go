package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keycaplendar/api/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles the token-issuing endpoint
type AuthHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// IssueToken handles POST /apiAuth
// Exchanges an API key/secret pair for a bearer token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req struct {
		Key    string `json:"key"`
		Secret string `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" || req.Secret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, err := h.services.Auth.IssueToken(c.Request.Context(), req.Key, req.Secret)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		h.log.Error().Err(err).Msg("Token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
