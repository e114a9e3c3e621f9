package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/service"
	"github.com/rs/zerolog"
)

const defaultAuditLimit = 25

// AuditHandler handles the public audit endpoint
type AuditHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(services *service.Services, log zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		services: services,
		log:      log.With().Str("handler", "audit").Logger(),
	}
}

// GetPublicAudit handles GET /audit?limit=...
// Returns the most recent changelog entries, classified and pruned for
// public display
func (h *AuditHandler) GetPublicAudit(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	actions, err := h.services.Audit.GetPublicAudit(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Audit read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if actions == nil {
		actions = []models.PublicAction{}
	}
	c.JSON(http.StatusOK, actions)
}
