package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/service"
	"github.com/rs/zerolog"
)

// UserHandler handles role administration and preset endpoints
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// ListUsers handles GET /users?limit=...&offset=...
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor := mustCurrentUser(c)
	if !actor.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Listing users requires the admin claim"})
		return
	}

	limit := intQuery(c, "limit", 25)
	offset := intQuery(c, "offset", 0)

	users, total, err := h.services.User.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("User list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// SetClaims handles PATCH /users/:id/claims
func (h *UserHandler) SetClaims(c *gin.Context) {
	var req models.ClaimsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.services.User.SetClaims(c.Request.Context(), c.Param("id"), &req, mustCurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.services.User.Delete(c.Request.Context(), c.Param("id"), mustCurrentUser(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ListPresets handles GET /presets
// Returns the caller's presets plus the global ones
func (h *UserHandler) ListPresets(c *gin.Context) {
	presets, err := h.services.User.ListPresets(c.Request.Context(), mustCurrentUser(c).Email)
	if err != nil {
		h.log.Error().Err(err).Msg("Preset list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if presets == nil {
		presets = []models.Preset{}
	}
	c.JSON(http.StatusOK, presets)
}

// SavePreset handles PUT /presets
func (h *UserHandler) SavePreset(c *gin.Context) {
	var req models.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	preset, err := h.services.User.SavePreset(c.Request.Context(), &req, mustCurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preset)
}

// DeletePreset handles DELETE /presets/:id
func (h *UserHandler) DeletePreset(c *gin.Context) {
	if err := h.services.User.DeletePreset(c.Request.Context(), c.Param("id"), mustCurrentUser(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// mustCurrentUser returns the app user resolved by currentUserMiddleware;
// routes using it are always registered behind that middleware
func mustCurrentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(currentUserKey).(*models.User)
	return user
}

// respondServiceError maps a typed service error onto its HTTP status
func respondServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	status := http.StatusInternalServerError
	message := err.Error()

	if errors.As(err, &svcErr) {
		message = svcErr.Message
		switch svcErr.Kind {
		case service.KindPermissionDenied:
			status = http.StatusForbidden
		case service.KindInvalidArgument:
			status = http.StatusBadRequest
		case service.KindNotFound:
			status = http.StatusNotFound
		}
	}
	c.JSON(status, gin.H{"error": message})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}
