package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keycaplendar/api/internal/catalog"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/service"
	"github.com/rs/zerolog"
)

// KeysetHandler handles catalog endpoints
type KeysetHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewKeysetHandler creates a new KeysetHandler
func NewKeysetHandler(services *service.Services, log zerolog.Logger) *KeysetHandler {
	return &KeysetHandler{
		services: services,
		log:      log.With().Str("handler", "keyset").Logger(),
	}
}

// GetAllKeysets handles GET /getAllKeysets?dateFilter=...&before=...&date=...
// dateFilter names one of icDate/gbLaunch/gbEnd; before and date apply
// inclusive upper and lower bounds. Invalid or absent filters fall back to
// the unfiltered collection.
func (h *KeysetHandler) GetAllKeysets(c *gin.Context) {
	keysets, err := h.services.Catalog.GetAll(
		c.Request.Context(),
		c.Query("dateFilter"),
		c.Query("date"),
		c.Query("before"),
	)
	if err != nil {
		h.log.Error().Err(err).Msg("Catalog read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if keysets == nil {
		keysets = []models.Keyset{}
	}
	c.JSON(http.StatusOK, keysets)
}

// GetKeysetsByPage handles GET /getKeysetsByPage/:page
// Returns the keysets satisfying the page's partition condition. Optional
// whitelist query parameters narrow the result; an optional groupBy
// parameter returns the grouped form instead of a flat array.
func (h *KeysetHandler) GetKeysetsByPage(c *gin.Context) {
	page, ok := catalog.ParsePage(c.Param("page"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown page: " + c.Param("page")})
		return
	}

	wl := whitelistFromQuery(c)
	today := time.Now().UTC()

	if groupByParam := c.Query("groupBy"); groupByParam != "" {
		groupBy, ok := catalog.ParseGroupBy(groupByParam)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown groupBy: " + groupByParam})
			return
		}
		groups, err := h.services.Catalog.GetByPageGrouped(c.Request.Context(), page, groupBy, wl, today)
		if err != nil {
			h.log.Error().Err(err).Str("page", string(page)).Msg("Grouped page read failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if groups == nil {
			groups = []catalog.Group{}
		}
		c.JSON(http.StatusOK, groups)
		return
	}

	keysets, err := h.services.Catalog.GetByPage(c.Request.Context(), page, wl, today)
	if err != nil {
		h.log.Error().Err(err).Str("page", string(page)).Msg("Page read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if keysets == nil {
		keysets = []models.Keyset{}
	}
	c.JSON(http.StatusOK, keysets)
}

// GetKeysetByID handles GET /getKeysetById?id=...
func (h *KeysetHandler) GetKeysetByID(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id parameter is required"})
		return
	}

	ks, err := h.services.Catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Keyset read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ks == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Keyset not found"})
		return
	}
	c.JSON(http.StatusOK, ks)
}

// CreateKeyset handles POST /keysets
func (h *KeysetHandler) CreateKeyset(c *gin.Context) {
	var req models.KeysetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ks, err := h.services.Catalog.Create(c.Request.Context(), &req, mustCurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ks)
}

// UpdateKeyset handles PATCH /keysets/:id
func (h *KeysetHandler) UpdateKeyset(c *gin.Context) {
	var req models.KeysetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ks, err := h.services.Catalog.Update(c.Request.Context(), c.Param("id"), &req, mustCurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ks)
}

// DeleteKeyset handles DELETE /keysets/:id
// The delete is logical; physical removal happens asynchronously once the
// audit trail has recorded the stripped snapshot
func (h *KeysetHandler) DeleteKeyset(c *gin.Context) {
	if err := h.services.Catalog.Delete(c.Request.Context(), c.Param("id"), mustCurrentUser(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// whitelistFromQuery builds filter criteria from query parameters.
// List-valued parameters are comma-separated.
func whitelistFromQuery(c *gin.Context) models.Whitelist {
	return models.Whitelist{
		Profiles:   splitParam(c.Query("profiles")),
		Shipped:    splitParam(c.Query("shipped")),
		VendorMode: c.Query("vendorMode"),
		Vendors:    splitParam(c.Query("vendors")),
		Regions:    splitParam(c.Query("regions")),
	}
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
