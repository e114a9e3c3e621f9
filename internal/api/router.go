package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keycaplendar/api/internal/auth"
	"github.com/keycaplendar/api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, tokens *auth.Manager, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	keysetHandler := NewKeysetHandler(services, log)
	auditHandler := NewAuditHandler(services, log)
	userHandler := NewUserHandler(services, log)

	// Public surface
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))
	router.POST("/apiAuth", authHandler.IssueToken)
	router.GET("/audit", auditHandler.GetPublicAudit)

	// External read API, bearer-token gated
	external := router.Group("/", auth.RequireToken(tokens, log))
	{
		external.GET("/getAllKeysets", keysetHandler.GetAllKeysets)
		external.GET("/getKeysetsByPage/:page", keysetHandler.GetKeysetsByPage)
		external.GET("/getKeysetById", keysetHandler.GetKeysetByID)
	}

	// App surface: same tokens, but the account must map onto an app user
	// whose claims gate each operation
	app := router.Group("/", auth.RequireToken(tokens, log), currentUserMiddleware(services, log))
	{
		app.POST("/keysets", keysetHandler.CreateKeyset)
		app.PATCH("/keysets/:id", keysetHandler.UpdateKeyset)
		app.DELETE("/keysets/:id", keysetHandler.DeleteKeyset)

		app.GET("/users", userHandler.ListUsers)
		app.PATCH("/users/:id/claims", userHandler.SetClaims)
		app.DELETE("/users/:id", userHandler.DeleteUser)

		app.GET("/presets", userHandler.ListPresets)
		app.PUT("/presets", userHandler.SavePreset)
		app.DELETE("/presets/:id", userHandler.DeletePreset)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "keycaplendar-api",
	})
}

// metricsHandler returns database row counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		keysetsCount, _ := services.Catalog.GetCount(ctx, "keysets")
		changelogCount, _ := services.Catalog.GetCount(ctx, "changelog")
		usersCount, _ := services.Catalog.GetCount(ctx, "users")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"keysets":   keysetsCount,
				"changelog": changelogCount,
				"users":     usersCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

const currentUserKey = "current_user"

// currentUserMiddleware resolves the verified token onto an app user record
func currentUserMiddleware(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := auth.ClaimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := services.User.GetByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			log.Error().Err(err).Str("email", claims.Email).Msg("User lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if user == nil {
			log.Warn().Str("email", claims.Email).Msg("Token for unknown app user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
