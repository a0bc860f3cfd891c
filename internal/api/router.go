package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, verifier *auth.TokenVerifier, health HealthChecker, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))
	router.Use(authMiddleware(verifier, log))

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	reviewHandler := NewReviewHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := router.Group("/v1")
	{
		items := v1.Group("/items/:id")
		{
			items.GET("/comments", commentHandler.ListItemComments)
			items.POST("/comments", commentHandler.CreateItemComment)
			items.GET("/reviews", reviewHandler.ListReviews)
			items.GET("/reviews/summary", reviewHandler.Summary)
			items.POST("/reviews", reviewHandler.CreateReview)
		}

		pages := v1.Group("/pages/:id")
		{
			pages.GET("/comments", commentHandler.ListPageComments)
			pages.POST("/comments", commentHandler.CreatePageComment)
		}

		comments := v1.Group("/comments/:id")
		{
			comments.GET("/replies", commentHandler.ListReplies)
			comments.PATCH("", commentHandler.EditComment)
			comments.DELETE("", commentHandler.DeleteComment)
			comments.POST("/vote", commentHandler.Vote)
		}

		reviews := v1.Group("/reviews/:id")
		{
			reviews.PATCH("", reviewHandler.EditReview)
			reviews.DELETE("", reviewHandler.DeleteReview)
			reviews.POST("/vote", reviewHandler.Vote)
		}

		admin := v1.Group("/admin")
		{
			admin.DELETE("/reviews/:id", adminHandler.DeleteReview)
			admin.POST("/migrations/legacy-comments", adminHandler.MigrateLegacyComments)
			admin.GET("/migrations/:job_id", adminHandler.GetMigrationJob)
			admin.GET("/banned-words", adminHandler.ListBannedWords)
			admin.POST("/banned-words", adminHandler.AddBannedWord)
			admin.DELETE("/banned-words/:word", adminHandler.RemoveBannedWord)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "discussion-engine-api",
		}

		if health != nil {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()
			if err := health.HealthCheck(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = err.Error()
			}
		}

		c.JSON(status, body)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
				})
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

		if id, ok := auth.FromContext(c.Request.Context()); ok {
			event = event.Str("user_id", id.UserID)
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

// corsMiddleware handles CORS for the configured origins
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// authMiddleware attaches the caller identity of a valid bearer token.
// Requests without a token stay anonymous; a bad token is rejected.
func authMiddleware(verifier *auth.TokenVerifier, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || verifier == nil {
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			writeError(c, log, models.NewDomainError(models.ErrUnauthenticated, "invalid authorization format"))
			return
		}

		id, err := verifier.Verify(token)
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				log.Debug().Err(err).Msg("Rejected bearer token")
			}
			writeError(c, log, models.NewDomainError(models.ErrUnauthenticated, "invalid or expired token"))
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// pageParams reads the page and limit query parameters. Missing values mean defaults.
func pageParams(c *gin.Context) (page, limit int, ok bool) {
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &page}, {"limit", &limit}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, p.name, p.name+" must be a positive integer")
			return 0, 0, false
		}
		*p.dst = n
	}
	return page, limit, true
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
