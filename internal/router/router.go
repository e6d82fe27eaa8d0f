package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/handler"
	"github.com/stemsi/student-records/internal/middleware"
	"github.com/stemsi/student-records/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Form   *handler.FormHandler
	Record *handler.RecordHandler
	WS     *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by middlewares (rate limiter sweeps).
func SetupRouter(
	ctx context.Context,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and every envelope can use it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: cfg.CompressionMinBytes,
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── API Group ─────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())
	if cfg.RateLimitPerMinute > 0 {
		api.Use(middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute).Middleware())
	}

	form := api.Group("/form")
	{
		form.GET("", handlers.Form.GetForm)
		form.PUT("", handlers.Form.ReplaceForm)
		form.PUT("/fields/:field", handlers.Form.SetField)
		form.POST("/submit", handlers.Form.Submit)
		form.POST("/reset", handlers.Form.Reset)
	}

	records := api.Group("/records")
	{
		records.GET("", handlers.Record.ListRecords)
		records.GET("/summary", handlers.Record.GetSummary)
		records.POST("/:id/edit", handlers.Record.EditRecord)
		records.DELETE("/:id", handlers.Record.DeleteRecord)
	}

	view := api.Group("/view")
	{
		view.GET("", handlers.Record.GetView)
		view.PUT("/filter", handlers.Record.SetFilter)
	}

	// ─── WebSocket Group ───────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/form", handlers.WS.FormStream)
	}

	return router
}
