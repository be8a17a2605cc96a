package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/anthonydaros/ContractAI/config"
	"github.com/anthonydaros/ContractAI/handler"
	"github.com/anthonydaros/ContractAI/middleware"
	"github.com/anthonydaros/ContractAI/pkg/admission"
	"github.com/anthonydaros/ContractAI/pkg/logger"
	"github.com/anthonydaros/ContractAI/service"
)

func main() {
	// Load secrets from .env when present; real environments set them directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	analyzerSvc := service.NewAnalyzerService(&cfg.Analyzer)
	sessionStore := service.NewSessionStore(&cfg.Sessions)
	samplesSvc := service.NewSamplesService()
	exportSvc := service.NewExportService()
	shareSvc := service.NewShareLinkService(&cfg.Share)

	var artifactSvc *service.ArtifactService
	if cfg.Artifacts.Enabled() {
		artifactSvc, err = service.NewArtifactService(&cfg.Artifacts)
		if err != nil {
			slog.Error("failed to initialize artifact storage", "error", err)
			os.Exit(1)
		}
		if err := artifactSvc.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure artifact bucket", "error", err)
			os.Exit(1)
		}
		slog.Info("artifact storage enabled", "bucket", cfg.Artifacts.Bucket)
	}

	gate := admission.NewGate(cfg.Upload.MaxSizeBytes)

	// Initialize handlers
	uploadHandler := handler.NewUploadHandler(gate, analyzerSvc)
	sessionHandler := handler.NewSessionHandler(analyzerSvc, sessionStore)
	samplesHandler := handler.NewSamplesHandler(samplesSvc)
	exportHandler := handler.NewExportHandler(sessionStore, exportSvc, shareSvc, artifactSvc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/upload", uploadHandler.Upload)

		api.POST("/sessions", sessionHandler.Create)
		api.GET("/sessions/:id", sessionHandler.Get)
		api.POST("/sessions/:id/restart", sessionHandler.Restart)
		api.DELETE("/sessions/:id", sessionHandler.Delete)

		api.GET("/sessions/:id/export.pdf", exportHandler.ExportPDF)
		api.POST("/sessions/:id/share", exportHandler.Share)
		api.GET("/shared/:token", exportHandler.Shared)

		api.GET("/samples", samplesHandler.List)
		api.GET("/samples/:id", samplesHandler.Get)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
