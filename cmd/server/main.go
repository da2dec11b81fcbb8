package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reposcout/reposcout/internal/handlers"
	"github.com/reposcout/reposcout/internal/middleware"
	"github.com/reposcout/reposcout/internal/repositories"
	"github.com/reposcout/reposcout/internal/services"
	"github.com/reposcout/reposcout/pkg/config"
	"github.com/reposcout/reposcout/pkg/database"
	"github.com/reposcout/reposcout/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	logger.Init()

	// Initialize database
	db, err := database.Init(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize dependencies
	trackedRepoRepo := repositories.NewTrackedRepositoryRepository(db)
	searchEventRepo := repositories.NewSearchEventRepository(db)
	historyService := services.NewHistoryService(trackedRepoRepo, searchEventRepo)

	githubClient := services.NewGithubClient(cfg.GitHub.Token)
	provider := services.NewGithubSearchService(githubClient)
	scorer := services.NewScorerService(cfg.Search.AllowedLicenses)
	searchService := services.NewSearchService(provider, historyService, scorer)
	analyzerService := services.NewAnalyzerService(githubClient)
	exportService := services.NewExportService(historyService)

	// Initialize router
	router := gin.Default()
	router.Use(middleware.UserMiddleware())

	setupRoutes(router, db, cfg, searchService, analyzerService, historyService, exportService)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown: %v", err)
	}
	logger.Infof("Server stopped")
}

func setupRoutes(router *gin.Engine, db *sql.DB, cfg *config.Config, searchService *services.SearchService, analyzerService *services.AnalyzerService, historyService *services.HistoryService, exportService *services.ExportService) {
	// Initialize handlers
	homeHandler := handlers.NewHomeHandler()
	searchHandler := handlers.NewSearchHandler(searchService, historyService, cfg.Search)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, historyService)
	userHandler := handlers.NewUserHandler(historyService)
	exportHandler := handlers.NewExportHandler(exportService)
	healthHandler := handlers.NewHealthHandler(db)

	router.GET("/", homeHandler.Index)

	api := router.Group("/api/v1")
	{
		api.GET("/search", searchHandler.Search)
		api.GET("/analyze/:owner/:repo", analyzeHandler.Analyze)
		api.GET("/users/:user_id/stats", userHandler.Stats)
		api.POST("/users/:user_id/cleanup", userHandler.Cleanup)
		api.POST("/users/:user_id/reset", userHandler.Reset)
		api.GET("/export", exportHandler.Export)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)
}
