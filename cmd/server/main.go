package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aurashield/aurashield/internal/api"
	"github.com/aurashield/aurashield/internal/config"
	"github.com/aurashield/aurashield/internal/gemini"
	"github.com/aurashield/aurashield/internal/logger"
	"github.com/aurashield/aurashield/internal/publish"
	"github.com/aurashield/aurashield/internal/service"
	"github.com/aurashield/aurashield/internal/sources"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	cfg := config.New()
	log := logger.New(os.Getenv("ENV") == "development")
	defer log.Sync()

	log.Info("Starting Aura Shield backend...")

	// Source clients
	twitter := sources.NewTwitterClient(cfg.TwitterBearerToken, cfg.FetchTimeout)
	youtube := sources.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.FetchTimeout)
	web := sources.NewWebFetcher(cfg.FetchTimeout)
	analyzer := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.FetchTimeout, log)

	// Initialize services
	analysisService := service.NewAnalysisService(twitter, youtube, web, analyzer, log)

	// Optional alert event publisher
	var publisher *publish.Publisher
	if cfg.RabbitMQEnabled {
		var err error
		publisher, err = publish.NewPublisher(cfg, log)
		if err != nil {
			log.Warnw("Failed to initialize RabbitMQ, continuing without publishing", "error", err)
		}
	}
	defer publisher.Close()

	// Setup HTTP server
	handler := api.NewHandler(analysisService, publisher, cfg, log)
	router := api.SetupRoutes(handler, log)
	server := api.NewHTTPServer(cfg, router)

	// Start server in goroutine
	go func() {
		log.Infof("Server starting on %s", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully")
}
