package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slidesmith/slidesmith-backend/internal/database"
	"github.com/slidesmith/slidesmith-backend/internal/database/repository"
	"github.com/slidesmith/slidesmith-backend/internal/router"
	"github.com/slidesmith/slidesmith-backend/internal/services"
	"github.com/slidesmith/slidesmith-backend/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	// Import Swagger docs
	_ "github.com/slidesmith/slidesmith-backend/docs"
)

// @title Slidesmith Backend API
// @version 1.0
// @description LLM-backed slide deck generation pipeline
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.slidesmith.io/support
// @contact.email support@slidesmith.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Configure logging
	configureLogging()

	// Initialize Sentry
	utils.InitSentry()

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Progress hub shared by the pipeline and the SSE handler
	hub := services.NewProgressHub()

	// RabbitMQ is optional; without it progress events flow over SSE only
	rabbitMQService, err := services.NewRabbitMQService()
	if err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ: %v", err)
		rabbitMQService = nil
	} else {
		logrus.Info("RabbitMQ service initialized")
		defer rabbitMQService.Close()
	}

	// Periodically prune old generation logs
	logRetentionDays := getEnvAsInt("LOG_RETENTION_DAYS", 7)
	logRepo := repository.NewGenerationLogRepository(db)
	cleanupDone := make(chan struct{})
	go runLogCleanup(logRepo, logRetentionDays, cleanupDone)
	defer close(cleanupDone)

	// Initialize router
	r := router.SetupRouter(db, rabbitMQService, hub)

	// Configure HTTP server
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

// runLogCleanup deletes generation logs older than the retention window
// every 6 hours until done is closed.
func runLogCleanup(logRepo *repository.GenerationLogRepository, retentionDays int, done <-chan struct{}) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deleted, err := logRepo.DeleteOldLogs(retentionDays)
			if err != nil {
				logrus.Warnf("Generation log cleanup failed: %v", err)
			} else if deleted > 0 {
				logrus.Infof("Generation log cleanup removed %d rows", deleted)
			}
		}
	}
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, fmt.Sprintf("%d", defaultValue))
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}
	return value
}
