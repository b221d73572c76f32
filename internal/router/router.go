package router

import (
	"os"
	"time"

	"github.com/slidesmith/slidesmith-backend/internal/config"
	"github.com/slidesmith/slidesmith-backend/internal/database/repository"
	"github.com/slidesmith/slidesmith-backend/internal/handlers"
	"github.com/slidesmith/slidesmith-backend/internal/middleware"
	"github.com/slidesmith/slidesmith-backend/internal/services"
	"github.com/slidesmith/slidesmith-backend/internal/services/imagesearch"
	"github.com/slidesmith/slidesmith-backend/internal/services/layout"
	"github.com/slidesmith/slidesmith-backend/internal/services/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin router with the deck generation routes.
// rabbitMQService may be nil; progress events then flow over SSE only.
func SetupRouter(db *gorm.DB, rabbitMQService *services.RabbitMQService, hub *services.ProgressHub) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	logRepo := repository.NewGenerationLogRepository(db)

	// External collaborators
	llmClient := llm.NewOpenAIClient(config.GetLLMConfig())
	searcher := imagesearch.NewPexelsClient(config.GetImageSearchConfig())
	renderer := services.NewRendererService(config.GetRendererConfig())

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Pipeline services
	outlineService := services.NewOutlineService(llmClient)
	imageService := services.NewImageEmbedService(searcher)
	designService := services.NewDesignService(llmClient)
	orchestrator := services.NewPageOrchestrator(llmClient, layout.NewSelector(layout.NewUsageStore()))
	exportService := services.NewExportService(baseURL)
	deckService := services.NewDeckService(
		projectRepo, logRepo,
		outlineService, imageService, designService, orchestrator,
		renderer, exportService,
		hub, rabbitMQService,
	)

	// Handlers
	deckHandler := handlers.NewDeckHandler(deckService, hub, logRepo)
	projectHandler := handlers.NewProjectHandler(projectRepo, logRepo, exportService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Generation routes
		ppt := api.Group("/ppt")
		{
			ppt.POST("/outline", deckHandler.GenerateOutline)
			ppt.POST("/generate", deckHandler.GenerateDeck)
			ppt.GET("/:id/events", deckHandler.StreamEvents)
		}

		// Project routes
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.GetAllProjects)
			projects.GET("/:id", projectHandler.GetProjectByID)
			projects.GET("/:id/logs", projectHandler.GetProjectLogs)
			projects.GET("/:id/download-url", projectHandler.GetDownloadURL)
			projects.GET("/:id/download", projectHandler.DownloadExport)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}
	}

	return r
}
