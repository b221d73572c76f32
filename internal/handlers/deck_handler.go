package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/database/repository"
	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/slidesmith/slidesmith-backend/internal/services"
)

type DeckHandler struct {
	deckService *services.DeckService
	hub         *services.ProgressHub
	logRepo     *repository.GenerationLogRepository
}

func NewDeckHandler(deckService *services.DeckService, hub *services.ProgressHub, logRepo *repository.GenerationLogRepository) *DeckHandler {
	return &DeckHandler{
		deckService: deckService,
		hub:         hub,
		logRepo:     logRepo,
	}
}

// GenerateOutline godoc
// @Summary Generate a deck outline
// @Description Generate a structured outline for a presentation topic without creating a project
// @Tags ppt
// @Accept json
// @Produce json
// @Param request body models.GenerateOutlineRequest true "Outline generation request"
// @Success 200 {object} models.Outline
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/ppt/outline [post]
func (h *DeckHandler) GenerateOutline(c *gin.Context) {
	var req models.GenerateOutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	outline, err := h.deckService.GenerateOutline(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate outline", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outline)
}

// GenerateDeck godoc
// @Summary Generate a complete slide deck
// @Description Run the full generation pipeline: outline, images, design, pages, assembly and optional rendering
// @Tags ppt
// @Accept json
// @Produce json
// @Param request body models.GenerateDeckRequest true "Deck generation request"
// @Success 200 {object} models.GenerateDeckResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/ppt/generate [post]
func (h *DeckHandler) GenerateDeck(c *gin.Context) {
	var req models.GenerateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	logrus.Infof("Deck generation requested: topic=%q slides=%d render=%v", req.Topic, req.Slides, req.Render)

	response, err := h.deckService.Generate(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate deck", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// StreamEvents godoc
// @Summary Stream generation progress via Server-Sent Events (SSE)
// @Description Stream real-time generation phase events for a project via SSE
// @Tags ppt
// @Accept json
// @Produce text/event-stream
// @Param id path string true "Project ID" example:"550e8400-e29b-41d4-a716-446655440000"
// @Success 200 "SSE stream"
// @Router /api/v1/ppt/{id}/events [get]
func (h *DeckHandler) StreamEvents(c *gin.Context) {
	projectID := c.Param("id")

	// Set headers for SSE
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable buffering for nginx

	clientChan := h.hub.RegisterClient(projectID)
	defer h.hub.UnregisterClient(projectID, clientChan)

	c.SSEvent("connected", gin.H{
		"project_id": projectID,
		"message":    "Connected to progress stream",
	})
	c.Writer.Flush()

	// Replay phases that completed before the client connected
	existingLogs, err := h.logRepo.GetByProjectID(projectID, 100, 0)
	if err == nil {
		for _, log := range existingLogs {
			logJSON, err := json.Marshal(log)
			if err != nil {
				continue
			}
			message := fmt.Sprintf("event: progress\ndata: %s\n\n", string(logJSON))
			if _, err := c.Writer.Write([]byte(message)); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			logrus.Infof("SSE client disconnected: project %s", projectID)
			return
		case <-heartbeat.C:
			h.hub.SendHeartbeat(projectID)
		case message, ok := <-clientChan:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(message); err != nil {
				logrus.Errorf("Failed to write SSE message: %v", err)
				return
			}
			c.Writer.Flush()
		}
	}
}
