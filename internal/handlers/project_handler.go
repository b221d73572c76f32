package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/database/repository"
	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/slidesmith/slidesmith-backend/internal/services"
	"github.com/slidesmith/slidesmith-backend/internal/utils"
)

type ProjectHandler struct {
	projectRepo   *repository.ProjectRepository
	logRepo       *repository.GenerationLogRepository
	exportService *services.ExportService
}

func NewProjectHandler(projectRepo *repository.ProjectRepository, logRepo *repository.GenerationLogRepository, exportService *services.ExportService) *ProjectHandler {
	return &ProjectHandler{
		projectRepo:   projectRepo,
		logRepo:       logRepo,
		exportService: exportService,
	}
}

// GetAllProjects godoc
// @Summary List generation projects
// @Description Get paginated projects, newest first, optionally filtered by status
// @Tags projects
// @Accept json
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, running, completed, failed)
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/projects [get]
func (h *ProjectHandler) GetAllProjects(c *gin.Context) {
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)
	offset := utils.CalculateOffset(page, pageSize)
	status := c.Query("status")

	var projects []*models.Project
	var err error
	if status != "" {
		projects, err = h.projectRepo.GetByStatus(status, pageSize, offset)
	} else {
		projects, err = h.projectRepo.GetAll(pageSize, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get projects", "details": err.Error()})
		return
	}

	total, err := h.projectRepo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count projects", "details": err.Error()})
		return
	}

	responses := make([]models.ProjectResponse, len(projects))
	for i, project := range projects {
		responses[i] = h.projectToResponse(project)
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":   responses,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// GetProjectByID godoc
// @Summary Get a project by ID
// @Description Get a project's status, stats and stored artifacts
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	id := c.Param("id")

	project, err := h.projectRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// GetProjectLogs godoc
// @Summary Get generation logs for a project
// @Description Get the per-phase generation log timeline for a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param limit query int false "Limit" default(100)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.GenerationLog
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/projects/{id}/logs [get]
func (h *ProjectHandler) GetProjectLogs(c *gin.Context) {
	id := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := h.logRepo.GetByProjectID(id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// GetDownloadURL godoc
// @Summary Get a signed download URL for a project export
// @Description Generate a time-limited signed URL for downloading the exported deck archive
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/projects/{id}/download-url [get]
func (h *ProjectHandler) GetDownloadURL(c *gin.Context) {
	id := c.Param("id")

	if !h.exportService.HasArchive(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No export found for project"})
		return
	}

	url, err := h.exportService.GenerateSignedDownloadURL(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

// DownloadExport godoc
// @Summary Download a project's exported deck archive
// @Description Download the ZIP archive for a project, authorized by a signed token
// @Tags projects
// @Accept json
// @Produce application/zip
// @Param id path string true "Project ID"
// @Param token query string true "Signed download token"
// @Success 200 "ZIP archive"
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/projects/{id}/download [get]
func (h *ProjectHandler) DownloadExport(c *gin.Context) {
	id := c.Param("id")

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing download token"})
		return
	}

	tokenProjectID, err := h.exportService.ValidateDownloadToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid download token", "details": err.Error()})
		return
	}
	if tokenProjectID != id {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token does not match project"})
		return
	}

	f, err := h.exportService.OpenArchive(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export not found"})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", id))
	if _, err := io.Copy(c.Writer, f); err != nil {
		logrus.Errorf("Failed to stream export for project %s: %v", id, err)
	}
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Delete a project and its generation logs
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id := c.Param("id")

	if err := h.projectRepo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *ProjectHandler) projectToResponse(project *models.Project) models.ProjectResponse {
	return models.ProjectResponse{
		ID:             project.ID,
		Topic:          project.Topic,
		Style:          project.Style,
		Status:         project.Status,
		Error:          project.Error,
		SlideCount:     project.SlideCount,
		FailedPages:    project.FailedPages,
		EmbeddedImages: project.EmbeddedImages,
		OutputDir:      project.OutputDir,
		CreatedAt:      project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      project.UpdatedAt.Format(time.RFC3339),
	}
}
