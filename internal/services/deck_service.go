package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/database/repository"
	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// defaultSpeechScene frames speaker note generation when the request asks for
// notes without specifying a scene.
const defaultSpeechScene = "professional presentation to a general audience"

// DeckService drives the full generation pipeline for one project: outline,
// image embedding, design spec, per-page HTML, assembly, optional rendering
// and export. Progress is persisted as generation logs and streamed out over
// SSE and RabbitMQ.
type DeckService struct {
	projectRepo *repository.ProjectRepository
	logRepo     *repository.GenerationLogRepository

	outlineService *OutlineService
	imageService   *ImageEmbedService
	designService  *DesignService
	orchestrator   *PageOrchestrator
	renderer       *RendererService
	exporter       *ExportService

	hub      *ProgressHub
	rabbitmq *RabbitMQService // optional
}

func NewDeckService(
	projectRepo *repository.ProjectRepository,
	logRepo *repository.GenerationLogRepository,
	outlineService *OutlineService,
	imageService *ImageEmbedService,
	designService *DesignService,
	orchestrator *PageOrchestrator,
	renderer *RendererService,
	exporter *ExportService,
	hub *ProgressHub,
	rabbitmq *RabbitMQService,
) *DeckService {
	return &DeckService{
		projectRepo:    projectRepo,
		logRepo:        logRepo,
		outlineService: outlineService,
		imageService:   imageService,
		designService:  designService,
		orchestrator:   orchestrator,
		renderer:       renderer,
		exporter:       exporter,
		hub:            hub,
		rabbitmq:       rabbitmq,
	}
}

// GenerateOutline runs the outline phase alone, without creating a project.
func (s *DeckService) GenerateOutline(ctx context.Context, req *models.GenerateOutlineRequest) (*models.Outline, error) {
	return s.outlineService.Generate(ctx, req.Topic, req.Style, req.Slides, req.ReferenceMaterial)
}

// Generate runs the full pipeline synchronously and returns the assembled
// deck. The project row tracks the run; a pipeline error marks it failed and
// is returned to the caller.
func (s *DeckService) Generate(ctx context.Context, req *models.GenerateDeckRequest) (*models.GenerateDeckResponse, error) {
	project := &models.Project{
		Topic:  req.Topic,
		Style:  req.Style,
		Status: models.ProjectStatusRunning,
	}
	if project.Style == "" {
		project.Style = "business"
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logrus.Infof("Starting deck generation for project %s (topic=%q)", project.ID, req.Topic)

	deck, stats, outputDir, err := s.runPipeline(ctx, project, req)
	if err != nil {
		s.failProject(project, err)
		return nil, err
	}

	project.Status = models.ProjectStatusCompleted
	project.SlideCount = stats.TotalPages
	project.FailedPages = stats.FailedPages
	project.EmbeddedImages = stats.EmbeddedImages
	project.OutputDir = outputDir
	if deckJSON, err := json.Marshal(deck); err == nil {
		project.DeckJSON = models.JSON(deckJSON)
	}
	if err := s.projectRepo.Update(project); err != nil {
		logrus.Errorf("Failed to persist completed project %s: %v", project.ID, err)
	}

	return &models.GenerateDeckResponse{
		ProjectID: project.ID,
		Status:    project.Status,
		Deck:      deck,
		Stats:     stats,
		OutputDir: outputDir,
	}, nil
}

func (s *DeckService) runPipeline(ctx context.Context, project *models.Project, req *models.GenerateDeckRequest) (*models.SlideDeck, models.GenerationStats, string, error) {
	var stats models.GenerationStats

	// Outline
	s.emit(ctx, project.ID, models.PhaseOutline, "started", "Generating outline", 0, 0)
	outline, err := s.outlineService.Generate(ctx, req.Topic, req.Style, req.Slides, req.ReferenceMaterial)
	if err != nil {
		s.emit(ctx, project.ID, models.PhaseOutline, "failed", err.Error(), 0, 0)
		return nil, stats, "", err
	}
	if outlineJSON, err := json.Marshal(outline); err == nil {
		project.OutlineJSON = models.JSON(outlineJSON)
		if err := s.projectRepo.Update(project); err != nil {
			logrus.Warnf("Failed to persist outline for project %s: %v", project.ID, err)
		}
	}
	s.emit(ctx, project.ID, models.PhaseOutline, "completed",
		fmt.Sprintf("Outline ready with %d slides", len(outline.Pages)), len(outline.Pages), len(outline.Pages))

	// Images
	s.emit(ctx, project.ID, models.PhaseImages, "started", "Searching images", 0, 0)
	embedded := s.imageService.Embed(ctx, outline)
	s.emit(ctx, project.ID, models.PhaseImages, "completed",
		fmt.Sprintf("%d images embedded", embedded), embedded, embedded)

	// Design
	s.emit(ctx, project.ID, models.PhaseDesign, "started", "Generating design spec", 0, 0)
	designSpec, err := s.designService.Generate(ctx, req.Topic, outline, req.Style)
	if err != nil {
		s.emit(ctx, project.ID, models.PhaseDesign, "failed", err.Error(), 0, 0)
		return nil, stats, "", err
	}
	s.emit(ctx, project.ID, models.PhaseDesign, "completed", "Design spec ready", 0, 0)

	// Pages
	speechScene := ""
	if req.SpeechNotes {
		speechScene = defaultSpeechScene
	}
	s.emit(ctx, project.ID, models.PhasePages, "started",
		fmt.Sprintf("Generating %d pages", len(outline.Pages)), 0, len(outline.Pages))
	pageResults, err := s.orchestrator.GeneratePages(ctx, project.ID, outline, designSpec, req.Style, speechScene)
	defer s.orchestrator.ResetLayoutUsage(project.ID)
	if err != nil {
		s.emit(ctx, project.ID, models.PhasePages, "failed", err.Error(), 0, len(outline.Pages))
		return nil, stats, "", err
	}
	stats = DeckStats(pageResults, embedded)
	s.emit(ctx, project.ID, models.PhasePages, "completed",
		fmt.Sprintf("%d pages generated, %d failed", stats.SucceededPages, stats.FailedPages),
		stats.TotalPages, stats.TotalPages)

	// Assemble
	s.emit(ctx, project.ID, models.PhaseAssemble, "started", "Assembling deck", 0, 0)
	deck, err := AssembleDeck(outline, pageResults, designSpec)
	if err != nil {
		s.emit(ctx, project.ID, models.PhaseAssemble, "failed", err.Error(), 0, 0)
		return nil, stats, "", err
	}
	s.emit(ctx, project.ID, models.PhaseAssemble, "completed", "Deck assembled", 0, 0)

	// Export is best-effort; the deck is already complete in the response
	if _, err := s.exporter.ExportDeck(project.ID, deck); err != nil {
		logrus.Warnf("Failed to export deck for project %s: %v", project.ID, err)
	}

	// Render
	outputDir := ""
	if req.Render {
		if !s.renderer.IsAvailable() {
			logrus.Warnf("Render requested for project %s but no renderer is configured", project.ID)
		} else {
			s.emit(ctx, project.ID, models.PhaseRender, "started", "Rendering deck", 0, 0)
			outputDir, err = s.renderer.Render(ctx, project.ID, deck)
			if err != nil {
				// Rendering failures do not discard the generated deck
				logrus.Errorf("Rendering failed for project %s: %v", project.ID, err)
				s.emit(ctx, project.ID, models.PhaseRender, "failed", err.Error(), 0, 0)
				outputDir = ""
			} else {
				s.emit(ctx, project.ID, models.PhaseRender, "completed", "Deck rendered", 0, 0)
			}
		}
	}

	return deck, stats, outputDir, nil
}

func (s *DeckService) failProject(project *models.Project, cause error) {
	logrus.Errorf("Deck generation failed for project %s: %v", project.ID, cause)
	sentry.CaptureException(cause)
	if err := s.projectRepo.UpdateStatus(project.ID, models.ProjectStatusFailed, cause.Error()); err != nil {
		logrus.Errorf("Failed to mark project %s as failed: %v", project.ID, err)
	}
}

// emit records one phase transition: a generation log row, an SSE broadcast
// and a RabbitMQ publish. Delivery failures are logged, never propagated.
func (s *DeckService) emit(ctx context.Context, projectID, phase, status, message string, current, total int) {
	event := &models.DeckEvent{
		ProjectID: projectID,
		Phase:     phase,
		Status:    status,
		Message:   message,
		Current:   current,
		Total:     total,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	log := &models.GenerationLog{
		ProjectID: projectID,
		Phase:     phase,
		Status:    status,
		Message:   message,
	}
	if details, err := json.Marshal(map[string]int{"current": current, "total": total}); err == nil {
		log.Details = models.JSON(details)
	}
	if err := s.logRepo.Create(log); err != nil {
		logrus.Warnf("Failed to persist generation log for project %s: %v", projectID, err)
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(event)
	}

	if s.rabbitmq != nil {
		if err := s.rabbitmq.PublishDeckEvent(ctx, event); err != nil {
			logrus.Warnf("Failed to publish deck event for project %s: %v", projectID, err)
		}
	}
}
