package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/config"
	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// RendererService hands an assembled deck to the external rendering worker,
// which writes per-slide HTML files and screenshots to disk. Rendering can
// take minutes for large decks, hence the long client timeout.
type RendererService struct {
	httpClient *resty.Client
	baseURL    string
	enabled    bool
}

type renderRequest struct {
	ProjectID string            `json:"project_id"`
	Deck      *models.SlideDeck `json:"deck"`
}

type renderResponse struct {
	OutputDir string `json:"output_dir"`
	Error     string `json:"error,omitempty"`
}

func NewRendererService(cfg *config.RendererConfig) *RendererService {
	client := resty.New().
		SetHeader("User-Agent", "Slidesmith-Backend/1.0").
		SetTimeout(5 * time.Minute)

	return &RendererService{
		httpClient: client,
		baseURL:    cfg.BaseURL,
		enabled:    cfg.Enabled,
	}
}

// IsAvailable reports whether a renderer endpoint is configured.
func (s *RendererService) IsAvailable() bool {
	return s.enabled
}

// Render submits the deck for rendering and returns the output directory
// reported by the worker.
func (s *RendererService) Render(ctx context.Context, projectID string, deck *models.SlideDeck) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("renderer is not configured")
	}

	logrus.Infof("Rendering deck for project %s (%d slides)", projectID, len(deck.Slides))

	var result renderResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(renderRequest{ProjectID: projectID, Deck: deck}).
		SetResult(&result).
		Post(s.baseURL + "/render")

	if err != nil {
		return "", fmt.Errorf("failed to call renderer: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("renderer error (status %d): %s", resp.StatusCode(), resp.String())
	}
	if result.Error != "" {
		return "", fmt.Errorf("renderer reported failure: %s", result.Error)
	}

	logrus.Infof("Deck for project %s rendered to %s", projectID, result.OutputDir)
	return result.OutputDir, nil
}
