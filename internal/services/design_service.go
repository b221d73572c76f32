package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/slidesmith/slidesmith-backend/internal/services/llm"
)

type DesignService struct {
	llmClient llm.Client
}

func NewDesignService(llmClient llm.Client) *DesignService {
	return &DesignService{
		llmClient: llmClient,
	}
}

// Generate produces the global design spec for a deck with one LLM call.
// There is no retry beyond what the LLM client provides; a failure here is
// fatal to the pipeline since no sensible default design exists.
func (s *DesignService) Generate(ctx context.Context, topic string, outline *models.Outline, style string) (*models.DesignSpec, error) {
	logrus.Infof("Generating design spec for %q (style=%s)", topic, style)

	systemPrompt := "You are a presentation visual designer. Respond with a single JSON object " +
		"with fields: primary_color, secondary_color, accent_color, background_color, " +
		"text_color, text_secondary_color, font_family, title_font_size, content_font_size, " +
		"layout_style, spacing, border_radius, use_shadows, use_gradients, animation_style, " +
		"chart_colors (array of hex strings). Colors are hex values. The spec must work for " +
		"every slide in the deck."

	var titles []string
	for _, page := range outline.Pages {
		titles = append(titles, fmt.Sprintf("%d. [%s] %s", page.SlideNumber, page.PageType, page.Title))
	}

	userPrompt := fmt.Sprintf(
		"Topic: %s\nStyle: %s\nDeck title: %s\nOutline palette: primary=%s accent=%s background=%s text=%s secondary=%s\nSlides:\n%s",
		topic, style, outline.Title,
		outline.Colors.Primary, outline.Colors.Accent, outline.Colors.Background,
		outline.Colors.Text, outline.Colors.Secondary,
		strings.Join(titles, "\n"),
	)

	var spec models.DesignSpec
	if err := s.llmClient.StructuredComplete(ctx, systemPrompt, userPrompt, &spec); err != nil {
		return nil, fmt.Errorf("design spec generation failed: %w", err)
	}

	logrus.Infof("Design spec generated: %s style, primary %s", spec.LayoutStyle, spec.PrimaryColor)
	return &spec, nil
}
