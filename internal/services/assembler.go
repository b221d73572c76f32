package services

import (
	"fmt"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// AssembleDeck merges the outline and per-page results into the final deck.
// It is pure: no I/O, no model calls. The result list must line up with the
// outline one-to-one or assembly refuses.
func AssembleDeck(outline *models.Outline, pageResults []models.PageResult, designSpec *models.DesignSpec) (*models.SlideDeck, error) {
	if outline == nil {
		return nil, fmt.Errorf("cannot assemble deck: outline is nil")
	}
	if len(pageResults) != len(outline.Pages) {
		return nil, fmt.Errorf("cannot assemble deck: %d pages but %d results", len(outline.Pages), len(pageResults))
	}

	deck := &models.SlideDeck{
		Title:    outline.Title,
		Subtitle: outline.Subtitle,
		Colors:   outline.Colors,
		Design:   designSpec,
		Slides:   make([]models.DeckSlide, len(outline.Pages)),
	}
	if designSpec != nil {
		deck.Colors = designSpec.MergedColors(outline.Colors)
	}

	for i := range outline.Pages {
		page := &outline.Pages[i]
		result := &pageResults[i]
		deck.Slides[i] = models.DeckSlide{
			SlideNumber: page.SlideNumber,
			PageType:    page.PageType,
			Title:       page.Title,
			HTMLContent: result.HTMLContent,
			SpeechNotes: result.SpeechNotes,
		}
	}
	return deck, nil
}

// DeckStats summarizes page outcomes for a completed run.
func DeckStats(pageResults []models.PageResult, embeddedImages int) models.GenerationStats {
	stats := models.GenerationStats{
		TotalPages:     len(pageResults),
		EmbeddedImages: embeddedImages,
	}
	for _, result := range pageResults {
		if result.Placeholder {
			stats.FailedPages++
		} else {
			stats.SucceededPages++
		}
	}
	return stats
}
