package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

func TestAssembleDeck(t *testing.T) {
	outline := makeOutline(5)
	results := make([]models.PageResult, 5)
	for i := range results {
		results[i] = models.PageResult{
			SlideNumber: i + 1,
			HTMLContent: "<div>slide</div>",
		}
	}
	results[2].Placeholder = true
	results[4].SpeechNotes = "closing remarks"

	deck, err := AssembleDeck(outline, results, nil)
	require.NoError(t, err)

	assert.Equal(t, outline.Title, deck.Title)
	assert.Equal(t, outline.Colors, deck.Colors)
	require.Len(t, deck.Slides, 5)

	for i, slide := range deck.Slides {
		assert.Equal(t, i+1, slide.SlideNumber)
		assert.Equal(t, outline.Pages[i].PageType, slide.PageType)
		assert.Equal(t, outline.Pages[i].Title, slide.Title)
	}
	assert.Equal(t, "closing remarks", deck.Slides[4].SpeechNotes)
}

func TestAssembleDeckDesignColorsOverride(t *testing.T) {
	outline := makeOutline(1)
	design := &models.DesignSpec{
		PrimaryColor:    "#0f172a",
		BackgroundColor: "#f8fafc",
	}

	deck, err := AssembleDeck(outline, []models.PageResult{{SlideNumber: 1}}, design)
	require.NoError(t, err)

	assert.Equal(t, "#0f172a", deck.Colors.Primary)
	assert.Equal(t, "#f8fafc", deck.Colors.Background)
	assert.Equal(t, outline.Colors.Text, deck.Colors.Text)
	assert.Same(t, design, deck.Design)
}

func TestAssembleDeckLengthMismatch(t *testing.T) {
	outline := makeOutline(3)

	_, err := AssembleDeck(outline, make([]models.PageResult, 2), nil)
	assert.Error(t, err)

	_, err = AssembleDeck(nil, nil, nil)
	assert.Error(t, err)
}

func TestGenerateAndAssembleDeck(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			return "<div>slide</div>", nil
		},
	}
	o := newTestOrchestrator(client)
	outline := makeOutline(5)
	design := &models.DesignSpec{PrimaryColor: "#1e3a8a", BackgroundColor: "#ffffff"}

	results, err := o.GeneratePages(context.Background(), "deck-1", outline, design, "business", "")
	require.NoError(t, err)

	deck, err := AssembleDeck(outline, results, design)
	require.NoError(t, err)
	require.Len(t, deck.Slides, 5)

	for i, slide := range deck.Slides {
		assert.Equal(t, i+1, slide.SlideNumber)
		assert.Equal(t, "<div>slide</div>", slide.HTMLContent)
	}
	assert.Equal(t, models.PageTypeTitle, deck.Slides[0].PageType)
	assert.Equal(t, models.PageTypeConclusion, deck.Slides[4].PageType)
	assert.Equal(t, "#1e3a8a", deck.Colors.Primary)
}

func TestDeckStats(t *testing.T) {
	results := []models.PageResult{
		{SlideNumber: 1},
		{SlideNumber: 2, Placeholder: true},
		{SlideNumber: 3},
	}

	stats := DeckStats(results, 4)
	assert.Equal(t, 3, stats.TotalPages)
	assert.Equal(t, 2, stats.SucceededPages)
	assert.Equal(t, 1, stats.FailedPages)
	assert.Equal(t, 4, stats.EmbeddedImages)
}
