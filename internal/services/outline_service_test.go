package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

func outlineClient(t *testing.T, payload string) *fakeLLM {
	t.Helper()
	return &fakeLLM{
		structuredFn: func(systemPrompt, userPrompt string, out interface{}) error {
			return json.Unmarshal([]byte(payload), out)
		},
	}
}

func TestOutlineGenerate(t *testing.T) {
	payload := `{
		"title": "Solar Power at Scale",
		"subtitle": "Grid economics in 2030",
		"colors": {"primary": "#1a73e8", "background": "#ffffff", "text": "#202124"},
		"pages": [
			{"slide_number": 1, "page_type": "title", "title": "Solar Power at Scale"},
			{"slide_number": 2, "page_type": "content", "title": "Cost Curves", "key_points": ["LCOE", "storage"], "has_chart": true},
			{"slide_number": 3, "page_type": "conclusion", "title": "Takeaways"}
		]
	}`
	svc := NewOutlineService(outlineClient(t, payload))

	outline, err := svc.Generate(context.Background(), "solar power", "business", 3, "")
	require.NoError(t, err)

	assert.Equal(t, "Solar Power at Scale", outline.Title)
	assert.Equal(t, "#1a73e8", outline.Colors.Primary)
	require.Len(t, outline.Pages, 3)
	assert.Equal(t, models.PageTypeTitle, outline.Pages[0].PageType)
	assert.True(t, outline.Pages[1].HasChart)
	require.NoError(t, outline.Validate())
}

func TestOutlineGenerateStringifiedPages(t *testing.T) {
	pages := "```json\njson [{\"slide_number\": 1, \"page_type\": \"title\", \"title\": \"Intro\"}]\n```"
	encoded, err := json.Marshal(pages)
	require.NoError(t, err)

	payload := `{"title": "Deck", "pages": ` + string(encoded) + `}`
	svc := NewOutlineService(outlineClient(t, payload))

	outline, err := svc.Generate(context.Background(), "topic", "", 0, "")
	require.NoError(t, err)
	require.Len(t, outline.Pages, 1)
	assert.Equal(t, "Intro", outline.Pages[0].Title)
}

func TestOutlineGenerateDropsBadPagesAndRenumbers(t *testing.T) {
	payload := `{
		"title": "Deck",
		"pages": [
			{"slide_number": 1, "page_type": "title", "title": "One"},
			{"slide_number": "oops", "page_type": "content", "title": "Broken"},
			{"slide_number": 7, "page_type": "mystery", "title": "Three"}
		]
	}`
	svc := NewOutlineService(outlineClient(t, payload))

	outline, err := svc.Generate(context.Background(), "topic", "", 0, "")
	require.NoError(t, err)
	require.Len(t, outline.Pages, 2)

	assert.Equal(t, 1, outline.Pages[0].SlideNumber)
	assert.Equal(t, 2, outline.Pages[1].SlideNumber)
	assert.Equal(t, models.PageTypeContent, outline.Pages[1].PageType)
	require.NoError(t, outline.Validate())
}

func TestOutlineGenerateEmptyPages(t *testing.T) {
	svc := NewOutlineService(outlineClient(t, `{"title": "Deck", "pages": []}`))

	_, err := svc.Generate(context.Background(), "topic", "", 0, "")
	assert.ErrorIs(t, err, ErrEmptyOutline)
}

func TestOutlineGenerateTitleFallback(t *testing.T) {
	payload := `{"pages": [{"slide_number": 1, "page_type": "title", "title": "Intro"}]}`
	svc := NewOutlineService(outlineClient(t, payload))

	outline, err := svc.Generate(context.Background(), "quantum computing", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "quantum computing", outline.Title)
}

func TestOutlineGenerateClientError(t *testing.T) {
	client := &fakeLLM{
		structuredFn: func(systemPrompt, userPrompt string, out interface{}) error {
			return errors.New("connection reset")
		},
	}
	svc := NewOutlineService(client)

	_, err := svc.Generate(context.Background(), "topic", "", 0, "")
	assert.ErrorContains(t, err, "outline generation failed")
}
