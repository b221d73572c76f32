package services

import (
	"archive/zip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

func newTestExportService(t *testing.T) *ExportService {
	t.Helper()
	t.Setenv("EXPORT_STORAGE_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	return NewExportService("http://localhost:8080")
}

func sampleDeck() *models.SlideDeck {
	return &models.SlideDeck{
		Title: "Renewable Energy Trends",
		Slides: []models.DeckSlide{
			{SlideNumber: 1, PageType: models.PageTypeTitle, Title: "Intro", HTMLContent: "<div>intro</div>"},
			{SlideNumber: 2, PageType: models.PageTypeContent, Title: "Costs", HTMLContent: "<div>costs</div>", SpeechNotes: "talk about costs"},
		},
	}
}

func TestExportDeck(t *testing.T) {
	svc := newTestExportService(t)

	path, err := svc.ExportDeck("project-1", sampleDeck())
	require.NoError(t, err)
	assert.True(t, svc.HasArchive("project-1"))

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["deck.json"])
	assert.True(t, names["slides/01.html"])
	assert.True(t, names["slides/02.html"])
	assert.True(t, names["notes/02.txt"])
	assert.False(t, names["notes/01.txt"])
}

func TestExportDeckEmpty(t *testing.T) {
	svc := newTestExportService(t)

	_, err := svc.ExportDeck("project-1", &models.SlideDeck{})
	assert.Error(t, err)
	assert.False(t, svc.HasArchive("project-1"))
}

func TestDownloadTokenRoundTrip(t *testing.T) {
	svc := newTestExportService(t)

	url, err := svc.GenerateSignedDownloadURL("project-1")
	require.NoError(t, err)
	assert.Contains(t, url, "/api/v1/projects/project-1/download?token=")

	token := url[len("http://localhost:8080/api/v1/projects/project-1/download?token="):]
	projectID, err := svc.ValidateDownloadToken(token)
	require.NoError(t, err)
	assert.Equal(t, "project-1", projectID)

	_, err = svc.ValidateDownloadToken("not-a-token")
	assert.Error(t, err)
}
