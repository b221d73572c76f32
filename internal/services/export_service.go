package services

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// ExportService packages a completed deck into a downloadable ZIP archive:
// deck.json plus one HTML file per slide and one notes file per slide that
// has speaker notes.
type ExportService struct {
	baseURL    string
	storageDir string
	jwtSecret  []byte
}

// DownloadClaims represents JWT claims for an export download token
type DownloadClaims struct {
	ProjectID string `json:"project_id"`
	jwt.RegisteredClaims
}

func NewExportService(baseURL string) *ExportService {
	storageDir := os.Getenv("EXPORT_STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./storage/exports"
	}

	if err := os.MkdirAll(storageDir, 0755); err != nil {
		logrus.Warnf("Failed to create export directory %s: %v", storageDir, err)
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		jwtSecret = []byte("default-secret-key-change-in-production")
		logrus.Warn("JWT_SECRET not set, using default secret for download tokens")
	}

	return &ExportService{
		baseURL:    baseURL,
		storageDir: storageDir,
		jwtSecret:  jwtSecret,
	}
}

// ExportDeck writes the ZIP archive for a project and returns its path.
// Re-exporting overwrites the previous archive.
func (s *ExportService) ExportDeck(projectID string, deck *models.SlideDeck) (string, error) {
	if deck == nil || len(deck.Slides) == 0 {
		return "", fmt.Errorf("cannot export empty deck")
	}

	archivePath := filepath.Join(s.storageDir, projectID+".zip")
	tmpPath := archivePath + "." + uuid.New().String() + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	if err := s.writeArchive(f, deck); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}

	logrus.Infof("Deck for project %s exported to %s (%d slides)", projectID, archivePath, len(deck.Slides))
	return archivePath, nil
}

func (s *ExportService) writeArchive(f *os.File, deck *models.SlideDeck) error {
	w := zip.NewWriter(f)

	deckJSON, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}
	entry, err := w.Create("deck.json")
	if err != nil {
		return fmt.Errorf("failed to create deck.json entry: %w", err)
	}
	if _, err := entry.Write(deckJSON); err != nil {
		return fmt.Errorf("failed to write deck.json: %w", err)
	}

	for _, slide := range deck.Slides {
		entry, err := w.Create(fmt.Sprintf("slides/%02d.html", slide.SlideNumber))
		if err != nil {
			return fmt.Errorf("failed to create slide entry: %w", err)
		}
		if _, err := entry.Write([]byte(slide.HTMLContent)); err != nil {
			return fmt.Errorf("failed to write slide %d: %w", slide.SlideNumber, err)
		}

		if slide.SpeechNotes != "" {
			entry, err := w.Create(fmt.Sprintf("notes/%02d.txt", slide.SlideNumber))
			if err != nil {
				return fmt.Errorf("failed to create notes entry: %w", err)
			}
			if _, err := entry.Write([]byte(slide.SpeechNotes)); err != nil {
				return fmt.Errorf("failed to write notes %d: %w", slide.SlideNumber, err)
			}
		}
	}

	return w.Close()
}

// OpenArchive opens a previously exported archive for streaming to a client
func (s *ExportService) OpenArchive(projectID string) (*os.File, error) {
	archivePath := filepath.Join(s.storageDir, projectID+".zip")
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("export not found for project %s: %w", projectID, err)
	}
	return f, nil
}

// HasArchive reports whether an export already exists for the project
func (s *ExportService) HasArchive(projectID string) bool {
	_, err := os.Stat(filepath.Join(s.storageDir, projectID+".zip"))
	return err == nil
}

// GenerateSignedDownloadURL generates a signed download URL for an export.
// Token expires in 1 hour.
func (s *ExportService) GenerateSignedDownloadURL(projectID string) (string, error) {
	claims := &DownloadClaims{
		ProjectID: projectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "slidesmith-backend",
			Subject:   projectID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	downloadURL := fmt.Sprintf("%s/api/v1/projects/%s/download?token=%s",
		strings.TrimSuffix(s.baseURL, "/"), projectID, tokenString)
	return downloadURL, nil
}

// ValidateDownloadToken validates a download token and returns the project ID
func (s *ExportService) ValidateDownloadToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DownloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*DownloadClaims); ok && token.Valid {
		return claims.ProjectID, nil
	}

	return "", fmt.Errorf("invalid token claims")
}
