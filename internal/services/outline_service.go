package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/slidesmith/slidesmith-backend/internal/services/llm"
)

// ErrEmptyOutline is returned when the model output yields no usable pages.
var ErrEmptyOutline = errors.New("outline contains no valid pages")

type OutlineService struct {
	llmClient llm.Client
}

func NewOutlineService(llmClient llm.Client) *OutlineService {
	return &OutlineService{
		llmClient: llmClient,
	}
}

// rawOutline defers page decoding so stringified or malformed pages can be
// handled leniently without failing the whole outline.
type rawOutline struct {
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle"`
	Colors   models.ColorScheme `json:"colors"`
	Pages    json.RawMessage    `json:"pages"`
}

// Generate produces a structured deck outline with one LLM call.
func (s *OutlineService) Generate(ctx context.Context, topic, style string, slideCount int, referenceMaterial string) (*models.Outline, error) {
	if slideCount <= 0 {
		slideCount = 10
	}
	if style == "" {
		style = "business"
	}

	logrus.Infof("Generating outline for topic %q (style=%s, slides=%d)", topic, style, slideCount)

	systemPrompt := "You are a presentation outline writer. Respond with a single JSON object " +
		"with fields: title, subtitle, colors {primary, accent, background, text, secondary}, " +
		"and pages, an array of {slide_number, page_type, title, key_points, has_chart, " +
		"chart_config, has_image, image_config}. page_type is one of title, content, section, " +
		"conclusion. slide_number starts at 1 and increments by one. image_config, when " +
		"has_image is true, is {type, query} with an English search query."

	userPrompt := fmt.Sprintf("Topic: %s\nStyle: %s\nTarget slide count: %d\n", topic, style, slideCount)
	if referenceMaterial != "" {
		userPrompt += fmt.Sprintf("\nReference material:\n%s\n", referenceMaterial)
	}

	var raw rawOutline
	if err := s.llmClient.StructuredComplete(ctx, systemPrompt, userPrompt, &raw); err != nil {
		return nil, fmt.Errorf("outline generation failed: %w", err)
	}

	pages, err := decodePages(raw.Pages)
	if err != nil {
		return nil, fmt.Errorf("outline generation failed: %w", err)
	}
	if len(pages) == 0 {
		return nil, ErrEmptyOutline
	}

	outline := &models.Outline{
		Title:    raw.Title,
		Subtitle: raw.Subtitle,
		Colors:   raw.Colors,
		Pages:    pages,
	}
	if outline.Title == "" {
		outline.Title = topic
	}

	logrus.Infof("Outline generated: %q with %d pages", outline.Title, len(outline.Pages))
	return outline, nil
}

// decodePages decodes the pages field, accepting both a native JSON array and
// the JSON-stringified array some models emit, possibly wrapped in code
// fences. Pages that fail to parse are dropped rather than failing the
// outline; the survivors are renumbered into a contiguous 1..N sequence.
func decodePages(raw json.RawMessage) ([]models.SlidePage, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	data := []byte(raw)

	// Stringified list quirk: unquote, strip fences, then decode normally.
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		cleaned := llm.StripCodeFences(asString)
		if strings.HasPrefix(strings.ToLower(cleaned), "json") {
			cleaned = strings.TrimSpace(cleaned[4:])
		}
		data = []byte(cleaned)
	}

	var rawPages []json.RawMessage
	if err := json.Unmarshal(data, &rawPages); err != nil {
		return nil, fmt.Errorf("pages field is not a list: %w", err)
	}

	pages := make([]models.SlidePage, 0, len(rawPages))
	for i, rawPage := range rawPages {
		var page models.SlidePage
		if err := json.Unmarshal(rawPage, &page); err != nil {
			logrus.Warnf("Dropping unparseable page at index %d: %v", i, err)
			continue
		}
		page.PageType = models.NormalizePageType(string(page.PageType))
		pages = append(pages, page)
	}

	// Renumber so dropped pages do not leave holes.
	for i := range pages {
		pages[i].SlideNumber = i + 1
	}
	return pages, nil
}
