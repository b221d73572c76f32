package models

import (
	"encoding/json"
	"fmt"
)

// PageType classifies a slide within a deck. The set is closed; anything a
// model invents outside of it is normalized to PageTypeContent during parsing.
type PageType string

const (
	PageTypeTitle      PageType = "title"
	PageTypeContent    PageType = "content"
	PageTypeSection    PageType = "section"
	PageTypeConclusion PageType = "conclusion"
)

// Valid reports whether t is one of the known page types.
func (t PageType) Valid() bool {
	switch t {
	case PageTypeTitle, PageTypeContent, PageTypeSection, PageTypeConclusion:
		return true
	}
	return false
}

// NormalizePageType maps unknown or empty page type tags to content.
func NormalizePageType(raw string) PageType {
	t := PageType(raw)
	if t.Valid() {
		return t
	}
	return PageTypeContent
}

// ColorScheme is the deck-level palette proposed by the outline step.
type ColorScheme struct {
	Primary    string `json:"primary" example:"#1e3a8a"`
	Accent     string `json:"accent" example:"#60a5fa"`
	Background string `json:"background" example:"#ffffff"`
	Text       string `json:"text" example:"#1f2937"`
	Secondary  string `json:"secondary" example:"#6b7280"`
}

// ImageRequest is one search intent attached to a slide.
type ImageRequest struct {
	Type  string `json:"type" example:"photo"`
	Query string `json:"query" example:"renewable energy wind farm"`
}

// ImageResult records the outcome of a single image search. One result is
// produced per ImageRequest, in the same order, and never mutated afterwards.
type ImageResult struct {
	Success      bool   `json:"success"`
	URL          string `json:"url,omitempty"`
	Alt          string `json:"alt,omitempty"`
	Source       string `json:"source,omitempty"`
	Photographer string `json:"photographer,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Color        string `json:"color,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SlidePage is the outline spec for one slide. After OutlineService returns,
// only ImageData is mutated (by ImageEmbedService); everything else is fixed.
type SlidePage struct {
	SlideNumber int                    `json:"slide_number"`
	PageType    PageType               `json:"page_type"`
	Title       string                 `json:"title"`
	KeyPoints   []string               `json:"key_points"`
	Description string                 `json:"description,omitempty"`
	HasChart    bool                   `json:"has_chart"`
	ChartConfig map[string]interface{} `json:"chart_config,omitempty"`
	HasImage    bool                   `json:"has_image"`
	ImageConfig json.RawMessage        `json:"image_config,omitempty"`
	ImageData   []ImageResult          `json:"image_data,omitempty"`
}

// ImageRequests normalizes image_config to a list. Models emit either a
// single object or an array; both shapes are accepted.
func (p *SlidePage) ImageRequests() ([]ImageRequest, error) {
	if len(p.ImageConfig) == 0 {
		return nil, nil
	}
	var list []ImageRequest
	if err := json.Unmarshal(p.ImageConfig, &list); err == nil {
		return list, nil
	}
	var single ImageRequest
	if err := json.Unmarshal(p.ImageConfig, &single); err != nil {
		return nil, fmt.Errorf("invalid image_config on slide %d: %w", p.SlideNumber, err)
	}
	return []ImageRequest{single}, nil
}

// Outline is the structured skeleton of a deck.
type Outline struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
	Colors   ColorScheme `json:"colors"`
	Pages    []SlidePage `json:"pages"`
}

// Validate checks the outline invariants: non-empty pages with slide numbers
// forming a contiguous 1..N sequence in list order.
func (o *Outline) Validate() error {
	if len(o.Pages) == 0 {
		return fmt.Errorf("outline has no pages")
	}
	for i, page := range o.Pages {
		if page.SlideNumber != i+1 {
			return fmt.Errorf("slide at index %d has slide_number %d, want %d", i, page.SlideNumber, i+1)
		}
	}
	return nil
}
