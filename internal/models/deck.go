package models

// PageResult is the generated content for one slide. Exactly one result is
// produced per SlidePage, in outline order. A failed page still yields a
// result (a placeholder) so downstream assembly always sees a complete list.
type PageResult struct {
	SlideNumber int    `json:"slide_number"`
	HTMLContent string `json:"html_content"`
	SpeechNotes string `json:"speech_notes,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// DeckSlide is one assembled slide handed to the renderer.
type DeckSlide struct {
	SlideNumber int      `json:"slide_number"`
	PageType    PageType `json:"page_type"`
	Title       string   `json:"title"`
	HTMLContent string   `json:"html_content"`
	SpeechNotes string   `json:"speech_notes,omitempty"`
}

// SlideDeck is the final assembled deck.
type SlideDeck struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
	Colors   ColorScheme `json:"colors"`
	Design   *DesignSpec `json:"design,omitempty"`
	Slides   []DeckSlide `json:"slides"`
}

// GenerationStats counts page outcomes for one deck run. Informational only:
// a failed page becomes a placeholder slide, never a pipeline failure.
type GenerationStats struct {
	TotalPages     int `json:"total_pages"`
	SucceededPages int `json:"succeeded_pages"`
	FailedPages    int `json:"failed_pages"`
	EmbeddedImages int `json:"embedded_images"`
}

// GenerateOutlineRequest is the request body for outline-only generation.
type GenerateOutlineRequest struct {
	Topic             string `json:"topic" binding:"required" example:"The future of renewable energy"`
	Style             string `json:"style" example:"business"`
	Slides            int    `json:"slides" example:"10"`
	ReferenceMaterial string `json:"reference_material,omitempty"`
}

// GenerateDeckRequest is the request body for full deck generation.
type GenerateDeckRequest struct {
	Topic             string `json:"topic" binding:"required" example:"The future of renewable energy"`
	Style             string `json:"style" example:"business"`
	Slides            int    `json:"slides" example:"10"`
	SpeechNotes       bool   `json:"speech_notes" example:"false"`
	ReferenceMaterial string `json:"reference_material,omitempty"`
	Render            bool   `json:"render" example:"true"`
}

// GenerateDeckResponse is returned once a full pipeline run completes.
type GenerateDeckResponse struct {
	ProjectID string          `json:"project_id"`
	Status    string          `json:"status"`
	Deck      *SlideDeck      `json:"deck,omitempty"`
	Stats     GenerationStats `json:"stats"`
	OutputDir string          `json:"output_dir,omitempty"`
}
