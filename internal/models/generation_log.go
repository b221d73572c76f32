package models

import (
	"time"
)

// Generation phases in pipeline order.
const (
	PhaseOutline  = "outline"
	PhaseImages   = "images"
	PhaseDesign   = "design"
	PhasePages    = "pages"
	PhaseAssemble = "assemble"
	PhaseRender   = "render"
)

// GenerationLog is one per-phase progress row for a deck run. Rows are
// written as phases start and finish, and streamed out over SSE and RabbitMQ.
type GenerationLog struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID string `json:"project_id" gorm:"not null;index;type:uuid"`

	Phase   string `json:"phase" gorm:"type:varchar(50);not null;index" example:"pages"`
	Status  string `json:"status" gorm:"type:varchar(50);not null" example:"completed"` // "started", "completed", "failed"
	Message string `json:"message" gorm:"type:text"`
	Details JSON   `json:"details,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the GenerationLog model
func (GenerationLog) TableName() string {
	return "generation_logs"
}

// DeckEvent is the message broadcast to SSE clients and published to the
// deck_events queue whenever a phase transition happens.
type DeckEvent struct {
	ProjectID string `json:"project_id"`
	Phase     string `json:"phase"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Current   int    `json:"current,omitempty"`
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}
