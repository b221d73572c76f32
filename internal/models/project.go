package models

import (
	"time"
)

// Project status values.
const (
	ProjectStatusPending   = "pending"
	ProjectStatusRunning   = "running"
	ProjectStatusCompleted = "completed"
	ProjectStatusFailed    = "failed"
)

// Project is one deck generation run and its stored artifacts.
type Project struct {
	ID    string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Topic string `json:"topic" gorm:"type:varchar(512);not null" example:"The future of renewable energy"`
	Style string `json:"style" gorm:"type:varchar(50);default:'business'" example:"business"`

	Status string `json:"status" gorm:"type:varchar(50);default:'pending';index" example:"completed"`
	Error  string `json:"error,omitempty" gorm:"type:text"`

	SlideCount     int `json:"slide_count" gorm:"default:0"`
	FailedPages    int `json:"failed_pages" gorm:"default:0"`
	EmbeddedImages int `json:"embedded_images" gorm:"default:0"`

	OutlineJSON JSON `json:"outline,omitempty" gorm:"type:jsonb"`
	DeckJSON    JSON `json:"deck,omitempty" gorm:"type:jsonb"`

	OutputDir string `json:"output_dir,omitempty" gorm:"type:varchar(512)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// ProjectResponse represents the response for project listing and status
type ProjectResponse struct {
	ID             string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Topic          string `json:"topic" example:"The future of renewable energy"`
	Style          string `json:"style" example:"business"`
	Status         string `json:"status" example:"completed"`
	Error          string `json:"error,omitempty"`
	SlideCount     int    `json:"slide_count" example:"10"`
	FailedPages    int    `json:"failed_pages" example:"0"`
	EmbeddedImages int    `json:"embedded_images" example:"4"`
	OutputDir      string `json:"output_dir,omitempty"`
	CreatedAt      string `json:"created_at" example:"2026-08-25T10:00:00Z"`
	UpdatedAt      string `json:"updated_at" example:"2026-08-25T10:05:00Z"`
}
