package config

import (
	"os"
)

// RendererConfig contains the external deck renderer configuration
type RendererConfig struct {
	BaseURL string `json:"base_url"`
	Enabled bool   `json:"enabled"`
}

// GetRendererConfig returns renderer configuration from environment.
// The renderer is optional; with no URL configured decks are stored
// as JSON only.
func GetRendererConfig() *RendererConfig {
	baseURL := os.Getenv("RENDERER_URL")
	return &RendererConfig{
		BaseURL: baseURL,
		Enabled: baseURL != "",
	}
}
