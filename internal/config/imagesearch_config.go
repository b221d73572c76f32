package config

import (
	"os"
)

// ImageSearchConfig contains stock photo API configuration
type ImageSearchConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
}

// GetImageSearchConfig returns image search configuration from environment
func GetImageSearchConfig() *ImageSearchConfig {
	baseURL := os.Getenv("PEXELS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.pexels.com/v1"
	}

	return &ImageSearchConfig{
		BaseURL: baseURL,
		APIKey:  os.Getenv("PEXELS_API_KEY"),
	}
}
