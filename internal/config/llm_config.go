package config

import (
	"os"
)

// LLMConfig contains language model API configuration
type LLMConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// GetLLMConfig returns language model configuration from environment
func GetLLMConfig() *LLMConfig {
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &LLMConfig{
		BaseURL: os.Getenv("LLM_BASE_URL"),
		APIKey:  os.Getenv("LLM_API_KEY"),
		Model:   model,
	}
}
