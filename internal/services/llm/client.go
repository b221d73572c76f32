package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/config"
	"github.com/slidesmith/slidesmith-backend/internal/utils"
)

// RateLimitError marks an upstream rate-limit rejection so callers can retry
// without sniffing message strings.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimit reports whether err is a structured RateLimitError, falling
// back to message matching for errors from collaborators that do not tag.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	return utils.IsRateLimitMessage(err)
}

// Client is the language-model collaborator boundary.
type Client interface {
	// StructuredComplete requests a JSON response and decodes it into out.
	StructuredComplete(ctx context.Context, systemPrompt, userPrompt string, out interface{}) error
	// Complete requests a plain text response.
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient talks to any OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client from the LLM configuration.
func NewOpenAIClient(cfg *config.LLMConfig) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// StructuredComplete issues one chat completion with JSON response format and
// decodes the content into out. Code fences around the JSON are tolerated.
func (c *OpenAIClient) StructuredComplete(ctx context.Context, systemPrompt, userPrompt string, out interface{}) error {
	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return mapError(err)
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("model returned no choices")
	}

	content := StripCodeFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to decode structured response: %w", err)
	}
	return nil
}

// Complete issues one plain chat completion and returns the raw content.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// mapError tags rate-limit rejections with RateLimitError.
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		logrus.Warnf("LLM API rate limited: %v", apiErr)
		return &RateLimitError{Err: err}
	}
	if utils.IsRateLimitMessage(err) {
		return &RateLimitError{Err: err}
	}
	return err
}

// StripCodeFences removes markdown code fence markers around a payload.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[7:]
	} else if strings.HasPrefix(s, "```html") {
		s = s[7:]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}
