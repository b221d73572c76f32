package llm

import (
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"html fence", "```html\n<div>x</div>\n```", "<div>x</div>"},
		{"bare fence", "```\n[1, 2]\n```", "[1, 2]"},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"whitespace only", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestIsRateLimit(t *testing.T) {
	assert.True(t, IsRateLimit(&RateLimitError{Err: errors.New("slow down")}))
	assert.True(t, IsRateLimit(errors.New("upstream said 429")))
	assert.True(t, IsRateLimit(errors.New("Rate Limit exceeded")))
	assert.False(t, IsRateLimit(errors.New("connection refused")))
	assert.False(t, IsRateLimit(nil))
}

func TestMapError(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "quota"}
	mapped := mapError(apiErr)
	var rle *RateLimitError
	assert.ErrorAs(t, mapped, &rle)

	badReq := &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "bad prompt"}
	mapped = mapError(badReq)
	assert.False(t, errors.As(mapped, &rle))
}
