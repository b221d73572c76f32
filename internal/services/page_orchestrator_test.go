package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/slidesmith/slidesmith-backend/internal/services/layout"
	"github.com/slidesmith/slidesmith-backend/internal/services/llm"
)

// fakeLLM is a scriptable llm.Client shared by the service tests.
type fakeLLM struct {
	mu            sync.Mutex
	completeCalls int
	completeFn    func(call int, prompt string) (string, error)
	structuredFn  func(systemPrompt, userPrompt string, out interface{}) error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.completeCalls++
	call := f.completeCalls
	f.mu.Unlock()
	return f.completeFn(call, prompt)
}

func (f *fakeLLM) StructuredComplete(ctx context.Context, systemPrompt, userPrompt string, out interface{}) error {
	return f.structuredFn(systemPrompt, userPrompt, out)
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeCalls
}

func newTestOrchestrator(client llm.Client) *PageOrchestrator {
	o := NewPageOrchestrator(client, layout.NewSelector(layout.NewUsageStore()))
	o.jitterFn = func() time.Duration { return 0 }
	o.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	o.retryPolicy.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return o
}

func makeOutline(pageCount int) *models.Outline {
	outline := &models.Outline{
		Title:  "Renewable Energy Trends",
		Colors: models.ColorScheme{Primary: "#1a73e8", Background: "#ffffff", Text: "#202124"},
	}
	for i := 1; i <= pageCount; i++ {
		pageType := models.PageTypeContent
		if i == 1 {
			pageType = models.PageTypeTitle
		} else if i == pageCount {
			pageType = models.PageTypeConclusion
		}
		outline.Pages = append(outline.Pages, models.SlidePage{
			SlideNumber: i,
			PageType:    pageType,
			Title:       fmt.Sprintf("Slide %d", i),
			KeyPoints:   []string{"point one", "point two"},
		})
	}
	return outline
}

func TestGeneratePagesPreservesOrderAndLength(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			return "<div>slide body</div>", nil
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(5), nil, "business", "")
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, result := range results {
		assert.Equal(t, i+1, result.SlideNumber)
		assert.Equal(t, "<div>slide body</div>", result.HTMLContent)
		assert.False(t, result.Placeholder)
	}
}

func TestGeneratePagesSucceedsOnThirdAttempt(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			if call < 3 {
				return "", &llm.RateLimitError{Err: errors.New("429 too many requests")}
			}
			return "<div>finally</div>", nil
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(1), nil, "business", "")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "<div>finally</div>", results[0].HTMLContent)
	assert.False(t, results[0].Placeholder)
	assert.Equal(t, 3, client.calls())
}

func TestGeneratePagesPlaceholderOnPersistentRateLimit(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			return "", &llm.RateLimitError{Err: errors.New("429 too many requests")}
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(1), nil, "business", "")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, results[0].Placeholder)
	assert.Equal(t, 1, results[0].SlideNumber)
	assert.Contains(t, results[0].HTMLContent, "<div")
	assert.Equal(t, 3, client.calls())
}

func TestGeneratePagesNonRetryableFailsFast(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			return "", errors.New("model returned no choices")
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(1), nil, "business", "")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, results[0].Placeholder)
	assert.Equal(t, 1, client.calls())
}

func TestGeneratePagesEmptyOutline(t *testing.T) {
	o := newTestOrchestrator(&fakeLLM{})

	_, err := o.GeneratePages(context.Background(), "deck-1", &models.Outline{}, nil, "business", "")
	assert.Error(t, err)

	_, err = o.GeneratePages(context.Background(), "deck-1", nil, nil, "business", "")
	assert.Error(t, err)
}

func TestGeneratePagesSpeechNotes(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			if strings.HasPrefix(prompt, "Write speaker notes") {
				return "  Good morning everyone.  ", nil
			}
			return "<div>slide</div>", nil
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(2), nil, "business", "conference keynote")
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, result := range results {
		assert.Equal(t, "Good morning everyone.", result.SpeechNotes)
	}
	assert.Equal(t, 4, client.calls())
}

func TestGeneratePagesSpeechNotesFailureKeepsPage(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			if strings.HasPrefix(prompt, "Write speaker notes") {
				return "", errors.New("upstream hiccup")
			}
			return "<div>slide</div>", nil
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(1), nil, "business", "lecture")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Placeholder)
	assert.Equal(t, "<div>slide</div>", results[0].HTMLContent)
	assert.Empty(t, results[0].SpeechNotes)
}

func TestGeneratePagesConcurrencyCap(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return "<div>slide</div>", nil
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(8), nil, "business", "")
	require.NoError(t, err)
	require.Len(t, results, 8)

	assert.LessOrEqual(t, peak, pageConcurrency)
	assert.Greater(t, peak, 0)
}

func TestGeneratePagesMixedFailures(t *testing.T) {
	client := &fakeLLM{
		completeFn: func(call int, prompt string) (string, error) {
			if strings.Contains(prompt, "Slide 2 of") {
				return "", errors.New("bad request")
			}
			return "<div>ok</div>", nil
		},
	}
	o := newTestOrchestrator(client)

	results, err := o.GeneratePages(context.Background(), "deck-1", makeOutline(3), nil, "business", "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.False(t, results[0].Placeholder)
	assert.True(t, results[1].Placeholder)
	assert.False(t, results[2].Placeholder)
	for i, result := range results {
		assert.Equal(t, i+1, result.SlideNumber)
	}
}

func TestCleanModelHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "preamble and fences",
			in:   "Sure, here's the HTML:\n```html\n<div>slide</div>\n```",
			want: "<div>slide</div>",
		},
		{
			name: "plain html untouched",
			in:   "<div>slide</div>",
			want: "<div>slide</div>",
		},
		{
			name: "bare fences",
			in:   "```\n<section>body</section>\n```",
			want: "<section>body</section>",
		},
		{
			name: "doctype preserved",
			in:   "Here you go:\n<!DOCTYPE html><html></html>",
			want: "<!DOCTYPE html><html></html>",
		},
		{
			name: "whitespace trimmed",
			in:   "\n\n  <div>x</div>  \n",
			want: "<div>x</div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanModelHTML(tt.in))
		})
	}
}
