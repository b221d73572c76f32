package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/slidesmith/slidesmith-backend/internal/services/layout"
	"github.com/slidesmith/slidesmith-backend/internal/services/llm"
	"github.com/slidesmith/slidesmith-backend/internal/utils"
)

// pageConcurrency caps simultaneously in-flight page generation calls.
const pageConcurrency = 3

// placeholderHTML is substituted for a page whose generation failed.
const placeholderHTML = `<div class="flex items-center justify-center h-full"><p class="text-2xl">Content unavailable</p></div>`

var firstTagPattern = regexp.MustCompile(`<[a-zA-Z!]`)

// PageOrchestrator drives bounded-concurrency, retried, jittered generation
// of per-slide HTML. Output is one PageResult per outline page, in outline
// order, regardless of completion order or individual failures.
type PageOrchestrator struct {
	llmClient      llm.Client
	layoutSelector *layout.Selector

	// jitterFn and sleep are swappable in tests.
	jitterFn    func() time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	retryPolicy utils.RetryPolicy
}

func NewPageOrchestrator(llmClient llm.Client, layoutSelector *layout.Selector) *PageOrchestrator {
	return &PageOrchestrator{
		llmClient:      llmClient,
		layoutSelector: layoutSelector,
		// Uniform [0.5s, 2.0s) pre-call delay to smooth burst load upstream.
		jitterFn: func() time.Duration {
			return time.Duration((0.5 + 1.5*rand.Float64()) * float64(time.Second))
		},
		retryPolicy: utils.RetryPolicy{
			MaxAttempts: 3,
			Backoff:     utils.RateLimitBackoff,
			IsRetryable: llm.IsRateLimit,
		},
	}
}

// GeneratePages generates HTML for every outline page. Individual failures
// become placeholder results; the only error case is an empty outline.
func (o *PageOrchestrator) GeneratePages(ctx context.Context, deckID string, outline *models.Outline, designSpec *models.DesignSpec, style, speechScene string) ([]models.PageResult, error) {
	if outline == nil || len(outline.Pages) == 0 {
		return nil, fmt.Errorf("cannot generate pages: outline has no pages")
	}

	colors := designSpec.MergedColors(outline.Colors)
	total := len(outline.Pages)
	logrus.Infof("Generating %d pages for deck %s", total, deckID)

	// Index-addressed so input order survives any completion order.
	results := make([]models.PageResult, total)
	sem := make(chan struct{}, pageConcurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for i := range outline.Pages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			page := &outline.Pages[i]

			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := o.generateOne(ctx, deckID, page, outline, colors, style, speechScene, total)
			if err != nil {
				logrus.Errorf("Page %d generation failed: %v", page.SlideNumber, err)
				mu.Lock()
				failed++
				mu.Unlock()
				results[i] = models.PageResult{
					SlideNumber: page.SlideNumber,
					HTMLContent: placeholderHTML,
					Placeholder: true,
				}
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()

	logrus.Infof("Page generation for deck %s completed: %d succeeded, %d failed", deckID, total-failed, failed)
	return results, nil
}

// ResetLayoutUsage discards the per-deck layout tracking once a run is done.
func (o *PageOrchestrator) ResetLayoutUsage(deckID string) {
	o.layoutSelector.ResetUsage(deckID)
}

// generateOne runs the jitter + retry loop for a single page.
func (o *PageOrchestrator) generateOne(ctx context.Context, deckID string, page *models.SlidePage, outline *models.Outline, colors models.ColorScheme, style, speechScene string, total int) (models.PageResult, error) {
	if err := o.wait(ctx, o.jitterFn()); err != nil {
		return models.PageResult{}, err
	}

	tpl := o.layoutSelector.Select(deckID, page.PageType, page.HasChart, page.HasImage)
	prompt := o.buildPagePrompt(page, outline, tpl, colors, style, total)

	operation := fmt.Sprintf("page %d generation", page.SlideNumber)
	raw, err := utils.WithRetry(ctx, o.retryPolicy, operation, func() (string, error) {
		return o.llmClient.Complete(ctx, prompt)
	})
	if err != nil {
		return models.PageResult{}, err
	}

	result := models.PageResult{
		SlideNumber: page.SlideNumber,
		HTMLContent: CleanModelHTML(raw),
	}

	if speechScene != "" {
		notes, err := o.generateSpeechNotes(ctx, page, outline, speechScene, result.HTMLContent, total)
		if err != nil {
			logrus.Warnf("Speech notes for page %d failed: %v", page.SlideNumber, err)
		} else {
			result.SpeechNotes = notes
		}
	}

	return result, nil
}

func (o *PageOrchestrator) buildPagePrompt(page *models.SlidePage, outline *models.Outline, tpl *layout.Template, colors models.ColorScheme, style string, total int) string {
	pageJSON, _ := json.Marshal(page)
	colorsJSON, _ := json.Marshal(colors)

	var b strings.Builder
	b.WriteString("Generate the complete HTML fragment for one presentation slide.\n")
	b.WriteString("Return only HTML, no commentary, no markdown fences.\n\n")
	fmt.Fprintf(&b, "Deck title: %s\nStyle: %s\nColors: %s\nSlide %d of %d\n\n",
		outline.Title, style, colorsJSON, page.SlideNumber, total)
	fmt.Fprintf(&b, "Slide spec:\n%s\n\n", pageJSON)
	fmt.Fprintf(&b, "Layout: %s\n%s\nStructure:\n%s\n", tpl.Name, tpl.Description, tpl.StructureHint)
	return b.String()
}

func (o *PageOrchestrator) generateSpeechNotes(ctx context.Context, page *models.SlidePage, outline *models.Outline, speechScene, htmlContent string, total int) (string, error) {
	excerpt := htmlContent
	if len(excerpt) > 500 {
		excerpt = excerpt[:500]
	}

	prompt := fmt.Sprintf(
		"Write speaker notes for slide %d of %d in the deck %q.\n"+
			"Scene: %s\nSlide type: %s\nSlide title: %s\nKey points: %s\n"+
			"Slide HTML excerpt:\n%s\n\n"+
			"Write 150-300 words of natural spoken narration for this slide only.",
		page.SlideNumber, total, outline.Title,
		speechScene, page.PageType, page.Title, strings.Join(page.KeyPoints, "; "),
		excerpt,
	)

	notes, err := o.llmClient.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(notes), nil
}

func (o *PageOrchestrator) wait(ctx context.Context, d time.Duration) error {
	if o.sleep != nil {
		return o.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// CleanModelHTML strips the commentary models interleave with markup: any
// preamble before the first HTML tag, markdown code fence markers, and any
// preamble left over after fence removal.
func CleanModelHTML(raw string) string {
	html := strings.TrimSpace(raw)

	if loc := firstTagPattern.FindStringIndex(html); loc != nil {
		html = html[loc[0]:]
	}

	if strings.HasPrefix(html, "```html") {
		html = html[7:]
	} else if strings.HasPrefix(html, "```") {
		html = html[3:]
	}
	if strings.HasSuffix(html, "```") {
		html = html[:len(html)-3]
	}

	html = strings.TrimSpace(html)
	if loc := firstTagPattern.FindStringIndex(html); loc != nil && loc[0] > 0 {
		html = html[loc[0]:]
	}
	return strings.TrimSpace(html)
}
