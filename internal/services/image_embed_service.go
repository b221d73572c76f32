package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/slidesmith/slidesmith-backend/internal/services/imagesearch"
)

type ImageEmbedService struct {
	searcher imagesearch.Searcher
}

func NewImageEmbedService(searcher imagesearch.Searcher) *ImageEmbedService {
	return &ImageEmbedService{
		searcher: searcher,
	}
}

// Embed searches images for every page with has_image set and writes the
// results into page.ImageData in place, one order-correlated result per
// request. A failed search becomes a failure-flagged result; it never aborts
// sibling searches or other pages. With no searcher configured the whole
// step is a no-op. Returns the count of successful results, for logging.
func (s *ImageEmbedService) Embed(ctx context.Context, outline *models.Outline) int {
	if !s.searcher.IsAvailable() {
		logrus.Warn("Image searcher not configured, skipping image embedding")
		return 0
	}

	type pageJob struct {
		pageIndex int
		requests  []models.ImageRequest
	}

	var jobs []pageJob
	for i := range outline.Pages {
		page := &outline.Pages[i]
		if !page.HasImage {
			continue
		}
		requests, err := page.ImageRequests()
		if err != nil {
			logrus.Warnf("Slide %d has invalid image_config: %v", page.SlideNumber, err)
			continue
		}
		if len(requests) == 0 {
			continue
		}
		jobs = append(jobs, pageJob{pageIndex: i, requests: requests})
	}

	if len(jobs) == 0 {
		return 0
	}
	logrus.Infof("Searching images for %d pages", len(jobs))

	var wg sync.WaitGroup
	for _, job := range jobs {
		page := &outline.Pages[job.pageIndex]
		results := make([]models.ImageResult, len(job.requests))
		page.ImageData = results

		for reqIdx, req := range job.requests {
			wg.Add(1)
			go func(page *models.SlidePage, results []models.ImageResult, reqIdx int, req models.ImageRequest) {
				defer wg.Done()
				results[reqIdx] = s.searchOne(ctx, page.SlideNumber, req)
			}(page, results, reqIdx, req)
		}
	}
	wg.Wait()

	embedded := 0
	for i := range outline.Pages {
		for _, result := range outline.Pages[i].ImageData {
			if result.Success {
				embedded++
			}
		}
	}

	logrus.Infof("Image embedding completed: %d images embedded", embedded)
	return embedded
}

// searchOne resolves a single image request into a result, success or not.
func (s *ImageEmbedService) searchOne(ctx context.Context, slideNumber int, req models.ImageRequest) models.ImageResult {
	if req.Query == "" {
		return models.ImageResult{Success: false, Error: "missing image search query"}
	}

	hits, err := s.searcher.Search(ctx, req.Query, 1, "landscape")
	if err != nil {
		logrus.Warnf("Image search failed for slide %d (%q): %v", slideNumber, req.Query, err)
		return models.ImageResult{Success: false, Error: err.Error()}
	}
	if len(hits) == 0 {
		logrus.Warnf("No images found for slide %d (%q)", slideNumber, req.Query)
		return models.ImageResult{Success: false, Error: "no images found for query"}
	}

	hit := hits[0]
	return models.ImageResult{
		Success:      true,
		URL:          hit.URL,
		Alt:          hit.Alt,
		Source:       "pexels",
		Photographer: hit.Photographer,
		Width:        hit.Width,
		Height:       hit.Height,
		Color:        hit.AvgColor,
	}
}
