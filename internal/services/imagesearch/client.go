package imagesearch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/slidesmith/slidesmith-backend/internal/config"
)

// Hit is one raw stock photo result.
type Hit struct {
	ID              int    `json:"id"`
	URL             string `json:"url"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	AvgColor        string `json:"avg_color"`
}

// Searcher is the image-search collaborator boundary.
type Searcher interface {
	// IsAvailable reports whether the collaborator is configured at all.
	IsAvailable() bool
	Search(ctx context.Context, query string, count int, orientation string) ([]Hit, error)
}

// PexelsClient searches the Pexels photo API.
type PexelsClient struct {
	httpClient *resty.Client
	baseURL    string
	apiKey     string
}

type pexelsPhoto struct {
	ID              int    `json:"id"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	AvgColor        string `json:"avg_color"`
	Alt             string `json:"alt"`
	Src             struct {
		Original  string `json:"original"`
		Large     string `json:"large"`
		Landscape string `json:"landscape"`
	} `json:"src"`
}

type pexelsSearchResponse struct {
	Photos       []pexelsPhoto `json:"photos"`
	TotalResults int           `json:"total_results"`
}

// NewPexelsClient creates a Pexels API client
func NewPexelsClient(cfg *config.ImageSearchConfig) *PexelsClient {
	client := resty.New().
		SetHeader("User-Agent", "Slidesmith-Backend/1.0").
		SetTimeout(30 * time.Second)

	return &PexelsClient{
		httpClient: client,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// IsAvailable reports whether an API key is configured.
func (c *PexelsClient) IsAvailable() bool {
	return c.apiKey != ""
}

// Search queries photos for the given keywords. orientation is one of
// landscape/portrait/square, empty for any.
func (c *PexelsClient) Search(ctx context.Context, query string, count int, orientation string) ([]Hit, error) {
	if query == "" {
		return nil, fmt.Errorf("empty image search query")
	}
	if count <= 0 {
		count = 1
	}

	params := map[string]string{
		"query":    query,
		"per_page": fmt.Sprintf("%d", count),
	}
	if orientation != "" {
		params["orientation"] = orientation
	}

	var result pexelsSearchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", c.apiKey).
		SetQueryParams(params).
		SetResult(&result).
		Get(c.baseURL + "/search")

	if err != nil {
		return nil, fmt.Errorf("failed to query Pexels search API: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("Pexels search API error (status %d): %s", resp.StatusCode(), resp.String())
	}

	hits := make([]Hit, 0, len(result.Photos))
	for _, photo := range result.Photos {
		url := photo.Src.Large
		if url == "" {
			url = photo.Src.Original
		}
		alt := photo.Alt
		if alt == "" {
			alt = query
		}
		hits = append(hits, Hit{
			ID:              photo.ID,
			URL:             url,
			Alt:             alt,
			Photographer:    photo.Photographer,
			PhotographerURL: photo.PhotographerURL,
			Width:           photo.Width,
			Height:          photo.Height,
			AvgColor:        photo.AvgColor,
		})
	}

	logrus.Infof("Pexels search %q returned %d photos", query, len(hits))
	return hits, nil
}
