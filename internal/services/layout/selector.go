package layout

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// UsageStore tracks which templates have already been used per deck. Page
// tasks select layouts concurrently, so all access goes through the mutex.
type UsageStore struct {
	mu   sync.Mutex
	used map[string]map[string]bool
}

// NewUsageStore creates an empty usage store.
func NewUsageStore() *UsageStore {
	return &UsageStore{
		used: make(map[string]map[string]bool),
	}
}

func (s *UsageStore) isUsed(deckID, templateID string) bool {
	return s.used[deckID][templateID]
}

func (s *UsageStore) markUsed(deckID, templateID string) {
	if s.used[deckID] == nil {
		s.used[deckID] = make(map[string]bool)
	}
	s.used[deckID][templateID] = true
}

// Reset clears the usage tracking for one deck.
func (s *UsageStore) Reset(deckID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, deckID)
}

// Selector picks a layout template for each slide, preferring templates the
// deck has not used yet so consecutive slides look different.
type Selector struct {
	templates []Template
	usage     *UsageStore
}

// NewSelector creates a selector over the default catalog.
func NewSelector(usage *UsageStore) *Selector {
	return &Selector{
		templates: DefaultCatalog(),
		usage:     usage,
	}
}

// NewSelectorWithCatalog creates a selector over a custom template set.
func NewSelectorWithCatalog(usage *UsageStore, templates []Template) *Selector {
	return &Selector{
		templates: templates,
		usage:     usage,
	}
}

// Select chooses a layout for the given slide shape and records it as used
// for the deck. A template is never repeated for a deck until every
// applicable template has been used once; after that repetition is allowed
// but still priority-weighted.
func (s *Selector) Select(deckID string, pageType models.PageType, hasChart, hasImage bool) *Template {
	applicable := s.filter(pageType, hasChart, hasImage)
	if len(applicable) == 0 {
		// Fall back to anything usable on a generic content slide.
		for i := range s.templates {
			if s.templates[i].appliesToType(models.PageTypeContent) {
				applicable = append(applicable, &s.templates[i])
			}
		}
	}

	s.usage.mu.Lock()
	defer s.usage.mu.Unlock()

	var unused []*Template
	for _, t := range applicable {
		if !s.usage.isUsed(deckID, t.ID) {
			unused = append(unused, t)
		}
	}

	pool := unused
	if len(pool) == 0 {
		pool = applicable
	}

	selected := pickByPriority(pool)
	s.usage.markUsed(deckID, selected.ID)

	logrus.Debugf("Layout %s selected for deck %s (type=%s chart=%v image=%v)",
		selected.ID, deckID, pageType, hasChart, hasImage)
	return selected
}

// ResetUsage clears layout tracking for a deck so a fresh run sees every
// template as eligible again.
func (s *Selector) ResetUsage(deckID string) {
	s.usage.Reset(deckID)
}

func (s *Selector) filter(pageType models.PageType, hasChart, hasImage bool) []*Template {
	var out []*Template
	for i := range s.templates {
		if s.templates[i].AppliesTo(pageType, hasChart, hasImage) {
			out = append(out, &s.templates[i])
		}
	}
	return out
}

// pickByPriority orders candidates by descending priority with a uniform
// random tiebreak and returns the first.
func pickByPriority(pool []*Template) *Template {
	type ranked struct {
		t   *Template
		tie float64
	}
	rankedPool := make([]ranked, len(pool))
	for i, t := range pool {
		rankedPool[i] = ranked{t: t, tie: rand.Float64()}
	}
	sort.Slice(rankedPool, func(i, j int) bool {
		if rankedPool[i].t.Priority != rankedPool[j].t.Priority {
			return rankedPool[i].t.Priority > rankedPool[j].t.Priority
		}
		return rankedPool[i].tie < rankedPool[j].tie
	})
	return rankedPool[0].t
}
