package layout

import (
	"fmt"
	"sync"
	"testing"

	"github.com/slidesmith/slidesmith-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentCatalog(n int) []Template {
	templates := make([]Template, n)
	for i := range templates {
		templates[i] = Template{
			ID:        fmt.Sprintf("tpl_%d", i),
			Name:      fmt.Sprintf("Template %d", i),
			PageTypes: []models.PageType{models.PageTypeContent},
			Priority:  10 * (i + 1),
		}
	}
	return templates
}

func TestSelectNoRepeatUntilExhaustion(t *testing.T) {
	selector := NewSelectorWithCatalog(NewUsageStore(), contentCatalog(5))

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		tpl := selector.Select("deck-1", models.PageTypeContent, false, false)
		require.NotNil(t, tpl)
		assert.False(t, seen[tpl.ID], "template %s repeated before exhaustion", tpl.ID)
		seen[tpl.ID] = true
	}

	// All applicable templates used; further selections may repeat but must
	// still come from the applicable set.
	tpl := selector.Select("deck-1", models.PageTypeContent, false, false)
	require.NotNil(t, tpl)
	assert.True(t, seen[tpl.ID])
}

func TestSelectPrefersHigherPriority(t *testing.T) {
	selector := NewSelectorWithCatalog(NewUsageStore(), contentCatalog(3))

	// tpl_2 has the highest priority and must come first on a fresh deck.
	tpl := selector.Select("deck-1", models.PageTypeContent, false, false)
	require.NotNil(t, tpl)
	assert.Equal(t, "tpl_2", tpl.ID)
}

func TestSelectDecksAreIsolated(t *testing.T) {
	selector := NewSelectorWithCatalog(NewUsageStore(), contentCatalog(3))

	a := selector.Select("deck-a", models.PageTypeContent, false, false)
	b := selector.Select("deck-b", models.PageTypeContent, false, false)

	// Usage in one deck does not constrain another.
	assert.Equal(t, a.ID, b.ID)
}

func TestResetUsageRestoresEligibility(t *testing.T) {
	selector := NewSelectorWithCatalog(NewUsageStore(), contentCatalog(3))

	first := selector.Select("deck-1", models.PageTypeContent, false, false)
	selector.Select("deck-1", models.PageTypeContent, false, false)
	selector.Select("deck-1", models.PageTypeContent, false, false)

	selector.ResetUsage("deck-1")

	// Fresh deck eligibility: highest priority template selectable again.
	again := selector.Select("deck-1", models.PageTypeContent, false, false)
	assert.Equal(t, first.ID, again.ID)
}

func TestSelectRequireFlagsMatchExactly(t *testing.T) {
	chartOnly := Template{
		ID:           "chart_only",
		PageTypes:    []models.PageType{models.PageTypeContent},
		RequireChart: boolPtr(true),
		Priority:     100,
	}
	noChart := Template{
		ID:           "no_chart",
		PageTypes:    []models.PageType{models.PageTypeContent},
		RequireChart: boolPtr(false),
		Priority:     50,
	}
	selector := NewSelectorWithCatalog(NewUsageStore(), []Template{chartOnly, noChart})

	withChart := selector.Select("deck-1", models.PageTypeContent, true, false)
	assert.Equal(t, "chart_only", withChart.ID)

	withoutChart := selector.Select("deck-1", models.PageTypeContent, false, false)
	assert.Equal(t, "no_chart", withoutChart.ID)
}

func TestSelectFallsBackToContentTemplates(t *testing.T) {
	selector := NewSelectorWithCatalog(NewUsageStore(), contentCatalog(2))

	// No template applies to title pages; the generic content set is used.
	tpl := selector.Select("deck-1", models.PageTypeTitle, false, false)
	require.NotNil(t, tpl)
}

func TestSelectConcurrentCallsStayUnique(t *testing.T) {
	const pages = 8
	selector := NewSelectorWithCatalog(NewUsageStore(), contentCatalog(pages))

	var wg sync.WaitGroup
	results := make([]string, pages)
	for i := 0; i < pages; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = selector.Select("deck-1", models.PageTypeContent, false, false).ID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range results {
		assert.False(t, seen[id], "template %s selected twice under concurrency", id)
		seen[id] = true
	}
}

func TestDefaultCatalogCoversAllPageTypes(t *testing.T) {
	selector := NewSelector(NewUsageStore())

	for _, pt := range []models.PageType{
		models.PageTypeTitle,
		models.PageTypeContent,
		models.PageTypeSection,
		models.PageTypeConclusion,
	} {
		tpl := selector.Select("deck-types", pt, false, false)
		require.NotNil(t, tpl, "no layout for page type %s", pt)
	}
}
