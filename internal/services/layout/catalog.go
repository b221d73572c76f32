package layout

import (
	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// Template is one named slide layout with its applicability rules.
// Templates are built once at process start and never mutated.
type Template struct {
	ID            string
	Name          string
	Description   string
	StructureHint string
	// Applicable page types for this template.
	PageTypes []models.PageType
	// RequireChart/RequireImage are tristate: nil means "don't care",
	// otherwise the slide's flag must match exactly.
	RequireChart *bool
	RequireImage *bool
	// Higher priority templates win; ties break uniformly at random.
	Priority int
}

// AppliesTo reports whether the template can be used for the given slide shape.
func (t *Template) AppliesTo(pageType models.PageType, hasChart, hasImage bool) bool {
	if !t.appliesToType(pageType) {
		return false
	}
	if t.RequireChart != nil && *t.RequireChart != hasChart {
		return false
	}
	if t.RequireImage != nil && *t.RequireImage != hasImage {
		return false
	}
	return true
}

func (t *Template) appliesToType(pageType models.PageType) bool {
	for _, pt := range t.PageTypes {
		if pt == pageType {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool { return &b }

// DefaultCatalog returns the built-in template set.
func DefaultCatalog() []Template {
	return []Template{
		{
			ID:          "title_page",
			Name:        "Title page",
			Description: "Centered hero layout: large title, divider, subtitle and key metrics below",
			StructureHint: `<main data-layout="title-page" class="flex-grow flex flex-col items-center justify-center">
    <h1 data-role="title" class="text-6xl font-bold text-center"></h1>
    <div data-role="decoration" class="w-32 h-1 bg-primary mt-6"></div>
    <p data-role="subtitle" class="text-2xl text-center mt-8"></p>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeTitle},
			RequireChart: boolPtr(false),
			RequireImage: boolPtr(false),
			Priority:     100,
		},
		{
			ID:          "section_page",
			Name:        "Section divider",
			Description: "Large centered section title with a short introduction and divider accent",
			StructureHint: `<main data-layout="section-page" class="flex-grow flex flex-col items-center justify-center">
    <h1 data-role="title" class="text-6xl font-bold text-center"></h1>
    <div data-role="decoration" class="w-48 h-1 bg-primary mt-6"></div>
    <p data-role="description" class="text-xl text-center mt-8 max-w-3xl"></p>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeSection},
			RequireChart: boolPtr(false),
			RequireImage: boolPtr(false),
			Priority:     90,
		},
		{
			ID:          "two_column_standard",
			Name:        "Two columns, text left",
			Description: "Left 40% text area (title, bullets, notes), right 60% chart or image",
			StructureHint: `<main data-layout="two-column-standard" class="flex-grow flex gap-10">
    <div data-role="text-content" class="flex-1 flex flex-col gap-6"></div>
    <div data-role="chart-area" class="flex-1"><canvas id="chart"></canvas></div>
</main>`,
			PageTypes: []models.PageType{models.PageTypeContent},
			Priority:  50,
		},
		{
			ID:          "two_column_reversed",
			Name:        "Two columns, text right",
			Description: "Left 60% chart or image, right 40% text area (title, bullets, notes)",
			StructureHint: `<main data-layout="two-column-reversed" class="flex-grow flex gap-10">
    <div data-role="chart-area" class="flex-1"><canvas id="chart"></canvas></div>
    <div data-role="text-content" class="flex-1 flex flex-col gap-6"></div>
</main>`,
			PageTypes: []models.PageType{models.PageTypeContent},
			Priority:  50,
		},
		{
			ID:          "two_column_balanced",
			Name:        "Balanced two columns",
			Description: "Even 50/50 split: core content and chart left, supporting detail right",
			StructureHint: `<main data-layout="two-column-balanced" class="flex-grow flex gap-10">
    <div data-role="content-primary" class="flex-1 flex flex-col gap-6"></div>
    <div data-role="content-secondary" class="flex-1 flex flex-col gap-6"></div>
</main>`,
			PageTypes: []models.PageType{models.PageTypeContent},
			Priority:  45,
		},
		{
			ID:          "vertical_split_top",
			Name:        "Vertical split, visual on top",
			Description: "Top 55% chart or image, bottom 45% interpretation cards",
			StructureHint: `<main data-layout="vertical-split-top" class="flex-grow flex flex-col gap-8">
    <div data-role="chart-area" class="flex-1"><canvas id="chart"></canvas></div>
    <div data-role="text-content" class="flex-shrink-0 grid grid-cols-2 gap-4"></div>
</main>`,
			PageTypes: []models.PageType{models.PageTypeContent},
			Priority:  40,
		},
		{
			ID:          "vertical_split_bottom",
			Name:        "Vertical split, text on top",
			Description: "Top 45% title and description, bottom 55% chart or image",
			StructureHint: `<main data-layout="vertical-split-bottom" class="flex-grow flex flex-col gap-8">
    <div data-role="text-content" class="flex-shrink-0"></div>
    <div data-role="chart-area" class="flex-1"><canvas id="chart"></canvas></div>
</main>`,
			PageTypes: []models.PageType{models.PageTypeContent},
			Priority:  40,
		},
		{
			ID:          "three_column",
			Name:        "Three columns",
			Description: "Equal thirds: key points left, chart center, supporting figures right",
			StructureHint: `<main data-layout="three-column" class="flex-grow flex gap-6">
    <div data-role="text-content" class="flex-1 flex flex-col gap-4"></div>
    <div data-role="chart-area" class="flex-1"><canvas id="chart"></canvas></div>
    <div data-role="content-secondary" class="flex-1 flex flex-col gap-4"></div>
</main>`,
			PageTypes: []models.PageType{models.PageTypeContent},
			Priority:  35,
		},
		{
			ID:          "card_grid_2x2",
			Name:        "Card grid 2x2",
			Description: "Four cards in a 2x2 grid, each with an icon, point title and short note",
			StructureHint: `<main data-layout="card-grid-2x2" class="flex-grow">
    <div class="grid grid-cols-2 gap-6 h-full">
        <div data-role="card" class="bg-gray-50 p-6 rounded-xl"></div>
    </div>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeContent},
			RequireChart: boolPtr(false),
			RequireImage: boolPtr(false),
			Priority:     30,
		},
		{
			ID:          "card_grid_3x2",
			Name:        "Card grid 3x2",
			Description: "Six cards across three columns and two rows, for dense point lists",
			StructureHint: `<main data-layout="card-grid-3x2" class="flex-grow">
    <div class="grid grid-cols-3 gap-4 h-full">
        <div data-role="card" class="bg-gray-50 p-4 rounded-lg"></div>
    </div>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeContent},
			RequireChart: boolPtr(false),
			RequireImage: boolPtr(false),
			Priority:     25,
		},
		{
			ID:          "full_chart",
			Name:        "Full-bleed chart",
			Description: "Chart fills 80% of the slide, title above, one-line takeaway below",
			StructureHint: `<main data-layout="full-chart" class="flex-grow flex flex-col">
    <div data-role="header" class="flex-shrink-0 mb-4"></div>
    <div data-role="chart-area" class="flex-1"><canvas id="chart"></canvas></div>
    <div data-role="footer" class="flex-shrink-0 mt-4"></div>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeContent},
			RequireChart: boolPtr(true),
			Priority:     60,
		},
		{
			ID:          "focus_highlight",
			Name:        "Focus highlight",
			Description: "Large highlight card with the headline figure on the left (60%), supporting list right",
			StructureHint: `<main data-layout="focus-highlight" class="flex-grow flex gap-8">
    <div data-role="highlight-card" class="flex-1 p-8 rounded-2xl"></div>
    <div data-role="text-content" class="flex-1 flex flex-col gap-3"></div>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeContent},
			RequireChart: boolPtr(false),
			Priority:     55,
		},
		{
			ID:          "comparison",
			Name:        "Comparison panels",
			Description: "Two bordered panels side by side for pros/cons or option comparison",
			StructureHint: `<main data-layout="comparison" class="flex-grow flex gap-8">
    <div data-role="comparison-panel" class="flex-1 p-6 rounded-xl border-2"></div>
    <div data-role="comparison-panel" class="flex-1 p-6 rounded-xl border-2"></div>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeContent},
			RequireChart: boolPtr(false),
			Priority:     45,
		},
		{
			ID:          "timeline",
			Name:        "Timeline",
			Description: "Horizontal milestone timeline with numbered markers and stage labels",
			StructureHint: `<main data-layout="timeline" class="flex-grow">
    <div class="flex items-center justify-between gap-4">
        <div data-role="timeline-item" class="flex-1 text-center"></div>
        <div data-role="timeline-connector" class="flex-shrink-0 w-12 h-0.5 bg-gray-300"></div>
    </div>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeContent},
			RequireChart: boolPtr(false),
			Priority:     40,
		},
		{
			ID:          "list_layout",
			Name:        "Numbered list",
			Description: "Vertical numbered list left, chart or image right",
			StructureHint: `<main data-layout="list-layout" class="flex-grow flex gap-8">
    <div data-role="text-content" class="flex-1 flex flex-col gap-5"></div>
    <div data-role="chart-area" class="flex-1"><canvas id="chart"></canvas></div>
</main>`,
			PageTypes: []models.PageType{models.PageTypeContent, models.PageTypeConclusion},
			Priority:  35,
		},
		{
			ID:          "conclusion_summary",
			Name:        "Conclusion summary",
			Description: "Centered closing layout with checked takeaway list and closing line",
			StructureHint: `<main data-layout="conclusion-summary" class="flex-grow flex flex-col items-center justify-center gap-6">
    <h1 data-role="title" class="text-5xl font-bold text-center"></h1>
    <div data-role="text-content" class="flex flex-col gap-4"></div>
</main>`,
			PageTypes:    []models.PageType{models.PageTypeConclusion},
			RequireChart: boolPtr(false),
			Priority:     80,
		},
	}
}
