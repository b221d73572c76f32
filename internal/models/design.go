package models

// DesignSpec is the global visual design contract shared by every slide in a
// deck. It is produced once, after the outline is finalized, and never
// mutated afterwards.
type DesignSpec struct {
	PrimaryColor       string   `json:"primary_color" example:"#1e3a8a"`
	SecondaryColor     string   `json:"secondary_color" example:"#6b7280"`
	AccentColor        string   `json:"accent_color" example:"#f59e0b"`
	BackgroundColor    string   `json:"background_color" example:"#ffffff"`
	TextColor          string   `json:"text_color" example:"#1f2937"`
	TextSecondaryColor string   `json:"text_secondary_color" example:"#4b5563"`
	FontFamily         string   `json:"font_family" example:"Inter, sans-serif"`
	TitleFontSize      string   `json:"title_font_size" example:"text-4xl"`
	ContentFontSize    string   `json:"content_font_size" example:"text-lg"`
	LayoutStyle        string   `json:"layout_style" example:"minimal"`
	Spacing            string   `json:"spacing" example:"comfortable"`
	BorderRadius       string   `json:"border_radius" example:"rounded-xl"`
	UseShadows         bool     `json:"use_shadows"`
	UseGradients       bool     `json:"use_gradients"`
	AnimationStyle     string   `json:"animation_style" example:"subtle"`
	ChartColors        []string `json:"chart_colors"`
}

// MergedColors applies the design spec palette on top of the outline palette.
// Design spec colors win when present.
func (d *DesignSpec) MergedColors(base ColorScheme) ColorScheme {
	merged := base
	if d == nil {
		return merged
	}
	if d.PrimaryColor != "" {
		merged.Primary = d.PrimaryColor
	}
	if d.AccentColor != "" {
		merged.Accent = d.AccentColor
	}
	if d.BackgroundColor != "" {
		merged.Background = d.BackgroundColor
	}
	if d.TextColor != "" {
		merged.Text = d.TextColor
	}
	if d.SecondaryColor != "" {
		merged.Secondary = d.SecondaryColor
	}
	return merged
}
