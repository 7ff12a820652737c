package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/bobmcallan/quantdash/internal/models"
)

// RecommendationMarkdown lays the buy, sell and hold lists out as markdown.
func RecommendationMarkdown(recs *models.Recommendations) string {
	var b strings.Builder
	b.WriteString("# Recommendations\n")
	writeGroup := func(heading string, items []models.Recommendation) {
		fmt.Fprintf(&b, "\n## %s\n\n", heading)
		if len(items) == 0 {
			b.WriteString("_None_\n")
			return
		}
		for _, r := range items {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", r.Symbol, r.Name, r.Reason)
		}
	}
	if recs == nil {
		recs = &models.Recommendations{}
	}
	writeGroup("Buy", recs.Buy)
	writeGroup("Sell", recs.Sell)
	writeGroup("Hold", recs.Hold)
	return b.String()
}

// RecommendationList renders the recommendations for a terminal of the given width.
// Style "notty" produces plain text suitable for logs and tests.
func RecommendationList(recs *models.Recommendations, style string, width int) (string, error) {
	md := RecommendationMarkdown(recs)
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render recommendations: %w", err)
	}
	return out, nil
}
