package components

import (
	"fmt"

	"github.com/mmcdole/gitscout/internal/tui/styles"
)

// RenderPager renders the previous/next controls around the page indicator.
// Disabled controls are dimmed.
func RenderPager(page int, canPrev, canNext bool) string {
	prev := styles.DisabledStyle.Render("‹ Prev")
	if canPrev {
		prev = styles.AccentStyle.Render("‹ Prev")
	}
	next := styles.DisabledStyle.Render("Next ›")
	if canNext {
		next = styles.AccentStyle.Render("Next ›")
	}
	return fmt.Sprintf("%s  %s  %s", prev, styles.SubtitleStyle.Render(fmt.Sprintf("Page %d", page)), next)
}
