package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/ui/theme"
)

// Bar renders value/max as a horizontal bar of the given width.
func Bar(value, total, width int, fill lipgloss.Style) string {
	if width < 1 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = value * width / total
	}
	filled = min(max0(filled), width)
	return fill.Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Current.Border).Render(strings.Repeat("░", width-filled))
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
