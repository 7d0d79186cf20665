package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/ui/theme"
)

// Button renders a label as an enabled or disabled button.
func Button(label string, enabled bool) string {
	p := theme.Current
	if enabled {
		return lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Primary).
			Bold(true).
			Padding(0, 2).
			Render(label)
	}
	return lipgloss.NewStyle().
		Foreground(p.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 2).
		Render(label)
}
