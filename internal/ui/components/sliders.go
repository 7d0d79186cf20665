package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/tone"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

// SliderStep and SliderBigStep are the keyboard increments.
const (
	SliderStep    = 1
	SliderBigStep = 10
)

var hintArrow = map[tone.Direction]string{
	tone.Higher: "↑ higher",
	tone.Lower:  "↓ lower",
	tone.Close:  "✓ close",
}

// Sliders renders the five tone sliders. hints, when non-nil, annotates each
// row with the last attempt's direction.
func Sliders(v tone.Vector, focus int, hints tone.HintSet, width int) string {
	barWidth := max(width-34, 10)
	var b strings.Builder
	for i, t := range tone.All() {
		label := fmt.Sprintf("%-10s", t)
		style := theme.Unselected
		cursor := "  "
		if i == focus {
			style = theme.Selected
			cursor = "▸ "
		}
		fmt.Fprintf(&b, "%s%s %s %3d", style.Render(cursor), style.Render(label),
			Bar(v.Get(t), 100, barWidth, lipgloss.NewStyle().Foreground(theme.Current.Secondary)), v.Get(t))
		if d, ok := hints[t]; ok {
			hs := theme.Hint
			if d == tone.Close {
				hs = theme.Correct
			}
			b.WriteString("  " + hs.Render(hintArrow[d]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TileRow renders one row of the attempt grid with tile colors.
func TileRow(tiles []tone.Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		style := theme.TileGray
		switch t {
		case tone.Green:
			style = theme.TileGreen
		case tone.Yellow:
			style = theme.TileYellow
		}
		parts[i] = style.Render("■")
	}
	return strings.Join(parts, " ")
}
