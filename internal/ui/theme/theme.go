// Package theme holds the palette and shared lipgloss styles. Styles are
// rebuilt by Apply when the player changes display settings.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is one set of colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Warn      color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

var (
	Dark = Palette{
		Primary:   lipgloss.Color("#A78BFA"),
		Secondary: lipgloss.Color("#2DD4BF"),
		Accent:    lipgloss.Color("#FB923C"),
		Success:   lipgloss.Color("#22C55E"),
		Warn:      lipgloss.Color("#EAB308"),
		Error:     lipgloss.Color("#F43F5E"),
		Text:      lipgloss.Color("#F8FAFC"),
		TextDim:   lipgloss.Color("#94A3B8"),
		BgCard:    lipgloss.Color("#1E293B"),
		Border:    lipgloss.Color("#334155"),
	}

	Light = Palette{
		Primary:   lipgloss.Color("#6D28D9"),
		Secondary: lipgloss.Color("#0F766E"),
		Accent:    lipgloss.Color("#C2410C"),
		Success:   lipgloss.Color("#15803D"),
		Warn:      lipgloss.Color("#A16207"),
		Error:     lipgloss.Color("#BE123C"),
		Text:      lipgloss.Color("#0F172A"),
		TextDim:   lipgloss.Color("#475569"),
		BgCard:    lipgloss.Color("#E2E8F0"),
		Border:    lipgloss.Color("#94A3B8"),
	}

	// HighContrast trades the palette for pure colors.
	HighContrast = Palette{
		Primary:   lipgloss.Color("#FFFF00"),
		Secondary: lipgloss.Color("#00FFFF"),
		Accent:    lipgloss.Color("#FF8800"),
		Success:   lipgloss.Color("#00FF00"),
		Warn:      lipgloss.Color("#FFFF00"),
		Error:     lipgloss.Color("#FF0000"),
		Text:      lipgloss.Color("#FFFFFF"),
		TextDim:   lipgloss.Color("#DDDDDD"),
		BgCard:    lipgloss.Color("#000000"),
		Border:    lipgloss.Color("#FFFFFF"),
	}
)

// Current is the active palette.
var Current = Dark

var (
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Body       lipgloss.Style
	Hint       lipgloss.Style
	Card       lipgloss.Style
	Message    lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
	Warning    lipgloss.Style
	TileGreen  lipgloss.Style
	TileYellow lipgloss.Style
	TileGray   lipgloss.Style
)

func init() { Apply(Dark) }

// Apply makes p current and rebuilds every style.
func Apply(p Palette) {
	Current = p

	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Subtitle = lipgloss.NewStyle().Foreground(p.TextDim)
	Body = lipgloss.NewStyle().Foreground(p.Text)
	Hint = lipgloss.NewStyle().Foreground(p.TextDim).Italic(true)
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)
	Message = lipgloss.NewStyle().
		Foreground(p.Text).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Secondary).
		PaddingLeft(1)

	Selected = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(p.Text)
	Correct = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	Warning = lipgloss.NewStyle().Foreground(p.Warn)

	TileGreen = lipgloss.NewStyle().Foreground(p.Success)
	TileYellow = lipgloss.NewStyle().Foreground(p.Warn)
	TileGray = lipgloss.NewStyle().Foreground(p.TextDim)
}

// For picks the palette for a theme name and contrast flag. "system"
// follows dark, which is what most terminals use.
func For(name string, highContrast bool) Palette {
	switch {
	case highContrast:
		return HighContrast
	case name == "light":
		return Light
	default:
		return Dark
	}
}
