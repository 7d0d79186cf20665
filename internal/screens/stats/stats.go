// Package stats shows streaks, medals and the attempt distribution.
package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	st "github.com/abhisek/emoiq/internal/stats"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

type Screen struct {
	stats st.Stats
}

var _ screen.Screen = (*Screen)(nil)

func New(svc *screens.Services) *Screen {
	return &Screen{stats: svc.Stats()}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Stats" }

func (s *Screen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *Screen) View(width, height int) string {
	x := s.stats
	var b strings.Builder

	figures := []struct {
		n     string
		label string
	}{
		{fmt.Sprint(x.Played), "Played"},
		{fmt.Sprintf("%d%%", x.WinRate), "Win rate"},
		{fmt.Sprint(x.CurrentStreak), "Streak"},
		{fmt.Sprint(x.MaxStreak), "Best"},
	}
	cells := make([]string, len(figures))
	for i, f := range figures {
		cells[i] = lipgloss.NewStyle().Width(12).Align(lipgloss.Center).Render(
			theme.Title.Render(f.n) + "\n" + theme.Subtitle.Render(f.label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteString("\n\n")

	b.WriteString(theme.Title.Render("Medals") + "\n")
	for _, m := range st.Medals() {
		fmt.Fprintf(&b, "  %-9s %d\n", m, x.Medals[m])
	}

	b.WriteString("\n" + theme.Title.Render("Guess distribution") + "\n")
	peak := 0
	for _, n := range x.Distribution {
		peak = max(peak, n)
	}
	for i, n := range x.Distribution {
		fmt.Fprintf(&b, "  %d %s %d\n", i+1, components.Bar(n, peak, 30, theme.Correct), n)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
