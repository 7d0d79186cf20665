package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/ui/theme"
)

// Loader is a spinner that stays still when motion is reduced.
type Loader struct {
	spinner spinner.Model
	still   bool
}

func NewLoader(still bool) Loader {
	return Loader{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Current.Secondary)),
		),
		still: still,
	}
}

func (l Loader) Init() tea.Cmd {
	if l.still {
		return nil
	}
	return l.spinner.Tick
}

func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	if l.still {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

func (l Loader) View(label string) string {
	if l.still {
		return theme.Subtitle.Render("… " + label)
	}
	return l.spinner.View() + " " + theme.Subtitle.Render(label)
}
