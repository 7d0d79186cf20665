// Package practice lets the player pick a category to practise.
package practice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/router"
	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	"github.com/abhisek/emoiq/internal/screens/branching"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

type Screen struct {
	svc  *screens.Services
	menu components.Menu
}

var _ screen.Screen = (*Screen)(nil)

func New(svc *screens.Services) *Screen {
	signedIn := svc.Auth.UserID() != ""
	var items []components.MenuItem
	for _, c := range puzzle.Categories() {
		items = append(items, components.MenuItem{
			Label:    string(c),
			Disabled: !signedIn,
			Action: func() tea.Cmd {
				return router.Replace(branching.NewPractice(svc, c))
			},
		})
	}
	return &Screen{svc: svc, menu: components.NewMenu(items)}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Practice" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	body := theme.Title.Render("Pick a category") + "\n\n" + s.menu.View()
	if s.svc.Auth.UserID() == "" {
		body += "\n" + theme.Hint.Render("Sign in to practise with the puzzle library.")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
