// Package app hosts the root Bubble Tea model: a screen stack framed by a
// header and a key-hint footer.
package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/router"
	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	"github.com/abhisek/emoiq/internal/screens/home"
	"github.com/abhisek/emoiq/internal/ui/layout"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

// Model is the root Bubble Tea model.
type Model struct {
	svc    *screens.Services
	router *router.Router
	width  int
	height int
}

// New builds the model with the home screen at the root and the saved
// theme applied.
func New(svc *screens.Services) Model {
	if svc.Settings != nil {
		s := svc.Settings.Get()
		theme.Apply(theme.For(string(s.Theme), s.HighContrast))
	}
	return Model{svc: svc, router: router.New(home.New(svc))}
}

func (m Model) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m Model) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturingInput()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.capturing() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		case "q":
			if m.capturing() {
				break
			}
			if m.router.Depth() == 1 {
				return m, tea.Quit
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m Model) status() string {
	var parts []string
	if n := m.svc.Stats().CurrentStreak; n > 0 {
		parts = append(parts, fmt.Sprintf("🔥 %d", n))
	}
	if m.svc.Auth != nil {
		if id := m.svc.Auth.UserID(); id != "" {
			parts = append(parts, "● synced")
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) hints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the whole frame for the current size.
func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.router.Active().Title(), m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the program and blocks until the player quits.
func Run(svc *screens.Services) error {
	_, err := tea.NewProgram(New(svc)).Run()
	return err
}
