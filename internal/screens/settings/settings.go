// Package settings edits display preferences and shows purchases.
package settings

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/entitlements"
	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	cfg "github.com/abhisek/emoiq/internal/settings"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

// ChangedMsg is emitted after settings were saved.
type ChangedMsg struct {
	Settings cfg.Settings
}

type savedMsg struct {
	err error
}

type Screen struct {
	svc    *screens.Services
	menu   components.Menu
	status string
}

var _ screen.Screen = (*Screen)(nil)

var themes = []cfg.Theme{cfg.ThemeDark, cfg.ThemeLight, cfg.ThemeSystem}

func New(svc *screens.Services) *Screen {
	s := &Screen{svc: svc}
	s.rebuild(0)
	return s
}

func (s *Screen) rebuild(selected int) {
	cur := s.svc.Settings.Get()
	ents := s.svc.Entitlements.State()
	owned := func(b bool) string {
		if b {
			return "owned"
		}
		return ""
	}
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Theme", Detail: string(cur.Theme), Action: s.update(func(x *cfg.Settings) {
			for i, t := range themes {
				if t == x.Theme {
					x.Theme = themes[(i+1)%len(themes)]
					return
				}
			}
			x.Theme = cfg.ThemeDark
		})},
		{Label: "High contrast", Detail: onOff(cur.HighContrast), Action: s.update(func(x *cfg.Settings) {
			x.HighContrast = !x.HighContrast
		})},
		{Label: "Reduce motion", Detail: onOff(cur.ReduceMotion), Action: s.update(func(x *cfg.Settings) {
			x.ReduceMotion = !x.ReduceMotion
		})},
		{Label: "Remove ads", Detail: owned(ents.RemoveAds), Disabled: ents.RemoveAds, Action: s.grant(entitlements.RemoveAds)},
		{Label: "Pro access", Detail: owned(ents.ProAccess), Disabled: ents.ProAccess, Action: s.grant(entitlements.ProAccess)},
	})
	if selected < len(s.menu.Items) && !s.menu.Items[selected].Disabled {
		s.menu.Selected = selected
	}
}

func (s *Screen) update(fn func(*cfg.Settings)) func() tea.Cmd {
	return func() tea.Cmd {
		m := s.svc.Settings
		return func() tea.Msg {
			out, err := m.Update(context.Background(), fn)
			if err != nil {
				return savedMsg{err: err}
			}
			return ChangedMsg{Settings: out}
		}
	}
}

func (s *Screen) grant(product string) func() tea.Cmd {
	return func() tea.Cmd {
		m := s.svc.Entitlements
		return func() tea.Msg {
			_, err := m.Grant(context.Background(), product)
			return savedMsg{err: err}
		}
	}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Settings" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		theme.Apply(theme.For(string(msg.Settings.Theme), msg.Settings.HighContrast))
		s.status = "Saved."
		s.rebuild(s.menu.Selected)
		return s, nil
	case savedMsg:
		s.status = "Saved."
		if msg.err != nil {
			s.status = fmt.Sprintf("Could not save: %v", msg.err)
		}
		s.rebuild(s.menu.Selected)
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	body := theme.Title.Render("Settings") + "\n\n" + s.menu.View()
	if s.status != "" {
		body += "\n" + theme.Hint.Render(s.status)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
