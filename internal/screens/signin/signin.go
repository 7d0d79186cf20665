// Package signin signs the player in with an email address, or out.
package signin

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/router"
	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/layout"
	"github.com/abhisek/emoiq/internal/ui/theme"
	"github.com/abhisek/emoiq/internal/validate"
)

type signedInMsg struct {
	err error
}

type Screen struct {
	svc   *screens.Services
	input components.TextInput
	busy  bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.InputCapturer   = (*Screen)(nil)
)

func New(svc *screens.Services) *Screen {
	return &Screen{svc: svc, input: components.NewTextInput("you@example.com", 254, 40)}
}

func (s *Screen) Init() tea.Cmd { return s.input.Init() }

func (s *Screen) Title() string { return "Sign in" }

func (s *Screen) CapturingInput() bool { return true }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Sign in"}, {Key: "Esc", Description: "Cancel"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		s.busy = false
		if msg.err != nil {
			s.input.Err = describe(msg.err)
			return s, nil
		}
		return s, router.Pop
	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return s, router.Pop
		}
		if msg.String() == "enter" && !s.busy {
			s.busy = true
			hub, email := s.svc.Auth, s.input.Value()
			return s, func() tea.Msg {
				_, err := hub.SignInEmail(context.Background(), email)
				return signedInMsg{err: err}
			}
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func describe(err error) string {
	var fe *validate.FieldsError
	if errors.As(err, &fe) {
		if m, ok := fe.Fields["email"]; ok {
			return m
		}
	}
	return err.Error()
}

func (s *Screen) View(width, height int) string {
	body := theme.Title.Render("Sign in to sync your progress") + "\n\n" +
		theme.Card.Render(s.input.View()) + "\n" +
		theme.Hint.Render("Progress and purchases upload once you are signed in.")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
