// Package home is the root screen.
package home

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/router"
	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	"github.com/abhisek/emoiq/internal/screens/branching"
	"github.com/abhisek/emoiq/internal/screens/practice"
	settingsscreen "github.com/abhisek/emoiq/internal/screens/settings"
	"github.com/abhisek/emoiq/internal/screens/signin"
	statsscreen "github.com/abhisek/emoiq/internal/screens/stats"
	tonescreen "github.com/abhisek/emoiq/internal/screens/tone"
	"github.com/abhisek/emoiq/internal/stats"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

type signedOutMsg struct{}

type Screen struct {
	svc    *screens.Services
	menu   components.Menu
	mood   Mood
	streak int
	user   string
}

var (
	_ screen.Screen  = (*Screen)(nil)
	_ screen.Resumer = (*Screen)(nil)
)

func New(svc *screens.Services) *Screen {
	h := &Screen{svc: svc}
	h.refresh()
	return h
}

// refresh recomputes everything derived from progress and the session.
func (h *Screen) refresh() {
	svc := h.svc
	today := svc.Today()
	rec, _ := svc.Ledger.Get(today)

	h.streak = svc.Stats().CurrentStreak
	h.mood = MoodCurious
	toneDetail := "not played"
	switch rec.Status {
	case progress.Won:
		h.mood = MoodHappy
		toneDetail = fmt.Sprintf("solved %s", stats.Summary(rec, svc.Rules.MaxAttempts))
	case progress.Lost:
		h.mood = MoodGlum
		toneDetail = "out of attempts"
	case progress.InProgress:
		toneDetail = fmt.Sprintf("%d/%d", len(rec.Attempts), svc.Rules.MaxAttempts)
	}

	h.user = ""
	if svc.Auth != nil {
		if s, _ := svc.Auth.Session(context.Background()); s != nil {
			h.user = s.Email
		}
	}

	account := components.MenuItem{Label: "Sign in", Detail: "sync progress", Disabled: svc.Auth == nil, Action: func() tea.Cmd {
		return router.Push(signin.New(svc))
	}}
	if h.user != "" {
		account = components.MenuItem{Label: "Sign out", Detail: h.user, Action: func() tea.Cmd {
			return func() tea.Msg {
				svc.Auth.SignOut(context.Background())
				return signedOutMsg{}
			}
		}}
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Today's tone", Detail: toneDetail, Action: func() tea.Cmd {
			return router.Push(tonescreen.New(svc, ""))
		}},
		{Label: "Decode the message", Action: func() tea.Cmd {
			return router.Push(branching.NewDaily(svc))
		}},
		{Label: "Practice", Action: func() tea.Cmd {
			return router.Push(practice.New(svc))
		}},
		{Label: "Stats", Action: func() tea.Cmd {
			return router.Push(statsscreen.New(svc))
		}},
		{Label: "Settings", Action: func() tea.Cmd {
			return router.Push(settingsscreen.New(svc))
		}},
		account,
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	h.menu.Selected = selected
}

func (h *Screen) Init() tea.Cmd { return nil }

func (h *Screen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *Screen) Title() string { return "Home" }

// Streak is shown in the header.
func (h *Screen) Streak() int { return h.streak }

func (h *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(signedOutMsg); ok {
		h.refresh()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *Screen) View(width, height int) string {
	title := theme.Title.Render("Emotional IQ")
	sub := theme.Subtitle.Render("Read between the lines, one message a day.")
	streak := theme.Body.Render(fmt.Sprintf("Streak: %d", h.streak))

	top := lipgloss.JoinHorizontal(lipgloss.Center, renderFace(h.mood), "   ",
		lipgloss.JoinVertical(lipgloss.Left, title, sub, streak))
	body := lipgloss.JoinVertical(lipgloss.Left, top, "", theme.Card.Render(h.menu.View()))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
