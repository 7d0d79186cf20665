// Package tone is the daily tone-slider screen.
package tone

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emoiq/internal/game"
	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	tn "github.com/abhisek/emoiq/internal/tone"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/layout"
)

type loadedMsg struct{}

type submittedMsg struct {
	Attempt *progress.Attempt
}

// Screen plays the tone puzzle of one day.
type Screen struct {
	svc       *screens.Services
	date      string
	focus     int
	last      *progress.Attempt
	showShare bool
	loader    components.Loader
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New opens the puzzle for date; "" means today.
func New(svc *screens.Services, date string) *Screen {
	return &Screen{svc: svc, date: date, loader: components.NewLoader(svc.ReduceMotion())}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.loader.Init())
}

func (s *Screen) load() tea.Cmd {
	g, date := s.svc.Tone, s.date
	return func() tea.Msg {
		g.LoadDaily(context.Background(), date)
		return loadedMsg{}
	}
}

func (s *Screen) Title() string { return "Today's Tone" }

func (s *Screen) KeyHints() []layout.KeyHint {
	v := s.svc.Tone.Snapshot()
	if v.Status.Terminal() {
		hints := []layout.KeyHint{{Key: "S", Description: "Share"}}
		if s.canStep() {
			hints = append(hints, layout.KeyHint{Key: "[ ]", Description: "Day"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Tone"},
		{Key: "←→", Description: "Adjust"},
		{Key: "⇧←→", Description: "±10"},
		{Key: "Enter", Description: "Submit"},
		{Key: "R", Description: "Reset"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) canStep() bool {
	_, ok := any(s.svc.Tone).(interface{ AdvanceDay(context.Context, int) })
	return ok
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.last = lastAttempt(s.svc.Tone.Snapshot())
		return s, nil
	case submittedMsg:
		if msg.Attempt != nil {
			s.last = msg.Attempt
		}
		return s, nil
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.loader, cmd = s.loader.Update(msg)
	return s, cmd
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	g := s.svc.Tone
	v := g.Snapshot()
	if v.Loading || v.Puzzle == nil {
		return s, nil
	}

	tones := tn.All()
	current := tones[s.focus]
	switch msg.String() {
	case "up", "k":
		s.focus = (s.focus + len(tones) - 1) % len(tones)
	case "down", "j", "tab":
		s.focus = (s.focus + 1) % len(tones)
	case "left", "h":
		g.SetTone(current, v.Guess.Get(current)-components.SliderStep)
	case "right", "l":
		g.SetTone(current, v.Guess.Get(current)+components.SliderStep)
	case "shift+left", "H":
		g.SetTone(current, v.Guess.Get(current)-components.SliderBigStep)
	case "shift+right", "L":
		g.SetTone(current, v.Guess.Get(current)+components.SliderBigStep)
	case "r":
		g.ResetFlow()
	case "s":
		if v.Status.Terminal() {
			s.showShare = !s.showShare
		}
	case "enter":
		if v.Status.Terminal() {
			return s, nil
		}
		return s, func() tea.Msg {
			return submittedMsg{Attempt: g.SubmitGuess(context.Background())}
		}
	case "[", "]":
		delta := 1
		if msg.String() == "[" {
			delta = -1
		}
		if s.svc.StepTone(context.Background(), delta) {
			s.showShare = false
			s.last = lastAttempt(g.Snapshot())
		}
	}
	return s, nil
}

func lastAttempt(v game.ToneView) *progress.Attempt {
	if len(v.Attempts) == 0 {
		return nil
	}
	a := v.Attempts[len(v.Attempts)-1]
	return &a
}
