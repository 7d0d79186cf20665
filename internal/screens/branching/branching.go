// Package branching is the multi-round "decode the message" screen, used
// for the daily puzzle and for practice.
package branching

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/screen"
	"github.com/abhisek/emoiq/internal/screens"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/layout"
)

type loadedMsg struct {
	exhausted bool
}

type gradedMsg struct {
	err error
}

// Screen plays one branching puzzle.
type Screen struct {
	svc       *screens.Services
	category  puzzle.Category
	practice  bool
	round     int
	picker    components.OptionPicker
	exhausted bool
	localErr  string
	loader    components.Loader
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// NewDaily opens today's puzzle.
func NewDaily(svc *screens.Services) *Screen {
	return &Screen{svc: svc, loader: components.NewLoader(svc.ReduceMotion())}
}

// NewPractice opens a random unsolved puzzle in category.
func NewPractice(svc *screens.Services, category puzzle.Category) *Screen {
	s := NewDaily(svc)
	s.category = category
	s.practice = true
	return s
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.loader.Init())
}

func (s *Screen) load() tea.Cmd {
	g := s.svc.Branching
	if s.practice {
		category := s.category
		return func() tea.Msg {
			return loadedMsg{exhausted: g.LoadPractice(context.Background(), category)}
		}
	}
	return func() tea.Msg {
		g.LoadDaily(context.Background(), "")
		return loadedMsg{}
	}
}

func (s *Screen) Title() string {
	if s.practice {
		return "Practice: " + string(s.category)
	}
	return "Decode the Message"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	v := s.svc.Branching.Snapshot()
	if v.Result != nil {
		hints := []layout.KeyHint{{Key: "Esc", Description: "Back"}}
		if !v.IsCompleted {
			hints = append([]layout.KeyHint{{Key: "R", Description: "Try again"}}, hints...)
		}
		if s.practice {
			hints = append([]layout.KeyHint{{Key: "N", Description: "Next puzzle"}}, hints...)
		}
		return hints
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Choose"},
		{Key: "←→", Description: "Round"},
		{Key: "Enter", Description: "Next / Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.exhausted = msg.exhausted
		s.round, s.picker = 0, components.OptionPicker{}
		return s, nil
	case gradedMsg:
		s.localErr = ""
		if msg.err != nil {
			s.localErr = msg.err.Error()
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
	g := s.svc.Branching
	v := g.Snapshot()
	if v.Loading {
		return s, nil
	}

	switch msg.String() {
	case "n":
		if s.practice && (v.Result != nil || v.Puzzle == nil) {
			return s, s.load()
		}
	case "r":
		if v.Result != nil && !v.IsCompleted {
			g.ResetFlow()
			s.round, s.picker, s.localErr = 0, components.OptionPicker{}, ""
		}
		return s, nil
	case "[", "]":
		if s.practice {
			return s, nil
		}
		delta := 1
		if msg.String() == "[" {
			delta = -1
		}
		return s, func() tea.Msg {
			ok, err := s.svc.StepBranching(context.Background(), delta)
			if !ok {
				return nil
			}
			if err != nil {
				return gradedMsg{err: err}
			}
			return loadedMsg{}
		}
	}

	if v.Puzzle == nil || v.Result != nil || v.Submitting {
		return s, nil
	}

	last := len(v.Puzzle.Rounds) - 1
	round := v.Puzzle.Rounds[s.round]
	switch msg.String() {
	case "left", "h", "shift+tab":
		s.setRound(max(s.round-1, 0))
	case "right", "l", "tab":
		s.setRound(min(s.round+1, last))
	case "enter":
		if s.round < last {
			if len(v.Selections[s.round]) > 0 {
				s.setRound(s.round + 1)
			}
			return s, nil
		}
		return s, s.submit(v.Puzzle)
	default:
		var key string
		s.picker, key = s.picker.Update(msg, round)
		if key != "" {
			if err := g.ToggleSelection(s.round, key); err != nil {
				s.localErr = err.Error()
			} else {
				s.localErr = ""
			}
		}
	}
	return s, nil
}

func (s *Screen) setRound(i int) {
	if i != s.round {
		s.round = i
		s.picker = components.OptionPicker{}
	}
}

// submit grades remotely when the puzzle came from the remote store and
// locally otherwise.
func (s *Screen) submit(p *puzzle.BranchingPuzzle) tea.Cmd {
	g := s.svc.Branching
	if p.IsRemote() {
		return func() tea.Msg {
			g.SubmitAttempt(context.Background())
			return gradedMsg{}
		}
	}
	if !p.CanGradeLocally() {
		return func() tea.Msg { return gradedMsg{err: errors.New("this puzzle can only be graded online")} }
	}
	return func() tea.Msg {
		_, err := g.GradeLocally()
		return gradedMsg{err: err}
	}
}
