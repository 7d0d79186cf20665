package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emoiq/internal/screen"
)

type resumeMsg struct{ title string }

type stubScreen struct {
	title   string
	initRan bool
	resumed int
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type resumingScreen struct{ stubScreen }

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return func() tea.Msg { return resumeMsg{s.title} }
}

func TestPushPop(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)

	second := &stubScreen{title: "second"}
	r.Update(PushScreenMsg{Screen: second})
	if r.Depth() != 2 || r.Active().Title() != "second" {
		t.Fatalf("expected second on top, got %q at depth %d", r.Active().Title(), r.Depth())
	}
	if !second.initRan {
		t.Fatal("expected Init on pushed screen")
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active().Title() != "root" {
		t.Fatalf("expected root after pop, got %q", r.Active().Title())
	}
}

func TestPopNoopAtRoot(t *testing.T) {
	r := New(&stubScreen{title: "root"})
	if cmd := r.Pop(); cmd != nil {
		t.Fatal("expected nil cmd")
	}
	if r.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", r.Depth())
	}
}

func TestPopResumes(t *testing.T) {
	root := &resumingScreen{stubScreen{title: "home"}}
	r := New(root)
	r.Push(&stubScreen{title: "game"})

	cmd := r.Pop()
	if root.resumed != 1 {
		t.Fatalf("expected one resume, got %d", root.resumed)
	}
	if msg, ok := cmd().(resumeMsg); !ok || msg.title != "home" {
		t.Fatalf("unexpected resume msg %#v", msg)
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "root"})
	r.Push(&stubScreen{title: "picker"})

	game := &stubScreen{title: "game"}
	r.Update(ReplaceScreenMsg{Screen: game})
	if r.Depth() != 2 || r.Active() != game || !game.initRan {
		t.Fatalf("replace failed: depth %d active %q", r.Depth(), r.Active().Title())
	}
}

func TestForwardsToActive(t *testing.T) {
	root := &stubScreen{title: "root"}
	top := &stubScreen{title: "top"}
	r := New(root)
	r.Push(top)

	r.Update("hello")
	if len(top.got) != 1 || len(root.got) != 0 {
		t.Fatalf("expected message on top only: top %d root %d", len(top.got), len(root.got))
	}
}

func TestHelpers(t *testing.T) {
	s := &stubScreen{title: "x"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Fatal("Push helper")
	}
	if _, ok := Replace(s)().(ReplaceScreenMsg); !ok {
		t.Fatal("Replace helper")
	}
	if _, ok := Pop().(PopScreenMsg); !ok {
		t.Fatal("Pop helper")
	}
}
