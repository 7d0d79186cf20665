package tone

import (
	"strings"
	"testing"

	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/screens/screenstest"
	tn "github.com/abhisek/emoiq/internal/tone"
)

func loaded(t *testing.T) (*Screen, screenstest.Fixture) {
	t.Helper()
	f := screenstest.New(t, nil)
	s := New(f.Services, "")
	s.Update(screenstest.Run(s.load()))
	if f.Services.Tone.Snapshot().Puzzle == nil {
		t.Fatal("expected a seeded puzzle")
	}
	return s, f
}

func TestSliderKeys(t *testing.T) {
	s, f := loaded(t)
	g := f.Services.Tone

	s.Update(screenstest.Key("right"))
	s.Update(screenstest.Key("right"))
	if got := g.Snapshot().Guess.Get(tn.Anger); got != 52 {
		t.Errorf("anger = %d, want 52", got)
	}

	s.Update(screenstest.Key("down"))
	s.Update(screenstest.Key("H"))
	if got := g.Snapshot().Guess.Get(tn.Affection); got != 40 {
		t.Errorf("affection = %d, want 40", got)
	}

	s.Update(screenstest.Key("up"))
	s.Update(screenstest.Key("up"))
	if s.focus != len(tn.All())-1 {
		t.Errorf("focus = %d, want wrap to last tone", s.focus)
	}

	s.Update(screenstest.Key("r"))
	if got := g.Snapshot().Guess; got != tn.Neutral() {
		t.Errorf("guess after reset = %+v", got)
	}
}

func TestSliderClampsAtBounds(t *testing.T) {
	s, f := loaded(t)
	for i := 0; i < 8; i++ {
		s.Update(screenstest.Key("L"))
	}
	if got := f.Services.Tone.Snapshot().Guess.Get(tn.Anger); got != 100 {
		t.Errorf("anger = %d, want 100", got)
	}
}

func TestSubmitRecordsAttempt(t *testing.T) {
	s, f := loaded(t)
	s.Update(screenstest.Key("L"))

	_, cmd := s.Update(screenstest.Key("enter"))
	if cmd == nil {
		t.Fatal("enter should return a submit command")
	}
	s.Update(screenstest.Run(cmd))

	if s.last == nil {
		t.Fatal("last attempt not set")
	}
	rec, ok := f.Services.Ledger.Get(screenstest.Today)
	if !ok || len(rec.Attempts) != 1 {
		t.Fatalf("ledger record = %+v, %v", rec, ok)
	}
	if !strings.Contains(s.View(100, 40), "resonance") {
		t.Error("view should list the attempt")
	}
}

func TestWinShowsMedalAndShare(t *testing.T) {
	s, f := loaded(t)
	g := f.Services.Tone
	g.SetGuess(g.Snapshot().Puzzle.Target)

	_, cmd := s.Update(screenstest.Key("enter"))
	s.Update(screenstest.Run(cmd))

	v := g.Snapshot()
	if v.Status != progress.Won {
		t.Fatalf("status = %s, want won", v.Status)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Solved in 1/6") {
		t.Errorf("view missing solved line:\n%s", view)
	}

	if _, cmd := s.Update(screenstest.Key("enter")); cmd != nil {
		t.Error("enter after a win should do nothing")
	}

	s.Update(screenstest.Key("s"))
	if !strings.Contains(s.View(100, 40), "Emotional IQ "+screenstest.Today) {
		t.Error("share card not shown")
	}
}

func TestLoadingView(t *testing.T) {
	f := screenstest.New(t, nil)
	s := New(f.Services, "")
	if !strings.Contains(s.View(80, 24), "Loading") {
		t.Error("expected loading text before the puzzle arrives")
	}
}
