package stats

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/emoiq/internal/screens/screenstest"
)

func TestViewAfterWin(t *testing.T) {
	f := screenstest.New(t, nil)
	g := f.Services.Tone
	ctx := context.Background()

	g.LoadDaily(ctx, screenstest.Today)
	v := g.Snapshot()
	if v.Puzzle == nil {
		t.Fatal("no puzzle loaded")
	}
	g.SetGuess(v.Puzzle.Target)
	if g.SubmitGuess(ctx) == nil {
		t.Fatal("submit recorded nothing")
	}

	s := New(f.Services)
	if s.stats.Played != 1 || s.stats.Wins != 1 {
		t.Fatalf("stats = %+v", s.stats)
	}
	out := s.View(80, 30)
	for _, want := range []string{"Played", "Win rate", "gold      1", "Guess distribution"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyStats(t *testing.T) {
	f := screenstest.New(t, nil)
	s := New(f.Services)
	if s.stats.Played != 0 {
		t.Errorf("played = %d", s.stats.Played)
	}
	if s.Title() != "Stats" {
		t.Errorf("title = %q", s.Title())
	}
}
