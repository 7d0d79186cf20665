package branching

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/screens/screenstest"
)

func press(s *Screen, keys ...string) {
	for _, k := range keys {
		_, cmd := s.Update(screenstest.Key(k))
		if msg := screenstest.Run(cmd); msg != nil {
			s.Update(msg)
		}
	}
}

func loadedDaily(t *testing.T, rs remote.Store) (*Screen, screenstest.Fixture) {
	t.Helper()
	f := screenstest.New(t, rs)
	s := NewDaily(f.Services)
	s.Update(screenstest.Run(s.load()))
	if f.Services.Branching.Snapshot().Puzzle == nil {
		t.Fatal("expected a puzzle")
	}
	return s, f
}

func TestFallbackGradedLocally(t *testing.T) {
	s, f := loadedDaily(t, nil)

	// hurt_underneath, at_you, sincere_apology
	press(s, "down", "space", "enter", "space", "enter", "down", "space")
	if s.round != 2 {
		t.Fatalf("round = %d, want 2", s.round)
	}
	press(s, "enter")

	v := f.Services.Branching.Snapshot()
	if v.Result == nil {
		t.Fatal("expected a local result")
	}
	if !v.Result.IsCorrect || v.Result.CorrectCount != 3 {
		t.Errorf("result = %+v", v.Result)
	}
	if v.IsCompleted {
		t.Error("local grading must not complete the day")
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "You read it right.") {
		t.Errorf("view missing verdict:\n%s", view)
	}
}

func TestEnterWaitsForAnswer(t *testing.T) {
	s, _ := loadedDaily(t, nil)
	press(s, "enter")
	if s.round != 0 {
		t.Errorf("round = %d, want 0 until an option is chosen", s.round)
	}
	press(s, "right")
	if s.round != 1 {
		t.Errorf("right should move to round 1, got %d", s.round)
	}
}

func TestRetryAfterWrongAnswer(t *testing.T) {
	s, f := loadedDaily(t, nil)
	press(s, "space", "enter", "space", "enter", "space", "enter")

	v := f.Services.Branching.Snapshot()
	if v.Result == nil || v.Result.IsCorrect {
		t.Fatalf("expected a wrong result, got %+v", v.Result)
	}

	press(s, "r")
	v = f.Services.Branching.Snapshot()
	if v.Result != nil {
		t.Error("retry should clear the result")
	}
	if s.round != 0 || len(v.Selections[0]) != 0 {
		t.Errorf("retry should reset rounds, round=%d selections=%v", s.round, v.Selections)
	}
}

func TestRemoteSubmit(t *testing.T) {
	m := remote.NewMemory()
	d, err := puzzle.ParseDateKey(screenstest.Today)
	if err != nil {
		t.Fatal(err)
	}
	q := remote.QuizPuzzle{PuzzleDate: &d, Context: "ctx", Message: "see you then", IsActive: true}
	for i := 0; i < 2; i++ {
		q.Questions = append(q.Questions, remote.QuizQuestion{
			Position: i, Question: "q", QuestionType: "single_choice", GradingMode: "exact",
			Options: []remote.QuizAnswerOption{{Position: 0, Label: "right"}, {Position: 1, Label: "wrong"}},
		})
	}
	stored := m.AddQuizPuzzle(q)
	for _, qq := range stored.Questions {
		m.MarkCorrect(qq.Options[0].ID)
	}

	f := screenstest.New(t, m)
	if _, err := f.Services.Auth.SignIn(context.Background(), "user-1", ""); err != nil {
		t.Fatal(err)
	}
	s := NewDaily(f.Services)
	s.Update(screenstest.Run(s.load()))

	press(s, "space", "enter", "space", "enter")

	v := f.Services.Branching.Snapshot()
	if !v.IsCompleted || v.Result == nil || !v.Result.IsCorrect {
		t.Fatalf("snapshot = %+v", v)
	}
	if m.CallCount("SubmitQuizAttempt") != 1 {
		t.Errorf("submit calls = %d", m.CallCount("SubmitQuizAttempt"))
	}
	if hints := s.KeyHints(); hints[0].Key == "R" {
		t.Error("completed day should not offer a retry")
	}
}

func TestPracticeUnconfigured(t *testing.T) {
	f := screenstest.New(t, nil)
	s := NewPractice(f.Services, puzzle.Categories()[0])
	s.Update(screenstest.Run(s.load()))

	if f.Services.Branching.Snapshot().Puzzle != nil {
		t.Fatal("practice needs the remote store")
	}
	if !strings.Contains(s.View(80, 24), remote.ErrNotConfigured.Error()) {
		t.Error("view should explain why no puzzle loaded")
	}
	if !strings.HasPrefix(s.Title(), "Practice: ") {
		t.Errorf("title = %q", s.Title())
	}
}
