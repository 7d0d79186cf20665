package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/selection"
	"github.com/abhisek/emoiq/internal/store"
)

// quiz builds a remote puzzle for date with the given number of two-option
// rounds. The first option of each round is correct.
func quiz(t *testing.T, m *remote.Memory, date string, rounds int) remote.QuizPuzzle {
	t.Helper()
	d, err := puzzle.ParseDateKey(date)
	require.NoError(t, err)

	q := remote.QuizPuzzle{PuzzleDate: &d, Context: "context " + date, Message: "message " + date, IsActive: true}
	for i := 0; i < rounds; i++ {
		q.Questions = append(q.Questions, remote.QuizQuestion{
			Position:     i,
			Question:     fmt.Sprintf("question %d", i+1),
			QuestionType: "single_choice",
			GradingMode:  "exact",
			Options: []remote.QuizAnswerOption{
				{Position: 0, Label: "right"},
				{Position: 1, Label: "wrong"},
			},
		})
	}
	stored := m.AddQuizPuzzle(q)
	for _, qq := range stored.Questions {
		m.MarkCorrect(qq.Options[0].ID)
	}
	return stored
}

type fixture struct {
	game   *BranchingGame
	remote *remote.Memory
	hub    *auth.Hub
	logs   *logtest.Hook
}

func newBranching(t *testing.T, rs remote.Store) fixture {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	hub := auth.NewHub(context.Background(), store.NewMemoryKV(), log)
	sel := selection.New(rs, log)
	g := NewBranchingGame(sel, rs, hub, WithClock(fixedClock("2024-01-01")), WithLogger(log))

	f := fixture{game: g, hub: hub, logs: hook}
	if m, ok := rs.(*remote.Memory); ok {
		f.remote = m
	}
	return f
}

func (f fixture) answerAll(t *testing.T, pick int) {
	t.Helper()
	v := f.game.Snapshot()
	for i, r := range v.Puzzle.Rounds {
		require.NoError(t, f.game.ToggleSelection(i, r.Options[pick].Key))
	}
}

func TestBranchingGame_UnconfiguredUsesFallback(t *testing.T) {
	f := newBranching(t, nil)
	f.game.LoadDaily(context.Background(), "")

	v := f.game.Snapshot()
	require.NotNil(t, v.Puzzle)
	assert.Equal(t, "seed-dating-standup", v.Puzzle.ID)
	assert.Equal(t, "2024-01-01", v.Puzzle.DailyDate)
	assert.Equal(t, remote.ErrNotConfigured.Error(), v.Err)
	assert.Equal(t, PhaseReady, v.Phase)
	assert.Len(t, v.Selections, 3)
	assert.False(t, v.IsCompleted)
	assert.Nil(t, v.Result)
}

func TestBranchingGame_SubmitValidation(t *testing.T) {
	t.Run("no puzzle", func(t *testing.T) {
		f := newBranching(t, nil)
		f.game.SubmitAttempt(context.Background())
		assert.Equal(t, MsgNoPuzzle, f.game.Snapshot().SubmitErr)
	})

	t.Run("unanswered round", func(t *testing.T) {
		m := remote.NewMemory()
		quiz(t, m, "2024-01-01", 2)
		f := newBranching(t, m)
		_, err := f.hub.SignIn(context.Background(), "user-1", "")
		require.NoError(t, err)
		f.game.LoadDaily(context.Background(), "")

		v := f.game.Snapshot()
		require.NoError(t, f.game.ToggleSelection(0, v.Puzzle.Rounds[0].Options[0].Key))
		f.game.SubmitAttempt(context.Background())

		assert.Equal(t, MsgIncomplete, f.game.Snapshot().SubmitErr)
		assert.Zero(t, m.CallCount("SubmitQuizAttempt"))
	})

	t.Run("unconfigured store", func(t *testing.T) {
		f := newBranching(t, nil)
		f.game.LoadDaily(context.Background(), "")
		f.answerAll(t, 0)
		f.game.SubmitAttempt(context.Background())
		assert.Equal(t, "remote store not configured", f.game.Snapshot().SubmitErr)
	})

	t.Run("local puzzle", func(t *testing.T) {
		m := remote.NewMemory()
		f := newBranching(t, m)
		f.game.LoadDaily(context.Background(), "")
		assert.Equal(t, selection.MsgNoDailyPuzzle, f.game.Snapshot().Err)

		f.answerAll(t, 0)
		f.game.SubmitAttempt(context.Background())
		assert.Equal(t, MsgNotRemote, f.game.Snapshot().SubmitErr)
		assert.Zero(t, m.CallCount("SubmitQuizAttempt"))
	})

	t.Run("signed out", func(t *testing.T) {
		m := remote.NewMemory()
		quiz(t, m, "2024-01-01", 2)
		f := newBranching(t, m)
		f.game.LoadDaily(context.Background(), "")
		f.answerAll(t, 0)
		f.game.SubmitAttempt(context.Background())
		assert.Equal(t, MsgSignInRequired, f.game.Snapshot().SubmitErr)
		assert.Zero(t, m.CallCount("SubmitQuizAttempt"))
	})
}

func TestBranchingGame_SubmitAttempt(t *testing.T) {
	m := remote.NewMemory()
	stored := quiz(t, m, "2024-01-01", 3)
	f := newBranching(t, m)
	_, err := f.hub.SignIn(context.Background(), "user-1", "a@example.com")
	require.NoError(t, err)

	f.game.LoadDaily(context.Background(), "")
	v := f.game.Snapshot()
	assert.Equal(t, stored.ID.String(), v.Puzzle.ID)
	assert.Empty(t, v.Err)

	f.answerAll(t, 0)
	require.NoError(t, f.game.SetSelection(2, []string{v.Puzzle.Rounds[2].Options[1].Key}))
	assert.True(t, f.game.Snapshot().CanSubmit)

	f.game.SubmitAttempt(context.Background())
	v = f.game.Snapshot()
	require.NotNil(t, v.Result)
	assert.Empty(t, v.SubmitErr)
	assert.True(t, v.IsCompleted)
	assert.Equal(t, PhaseSubmitted, v.Phase)
	assert.Equal(t, 67, v.Result.Score)
	assert.Equal(t, 2, v.Result.CorrectCount)
	assert.Equal(t, 3, v.Result.QuestionCount)
	assert.False(t, v.Result.IsCorrect)
	assert.NotEmpty(t, v.Result.AttemptID)
	assert.False(t, v.CanSubmit)

	// A completed day rejects edits and resubmission.
	assert.Error(t, f.game.ToggleSelection(0, v.Puzzle.Rounds[0].Options[1].Key))
	f.game.SubmitAttempt(context.Background())
	assert.Equal(t, MsgCompleted, f.game.Snapshot().SubmitErr)
	assert.Equal(t, 1, m.CallCount("SubmitQuizAttempt"))

	// Reloading restores the stored grade.
	again := newBranching(t, m)
	_, err = again.hub.SignIn(context.Background(), "user-1", "")
	require.NoError(t, err)
	again.game.LoadDaily(context.Background(), "2024-01-01")
	rv := again.game.Snapshot()
	assert.True(t, rv.IsCompleted)
	assert.Equal(t, PhaseSubmitted, rv.Phase)
	require.NotNil(t, rv.Result)
	assert.Equal(t, 67, rv.Result.Score)
}

func TestBranchingGame_SubmitFailureOnlySetsSubmitErr(t *testing.T) {
	m := remote.NewMemory()
	quiz(t, m, "2024-01-01", 1)
	f := newBranching(t, m)
	_, err := f.hub.SignIn(context.Background(), "user-1", "")
	require.NoError(t, err)
	f.game.LoadDaily(context.Background(), "")
	f.answerAll(t, 0)

	m.SetFail(errors.New("connection reset"))
	f.game.SubmitAttempt(context.Background())

	v := f.game.Snapshot()
	assert.Equal(t, "connection reset", v.SubmitErr)
	assert.Empty(t, v.Err)
	assert.False(t, v.IsCompleted)
	assert.False(t, v.Submitting)
	assert.False(t, v.Loading)
	assert.Nil(t, v.Result)
	assert.Equal(t, logrus.WarnLevel, f.logs.LastEntry().Level)
}

func TestBranchingGame_SelectionResetOnDateChange(t *testing.T) {
	m := remote.NewMemory()
	quiz(t, m, "2024-01-01", 3)
	quiz(t, m, "2024-01-02", 2)
	f := newBranching(t, m)

	f.game.LoadDaily(context.Background(), "2024-01-01")
	f.answerAll(t, 0)
	v := f.game.Snapshot()
	for _, s := range v.Selections {
		assert.Len(t, s, 1)
	}

	f.game.LoadDaily(context.Background(), "2024-01-02")
	v = f.game.Snapshot()
	assert.Equal(t, "2024-01-02", v.Puzzle.DailyDate)
	assert.Equal(t, [][]string{nil, nil}, v.Selections)
	assert.Nil(t, v.Result)
	assert.False(t, v.IsCompleted)
	assert.Empty(t, v.SubmitErr)
}

func TestBranchingGame_ToggleSelection(t *testing.T) {
	f := newBranching(t, nil)
	f.game.LoadDaily(context.Background(), "")
	rounds := f.game.Snapshot().Puzzle.Rounds

	require.NoError(t, f.game.ToggleSelection(1, rounds[1].Options[0].Key))
	require.NoError(t, f.game.ToggleSelection(1, rounds[1].Options[2].Key))

	v := f.game.Snapshot()
	assert.Equal(t, []string{rounds[1].Options[2].Key}, v.Selections[1])
	assert.Empty(t, v.Selections[0])
	assert.Empty(t, v.Selections[2])
	assert.Equal(t, PhaseInProgress, v.Phase)

	assert.Error(t, f.game.ToggleSelection(3, rounds[0].Options[0].Key))
	assert.Error(t, f.game.ToggleSelection(0, "nope"))
	assert.Error(t, f.game.SetSelection(0, []string{rounds[0].Options[0].Key, rounds[0].Options[1].Key}))
}

func TestBranchingGame_MultiSelectToggles(t *testing.T) {
	m := remote.NewMemory()
	d, err := puzzle.ParseDateKey("2024-01-01")
	require.NoError(t, err)
	m.AddQuizPuzzle(remote.QuizPuzzle{
		PuzzleDate: &d, Context: "c", Message: "m", IsActive: true,
		Questions: []remote.QuizQuestion{{
			Question: "Which apply?", QuestionType: "multi_choice", AllowMultiple: true,
			GradingMode: "any_correct_without_false",
			Options: []remote.QuizAnswerOption{
				{Position: 0, Label: "a"}, {Position: 1, Label: "b"}, {Position: 2, Label: "c"},
			},
		}},
	})
	f := newBranching(t, m)
	f.game.LoadDaily(context.Background(), "")
	opts := f.game.Snapshot().Puzzle.Rounds[0].Options

	require.NoError(t, f.game.ToggleSelection(0, opts[0].Key))
	require.NoError(t, f.game.ToggleSelection(0, opts[2].Key))
	assert.Equal(t, []string{opts[0].Key, opts[2].Key}, f.game.Snapshot().Selections[0])

	require.NoError(t, f.game.ToggleSelection(0, opts[0].Key))
	assert.Equal(t, []string{opts[2].Key}, f.game.Snapshot().Selections[0])

	require.NoError(t, f.game.SetSelection(0, []string{opts[1].Key, opts[1].Key, opts[0].Key}))
	assert.Equal(t, []string{opts[1].Key, opts[0].Key}, f.game.Snapshot().Selections[0])
}

func TestBranchingGame_GradeLocally(t *testing.T) {
	f := newBranching(t, nil)
	f.game.LoadDaily(context.Background(), "")

	_, err := f.game.GradeLocally()
	assert.Error(t, err)

	for i, key := range []string{"hurt_underneath", "at_you", "sincere_apology"} {
		require.NoError(t, f.game.ToggleSelection(i, key))
	}
	res, err := f.game.GradeLocally()
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.IsCorrect)
	assert.Empty(t, res.AttemptID)

	v := f.game.Snapshot()
	assert.False(t, v.IsCompleted)
	assert.Equal(t, PhaseSubmitted, v.Phase)
	require.NotNil(t, v.Result)

	f.game.ResetFlow()
	v = f.game.Snapshot()
	assert.Nil(t, v.Result)
	assert.Equal(t, PhaseReady, v.Phase)
	assert.Equal(t, [][]string{nil, nil, nil}, v.Selections)
}

func TestBranchingGame_ResetFlowKeepsRemoteCompletion(t *testing.T) {
	m := remote.NewMemory()
	quiz(t, m, "2024-01-01", 1)
	f := newBranching(t, m)
	_, err := f.hub.SignIn(context.Background(), "user-1", "")
	require.NoError(t, err)
	f.game.LoadDaily(context.Background(), "")
	f.answerAll(t, 0)
	f.game.SubmitAttempt(context.Background())

	f.game.ResetFlow()
	v := f.game.Snapshot()
	assert.True(t, v.IsCompleted)
	require.NotNil(t, v.Result)
	assert.Equal(t, 100, v.Result.Score)
	assert.Equal(t, PhaseSubmitted, v.Phase)
}

// gatedStore blocks daily fetches for gated dates until released.
type gatedStore struct {
	*remote.Memory

	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func (s *gatedStore) QuizPuzzleByDate(ctx context.Context, date string) (*remote.QuizPuzzle, error) {
	s.mu.Lock()
	gate := s.gates[date]
	s.mu.Unlock()
	if gate != nil {
		s.started <- date
		<-gate
	}
	return s.Memory.QuizPuzzleByDate(ctx, date)
}

func TestBranchingGame_StaleLoadIsDropped(t *testing.T) {
	m := remote.NewMemory()
	quiz(t, m, "2024-01-01", 3)
	quiz(t, m, "2024-01-02", 2)
	gs := &gatedStore{
		Memory:  m,
		gates:   map[string]chan struct{}{"2024-01-01": make(chan struct{})},
		started: make(chan string, 1),
	}
	f := newBranching(t, gs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.game.LoadDaily(context.Background(), "2024-01-01")
	}()
	assert.Equal(t, "2024-01-01", <-gs.started)
	assert.True(t, f.game.Snapshot().Loading)

	f.game.LoadDaily(context.Background(), "2024-01-02")
	assert.Equal(t, "2024-01-02", f.game.Snapshot().Puzzle.DailyDate)

	close(gs.gates["2024-01-01"])
	<-done

	v := f.game.Snapshot()
	require.NotNil(t, v.Puzzle)
	assert.Equal(t, "2024-01-02", v.Puzzle.DailyDate)
	assert.Equal(t, "2024-01-02", v.DateKey)
	assert.Len(t, v.Selections, 2)
	assert.False(t, v.Loading)
}

func TestBranchingGame_LoadPractice(t *testing.T) {
	m := remote.NewMemory()
	cat := m.AddCategory("Workplace Politics")
	m.AddQuizPuzzle(remote.QuizPuzzle{
		Context: "c", Message: "m", IsActive: true, CategoryID: &cat,
		Questions: []remote.QuizQuestion{{
			Question: "Is it a threat?", QuestionType: "yes_no", GradingMode: "exact",
			Options: []remote.QuizAnswerOption{{Position: 0, Label: "Yes"}, {Position: 1, Label: "No"}},
		}},
	})
	f := newBranching(t, m)

	assert.False(t, f.game.LoadPractice(context.Background(), "Workplace Politics"))
	assert.Equal(t, selection.MsgAuthRequired, f.game.Snapshot().Err)

	_, err := f.hub.SignIn(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.False(t, f.game.LoadPractice(context.Background(), "Workplace Politics"))
	v := f.game.Snapshot()
	require.NotNil(t, v.Puzzle)
	assert.True(t, v.Practice)
	assert.False(t, v.Puzzle.IsDaily)
	assert.Equal(t, PhaseReady, v.Phase)

	f.answerAll(t, 0)
	f.game.SubmitAttempt(context.Background())
	require.True(t, f.game.Snapshot().IsCompleted)

	assert.True(t, f.game.LoadPractice(context.Background(), "Workplace Politics"))
	v = f.game.Snapshot()
	assert.Nil(t, v.Puzzle)
	assert.Empty(t, v.Err)
	assert.Equal(t, PhaseIdle, v.Phase)
}

// heldSubmitStore blocks grading until release is closed.
type heldSubmitStore struct {
	*remote.Memory

	started chan struct{}
	release chan struct{}
}

func (s *heldSubmitStore) SubmitQuizAttempt(ctx context.Context, userID, puzzleID string, answers []remote.Answer) (*remote.GradeRow, error) {
	s.started <- struct{}{}
	<-s.release
	return s.Memory.SubmitQuizAttempt(ctx, userID, puzzleID, answers)
}

func TestBranchingGame_SubmitInFlight(t *testing.T) {
	m := remote.NewMemory()
	quiz(t, m, "2024-01-01", 2)
	hs := &heldSubmitStore{Memory: m, started: make(chan struct{}, 2), release: make(chan struct{})}
	f := newBranching(t, hs)
	_, err := f.hub.SignIn(context.Background(), "user-1", "")
	require.NoError(t, err)

	f.game.LoadDaily(context.Background(), "")
	f.answerAll(t, 0)
	v := f.game.Snapshot()

	done := make(chan struct{})
	go func() {
		f.game.SubmitAttempt(context.Background())
		close(done)
	}()
	<-hs.started

	in := f.game.Snapshot()
	assert.True(t, in.Submitting)
	assert.False(t, in.CanSubmit)

	// A second submit returns at once without a second grading call.
	f.game.SubmitAttempt(context.Background())
	assert.Empty(t, f.game.Snapshot().SubmitErr)

	assert.EqualError(t, f.game.ToggleSelection(0, v.Puzzle.Rounds[0].Options[1].Key), MsgSubmitting)
	assert.EqualError(t, f.game.SetSelection(1, []string{v.Puzzle.Rounds[1].Options[1].Key}), MsgSubmitting)
	f.game.ResetFlow()
	assert.Equal(t, v.Selections, f.game.Snapshot().Selections)

	close(hs.release)
	<-done

	out := f.game.Snapshot()
	assert.Equal(t, 1, m.CallCount("SubmitQuizAttempt"))
	assert.True(t, out.IsCompleted)
	assert.Empty(t, out.SubmitErr)
	require.NotNil(t, out.Result)
	assert.Equal(t, 100, out.Result.Score)
	assert.False(t, out.Submitting)
}
