// Package selection resolves which puzzle to play: the daily branching
// puzzle, a practice puzzle by category, or the tone puzzle list, with the
// local fallback when the remote store has nothing.
package selection

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
)

// DefaultPageSize bounds the practice candidate fetch.
const DefaultPageSize = 25

// Messages carried in selection errors.
const (
	MsgAuthRequired    = "auth required"
	MsgUnknownCategory = "unknown category"
	MsgNoDailyPuzzle   = "no daily puzzle available for this date"
)

// DailySelection is the outcome of a daily fetch. Failures are reported in
// Err next to whatever could be resolved.
type DailySelection struct {
	Puzzle      *puzzle.BranchingPuzzle
	IsCompleted bool
	PriorResult *puzzle.GradeResult
	Err         string
}

// PracticeSelection is the outcome of a practice fetch. Exhausted is an
// empty state, not an error.
type PracticeSelection struct {
	Puzzle    *puzzle.BranchingPuzzle
	Exhausted bool
	Err       string
}

// Selector queries the remote store.
type Selector struct {
	remote   remote.Store
	log      logrus.FieldLogger
	pageSize int
	rand     func(n int) int
	now      func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithPageSize overrides the practice page size.
func WithPageSize(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRand overrides the practice pick. f returns a value in [0, n).
func WithRand(f func(n int) int) Option {
	return func(s *Selector) { s.rand = f }
}

// WithClock overrides the clock used to anchor seed content.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) { s.now = now }
}

// New creates a Selector. A nil store is treated as unconfigured.
func New(store remote.Store, log logrus.FieldLogger, opts ...Option) *Selector {
	if store == nil {
		store = remote.Unconfigured{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Selector{
		remote:   store,
		log:      log,
		pageSize: DefaultPageSize,
		rand:     rand.IntN,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Configured reports whether a remote store is available.
func (s *Selector) Configured() bool {
	return remote.Configured(s.remote)
}

// FetchDaily returns the active branching puzzle for dateKey. With a
// userID it also reports whether that user already submitted it and the
// stored grade.
func (s *Selector) FetchDaily(ctx context.Context, userID, dateKey string) DailySelection {
	log := s.log.WithField("date", dateKey)

	row, err := s.remote.QuizPuzzleByDate(ctx, dateKey)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return DailySelection{}
	case err != nil:
		log.WithError(err).Debug("daily fetch failed")
		return DailySelection{Err: err.Error()}
	}

	p := MapQuizPuzzle(row)
	if userID == "" {
		return DailySelection{Puzzle: p}
	}

	attempt, err := s.remote.QuizAttempt(ctx, userID, p.ID)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return DailySelection{Puzzle: p}
	case err != nil:
		log.WithError(err).WithField("user", userID).Warn("completion lookup failed")
		return DailySelection{Puzzle: p, Err: err.Error()}
	}

	qc := attempt.QuestionCount
	if qc == 0 {
		qc = p.RoundCount()
	}
	return DailySelection{
		Puzzle:      p,
		IsCompleted: true,
		PriorResult: &puzzle.GradeResult{
			AttemptID:     attempt.ID.String(),
			Score:         attempt.Score,
			CorrectCount:  attempt.CorrectCount,
			QuestionCount: qc,
			IsCorrect:     attempt.IsCorrect,
		},
	}
}

// DailyOrFallback runs FetchDaily and substitutes the fixed local puzzle
// when the store is unconfigured, failing, or has nothing for dateKey. The
// fetch error, if any, is kept in Err.
func (s *Selector) DailyOrFallback(ctx context.Context, userID, dateKey string) DailySelection {
	sel := s.FetchDaily(ctx, userID, dateKey)
	if sel.Puzzle != nil {
		return sel
	}
	if sel.Err == "" && s.Configured() {
		sel.Err = MsgNoDailyPuzzle
	}
	sel.Puzzle = puzzle.FallbackBranching(dateKey)
	sel.IsCompleted = false
	sel.PriorResult = nil
	return sel
}

// FetchPractice picks a random not-yet-completed puzzle in category from
// the newest page of candidates.
func (s *Selector) FetchPractice(ctx context.Context, userID string, category puzzle.Category) PracticeSelection {
	if !s.Configured() {
		return PracticeSelection{Err: remote.ErrNotConfigured.Error()}
	}
	if userID == "" {
		return PracticeSelection{Err: MsgAuthRequired}
	}

	log := s.log.WithFields(logrus.Fields{"user": userID, "category": category})

	catID, err := s.remote.CategoryID(ctx, string(category))
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return PracticeSelection{Exhausted: true, Err: MsgUnknownCategory}
	case err != nil:
		return PracticeSelection{Err: err.Error()}
	}

	done, err := s.remote.CompletedQuizIDs(ctx, userID)
	if err != nil {
		return PracticeSelection{Err: err.Error()}
	}

	rows, err := s.remote.PracticeCandidates(ctx, catID, done, s.pageSize)
	if err != nil {
		log.WithError(err).Debug("practice fetch failed")
		return PracticeSelection{Err: err.Error()}
	}
	if len(rows) == 0 {
		return PracticeSelection{Exhausted: true}
	}

	pick := rows[s.rand(len(rows))]
	p := MapQuizPuzzle(&pick)
	p.IsDaily = false
	return PracticeSelection{Puzzle: p}
}

// FetchTonePuzzles returns the active tone puzzles ordered by date. When
// the store is unconfigured, failing or empty it returns the bundled seed
// puzzles anchored at today, along with the error text if there was one.
func (s *Selector) FetchTonePuzzles(ctx context.Context) ([]puzzle.TonePuzzle, string) {
	rows, err := s.remote.TonePuzzles(ctx)
	if err == nil && len(rows) > 0 {
		out := make([]puzzle.TonePuzzle, 0, len(rows))
		for _, r := range rows {
			out = append(out, MapTonePuzzle(r))
		}
		return out, ""
	}

	msg := ""
	if err != nil && !errors.Is(err, remote.ErrNotConfigured) {
		s.log.WithError(err).Warn("tone puzzle fetch failed, using seeds")
		msg = err.Error()
	}
	return puzzle.SeedTonePuzzles(puzzle.DateKey(s.now())), msg
}
