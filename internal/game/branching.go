package game

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/selection"
)

// Submission failures reported in SubmitErr.
const (
	MsgNoPuzzle       = "no puzzle loaded"
	MsgIncomplete     = "answer every round before submitting"
	MsgNotRemote      = "this puzzle is not from the remote store (cannot submit)"
	MsgSignInRequired = "sign in required to submit"
	MsgNoResult       = "no result returned"
	MsgCompleted      = "this puzzle has already been submitted"
	MsgSubmitting     = "a submission is already in progress"
)

// defaultRounds sizes the selection state before a puzzle is known.
const defaultRounds = 3

// BranchingGame is the multi-round multiple-choice variant. Grading is
// authoritative on the remote store; seed content can only be graded
// locally and is never recorded as a completion.
type BranchingGame struct {
	machine

	sel    *selection.Selector
	remote remote.Store
	auth   auth.Provider

	puzzle      *puzzle.BranchingPuzzle
	selections  [][]string
	isCompleted bool
	result      *puzzle.GradeResult
	submitting  bool
	submitErr   string
	practice    bool
}

// NewBranchingGame creates a branching game. store grades submissions and
// provider supplies the signed-in user.
func NewBranchingGame(sel *selection.Selector, store remote.Store, provider auth.Provider, opts ...Option) *BranchingGame {
	if store == nil {
		store = remote.Unconfigured{}
	}
	g := &BranchingGame{
		sel:        sel,
		remote:     store,
		auth:       provider,
		selections: make([][]string, defaultRounds),
	}
	g.machine.init("branching", opts)
	return g
}

func (g *BranchingGame) userID(ctx context.Context) string {
	if g.auth == nil {
		return ""
	}
	s, err := g.auth.Session(ctx)
	if err != nil {
		g.log.WithError(err).Debug("session lookup failed")
		return ""
	}
	if s == nil {
		return ""
	}
	return s.UserID
}

// LoadDaily loads the daily puzzle for dateKey, or today when dateKey is
// empty, falling back to the local puzzle when the remote has none. A
// signed-in user's earlier grade is restored.
func (g *BranchingGame) LoadDaily(ctx context.Context, dateKey string) {
	g.mu.Lock()
	explicit := dateKey != ""
	if !explicit {
		dateKey = g.today()
	}
	req := g.beginLoad(dateKey)
	g.resetPuzzle(nil)
	g.mu.Unlock()

	daily := g.sel.DailyOrFallback(ctx, g.userID(ctx), dateKey)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.settle(req) {
		return
	}
	if explicit {
		g.selected = dateKey
	}
	g.practice = false
	g.resetPuzzle(daily.Puzzle)
	g.err = daily.Err
	g.isCompleted = daily.IsCompleted
	g.result = daily.PriorResult
	g.phase = PhaseReady
	if g.isCompleted {
		g.phase = PhaseSubmitted
	}
}

// LoadPractice loads a random puzzle in category the user has not yet
// submitted. An exhausted category leaves no puzzle and no error.
func (g *BranchingGame) LoadPractice(ctx context.Context, category puzzle.Category) (exhausted bool) {
	g.mu.Lock()
	req := g.begin()
	g.phase = PhaseLoading
	g.err = ""
	g.resetPuzzle(nil)
	g.mu.Unlock()

	practice := g.sel.FetchPractice(ctx, g.userID(ctx), category)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.settle(req) {
		return false
	}
	g.practice = true
	g.resetPuzzle(practice.Puzzle)
	g.err = practice.Err
	g.phase = PhaseIdle
	if practice.Puzzle != nil {
		g.phase = PhaseReady
	}
	return practice.Exhausted
}

// resetPuzzle installs p with fresh per-round state. Callers hold mu.
func (g *BranchingGame) resetPuzzle(p *puzzle.BranchingPuzzle) {
	g.puzzle = p
	n := p.RoundCount()
	if p == nil {
		n = defaultRounds
	}
	g.selections = make([][]string, n)
	g.isCompleted = false
	g.result = nil
	g.submitting = false
	g.submitErr = ""
}

func multiSelect(r puzzle.Round) bool {
	return r.AllowMultiple || r.Type == puzzle.QuestionMultiChoice
}

// round validates an edit to round i. Callers hold mu.
func (g *BranchingGame) round(i int) (puzzle.Round, error) {
	if g.puzzle == nil {
		return puzzle.Round{}, errors.New(MsgNoPuzzle)
	}
	if g.isCompleted {
		return puzzle.Round{}, errors.New(MsgCompleted)
	}
	if g.submitting {
		return puzzle.Round{}, errors.New(MsgSubmitting)
	}
	if i < 0 || i >= len(g.puzzle.Rounds) {
		return puzzle.Round{}, fmt.Errorf("round %d out of range", i)
	}
	return g.puzzle.Rounds[i], nil
}

func hasOption(r puzzle.Round, key string) bool {
	return slices.ContainsFunc(r.Options, func(o puzzle.Option) bool { return o.Key == key })
}

// ToggleSelection selects key in round i. Single-select rounds replace the
// selection; multi-select rounds toggle key. Other rounds are untouched.
func (g *BranchingGame) ToggleSelection(i int, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, err := g.round(i)
	if err != nil {
		return err
	}
	if !hasOption(r, key) {
		return fmt.Errorf("unknown option %q in round %d", key, i)
	}

	cur := g.selections[i]
	switch {
	case !multiSelect(r):
		g.selections[i] = []string{key}
	case slices.Contains(cur, key):
		g.selections[i] = slices.DeleteFunc(slices.Clone(cur), func(k string) bool { return k == key })
	default:
		g.selections[i] = append(slices.Clone(cur), key)
	}
	g.inProgress()
	return nil
}

// SetSelection replaces the selection of round i. Duplicates are dropped.
func (g *BranchingGame) SetSelection(i int, keys []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, err := g.round(i)
	if err != nil {
		return err
	}
	var out []string
	for _, k := range keys {
		if !hasOption(r, k) {
			return fmt.Errorf("unknown option %q in round %d", k, i)
		}
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	if len(out) > 1 && !multiSelect(r) {
		return fmt.Errorf("round %d accepts a single option", i)
	}
	g.selections[i] = out
	g.inProgress()
	return nil
}

// inProgress moves a ready game into progress. Callers hold mu.
func (g *BranchingGame) inProgress() {
	if g.phase == PhaseReady {
		g.phase = PhaseInProgress
	}
}

func (g *BranchingGame) answered() bool {
	for _, s := range g.selections {
		if len(s) == 0 {
			return false
		}
	}
	return len(g.selections) > 0
}

// SubmitAttempt sends the selections for remote grading. Every check runs
// before the network call; failures land in SubmitErr only. A call made
// while another submission is in flight does nothing.
func (g *BranchingGame) SubmitAttempt(ctx context.Context) {
	userID := g.userID(ctx)

	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		g.log.Debug("submission already in flight")
		return
	}
	switch {
	case g.puzzle == nil:
		g.submitErr = MsgNoPuzzle
	case g.isCompleted:
		g.submitErr = MsgCompleted
	case !g.answered():
		g.submitErr = MsgIncomplete
	case !remote.Configured(g.remote):
		g.submitErr = remote.ErrNotConfigured.Error()
	case !g.puzzle.IsRemote():
		g.submitErr = MsgNotRemote
	case userID == "":
		g.submitErr = MsgSignInRequired
	default:
		g.submitErr = ""
	}
	if g.submitErr != "" {
		g.mu.Unlock()
		return
	}

	puzzleID := g.puzzle.ID
	answers := make([]remote.Answer, len(g.puzzle.Rounds))
	for i, r := range g.puzzle.Rounds {
		answers[i] = remote.Answer{QuestionID: r.ID, OptionIDs: slices.Clone(g.selections[i])}
	}
	req := g.begin()
	g.submitting = true
	g.mu.Unlock()

	log := g.log.WithField("puzzle", puzzleID).WithField("user", userID)
	row, err := g.remote.SubmitQuizAttempt(ctx, userID, puzzleID, answers)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.settle(req) {
		return
	}
	g.submitting = false
	switch {
	case errors.Is(err, remote.ErrNotFound):
		g.submitErr = MsgNoResult
		return
	case err != nil:
		log.WithError(err).Warn("submit failed")
		g.submitErr = err.Error()
		return
	}

	g.isCompleted = true
	g.result = &puzzle.GradeResult{
		AttemptID:     row.AttemptID,
		Score:         row.Score,
		CorrectCount:  row.CorrectCount,
		QuestionCount: row.QuestionCount,
		IsCorrect:     row.IsCorrect,
	}
	g.phase = PhaseSubmitted
	log.WithField("score", row.Score).Info("attempt graded")
}

// GradeLocally grades puzzles that carry their own answers. The result is
// shown but the day is not marked completed.
func (g *BranchingGame) GradeLocally() (puzzle.GradeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.puzzle == nil {
		return puzzle.GradeResult{}, errors.New(MsgNoPuzzle)
	}
	if g.submitting {
		return puzzle.GradeResult{}, errors.New(MsgSubmitting)
	}
	if !g.answered() {
		return puzzle.GradeResult{}, errors.New(MsgIncomplete)
	}
	res, err := puzzle.GradeLocal(g.puzzle, g.selections)
	if err != nil {
		return puzzle.GradeResult{}, err
	}
	g.result = &res
	g.phase = PhaseSubmitted
	return res, nil
}

// ResetFlow clears selections and errors. A remotely completed day keeps
// its completion and result, and an in-flight submission is left to
// finish.
func (g *BranchingGame) ResetFlow() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.submitting {
		return
	}
	g.selections = make([][]string, len(g.selections))
	g.err = ""
	g.submitErr = ""
	if g.isCompleted {
		return
	}
	g.result = nil
	if g.puzzle != nil {
		g.phase = PhaseReady
	}
}

// BranchingView is an immutable snapshot of a branching game.
type BranchingView struct {
	Phase        Phase
	DateKey      string
	SelectedDate string
	Loading      bool
	Err          string

	Puzzle      *puzzle.BranchingPuzzle
	Selections  [][]string
	IsCompleted bool
	Result      *puzzle.GradeResult
	Submitting  bool
	SubmitErr   string
	Practice    bool
	CanSubmit   bool
}

// Snapshot returns the current state for presentation.
func (g *BranchingGame) Snapshot() BranchingView {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := g.view()
	v := BranchingView{
		Phase:        b.Phase,
		DateKey:      b.DateKey,
		SelectedDate: b.SelectedDate,
		Loading:      b.Loading,
		Err:          b.Err,
		Puzzle:       g.puzzle,
		Selections:   make([][]string, len(g.selections)),
		IsCompleted:  g.isCompleted,
		Submitting:   g.submitting,
		SubmitErr:    g.submitErr,
		Practice:     g.practice,
		CanSubmit:    g.puzzle != nil && !g.isCompleted && !g.submitting && g.answered(),
	}
	for i, s := range g.selections {
		v.Selections[i] = slices.Clone(s)
	}
	if g.result != nil {
		r := *g.result
		v.Result = &r
	}
	return v
}
