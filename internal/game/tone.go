package game

import (
	"context"

	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/selection"
	"github.com/abhisek/emoiq/internal/stats"
	"github.com/abhisek/emoiq/internal/tone"
)

// ToneGame is the tone-slider variant: one guess vector per attempt, graded
// locally, with history persisted per date through the ledger.
type ToneGame struct {
	machine

	sel    *selection.Selector
	ledger *progress.Ledger
	rules  tone.Rules

	puzzles []puzzle.TonePuzzle
	index   int
	puzzle  *puzzle.TonePuzzle
	guess   tone.Vector
	record  progress.Record
}

// NewToneGame creates a tone game. Puzzles come from sel and history from
// ledger.
func NewToneGame(sel *selection.Selector, ledger *progress.Ledger, rules tone.Rules, opts ...Option) *ToneGame {
	g := &ToneGame{
		sel:    sel,
		ledger: ledger,
		rules:  rules,
		guess:  tone.Neutral(),
		index:  -1,
	}
	g.machine.init("tone", opts)
	return g
}

// LoadDaily loads the puzzle for dateKey, or today when dateKey is empty.
// When no puzzle matches the date, the last puzzle in the list is used.
func (g *ToneGame) LoadDaily(ctx context.Context, dateKey string) {
	g.mu.Lock()
	explicit := dateKey != ""
	if !explicit {
		dateKey = g.today()
	}
	req := g.beginLoad(dateKey)
	g.puzzle = nil
	g.index = -1
	g.guess = tone.Neutral()
	g.record = progress.Record{Status: progress.NotStarted}
	needLedger := !g.ledger.Loaded()
	g.mu.Unlock()

	puzzles, errMsg := g.sel.FetchTonePuzzles(ctx)
	if needLedger {
		g.ledger.Load(ctx)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.settle(req) {
		return
	}
	if explicit {
		g.selected = dateKey
	}
	g.puzzles = puzzles
	g.err = errMsg
	g.applyIndex(indexFor(puzzles, dateKey))
}

func indexFor(puzzles []puzzle.TonePuzzle, dateKey string) int {
	for i, p := range puzzles {
		if p.Date == dateKey {
			return i
		}
	}
	return len(puzzles) - 1
}

// applyIndex makes puzzles[i] current and restores its history. Callers
// hold mu.
func (g *ToneGame) applyIndex(i int) {
	g.index = i
	g.guess = tone.Neutral()
	if i < 0 || i >= len(g.puzzles) {
		g.puzzle = nil
		g.record = progress.Record{Status: progress.NotStarted}
		g.phase = PhaseIdle
		return
	}

	p := g.puzzles[i]
	g.puzzle = &p
	g.record, _ = g.ledger.Get(p.Date)
	g.phase = phaseFor(g.record.Status)
}

func phaseFor(s progress.Status) Phase {
	switch s {
	case progress.InProgress:
		return PhaseInProgress
	case progress.Won:
		return PhaseWon
	case progress.Lost:
		return PhaseLost
	default:
		return PhaseReady
	}
}

// SetTone sets one slider, clamped to [0,100].
func (g *ToneGame) SetTone(t tone.Tone, value int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guess = g.guess.With(t, tone.Clamp100(value))
}

// SetGuess replaces the whole guess, clamped to [0,100].
func (g *ToneGame) SetGuess(v tone.Vector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guess = v.Clamped()
}

// SubmitGuess grades the current guess and records it. It returns nil
// without recording while a load is pending, when there is no puzzle, when
// the cap is reached, or when the day is already won or lost.
func (g *ToneGame) SubmitGuess(ctx context.Context) *progress.Attempt {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loading || g.puzzle == nil || g.record.Status.Terminal() || len(g.record.Attempts) >= g.rules.MaxAttempts {
		return nil
	}

	guess := g.guess.Clamped()
	score := g.rules.Grade(guess, g.puzzle.Target)
	attempt := progress.Attempt{
		Guess:     guess,
		Resonance: score.Resonance,
		Hints:     score.Hints,
		CreatedAt: g.now().UTC(),
	}

	rec := g.record.Clone()
	rec.Attempts = append(rec.Attempts, attempt)
	rec.Status = progress.StatusAfter(score.Solved, len(rec.Attempts), g.rules.MaxAttempts)
	g.record = rec
	g.phase = phaseFor(rec.Status)

	g.log.WithField("date", g.puzzle.Date).
		WithField("attempt", len(rec.Attempts)).
		WithField("resonance", score.Resonance).
		Debug("guess recorded")

	// Write-through never fails; the ledger logs storage errors.
	g.ledger.Put(ctx, g.puzzle.Date, rec)

	out := attempt
	return &out
}

// ResetFlow resets the in-progress guess and error. Recorded history is
// kept.
func (g *ToneGame) ResetFlow() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guess = tone.Neutral()
	g.err = ""
}

// ToneView is an immutable snapshot of a tone game.
type ToneView struct {
	Phase        Phase
	DateKey      string
	SelectedDate string
	Loading      bool
	Err          string

	Puzzle       *puzzle.TonePuzzle
	Guess        tone.Vector
	Attempts     []progress.Attempt
	Status       progress.Status
	AttemptsLeft int
	MaxAttempts  int
}

// Snapshot returns the current state for presentation.
func (g *ToneGame) Snapshot() ToneView {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := g.view()
	v := ToneView{
		Phase:        b.Phase,
		DateKey:      b.DateKey,
		SelectedDate: b.SelectedDate,
		Loading:      b.Loading,
		Err:          b.Err,
		Guess:        g.guess,
		Attempts:     g.record.Clone().Attempts,
		Status:       g.record.Status,
		MaxAttempts:  g.rules.MaxAttempts,
	}
	if v.Status == "" {
		v.Status = progress.NotStarted
	}
	if g.puzzle != nil {
		p := *g.puzzle
		v.Puzzle = &p
		v.DateKey = p.Date
	}
	if left := g.rules.MaxAttempts - len(v.Attempts); left > 0 && !v.Status.Terminal() {
		v.AttemptsLeft = left
	}
	return v
}

// Rules returns the scoring rules in use.
func (g *ToneGame) Rules() tone.Rules {
	return g.rules
}

// ShareText renders the shareable result for the loaded day. It is empty
// when no puzzle is loaded.
func (g *ToneGame) ShareText() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.puzzle == nil {
		return ""
	}
	return stats.ShareText(g.puzzle.Date, g.record, g.puzzle.Target, g.rules)
}
