// Package screens wires the game services into the terminal screens. Each
// screen lives in its own subpackage and receives *Services.
package screens

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/entitlements"
	"github.com/abhisek/emoiq/internal/game"
	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/settings"
	"github.com/abhisek/emoiq/internal/stats"
	"github.com/abhisek/emoiq/internal/tone"
)

// Services is everything a screen may touch.
type Services struct {
	Tone         *game.ToneGame
	Branching    *game.BranchingGame
	Ledger       *progress.Ledger
	Rules        tone.Rules
	Auth         *auth.Hub
	Settings     *settings.Manager
	Entitlements *entitlements.Manager
	Log          logrus.FieldLogger
	Now          func() time.Time
}

func (s *Services) Today() string {
	if s.Now == nil {
		return puzzle.DateKey(time.Now())
	}
	return puzzle.DateKey(s.Now())
}

// Stats derives the player's stats from the ledger.
func (s *Services) Stats() stats.Stats {
	return stats.Compute(s.Ledger.All(), s.Today(), s.Rules.MaxAttempts)
}

// ReduceMotion reports whether animations should be skipped.
func (s *Services) ReduceMotion() bool {
	return s.Settings != nil && s.Settings.Get().ReduceMotion
}

// Day stepping is only compiled into development builds.
type toneStepper interface {
	AdvanceDay(ctx context.Context, delta int)
}

type branchingStepper interface {
	AdvanceDay(ctx context.Context, delta int) error
}

// StepTone moves the tone game by delta days. It reports false in
// release builds, where day stepping is compiled out.
func (s *Services) StepTone(ctx context.Context, delta int) bool {
	st, ok := any(s.Tone).(toneStepper)
	if ok {
		st.AdvanceDay(ctx, delta)
	}
	return ok
}

// StepBranching is StepTone for the branching game.
func (s *Services) StepBranching(ctx context.Context, delta int) (bool, error) {
	st, ok := any(s.Branching).(branchingStepper)
	if !ok {
		return false, nil
	}
	return true, st.AdvanceDay(ctx, delta)
}
