//go:build !release

package game

import (
	"context"

	"github.com/abhisek/emoiq/internal/puzzle"
)

// AdvanceDay moves by delta puzzles within the loaded list, clamped to its
// ends, and restores that day's history. Dev builds only.
func (g *ToneGame) AdvanceDay(_ context.Context, delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.puzzles) == 0 {
		return
	}
	i := min(max(g.index+delta, 0), len(g.puzzles)-1)
	g.seq++
	g.loading = false
	g.err = ""
	g.applyIndex(i)
	g.dateKey = g.puzzles[i].Date
	g.selected = g.dateKey
}

// AdvanceDay reloads the daily puzzle delta UTC calendar days from the
// selected date. Dev builds only.
func (g *BranchingGame) AdvanceDay(ctx context.Context, delta int) error {
	g.mu.Lock()
	from := g.selected
	if from == "" {
		from = g.dateKey
	}
	if from == "" {
		from = g.today()
	}
	g.mu.Unlock()

	next, err := puzzle.AddDays(from, delta)
	if err != nil {
		return err
	}
	g.LoadDaily(ctx, next)
	return nil
}
