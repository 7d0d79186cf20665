// Package remote is the client side of the hosted puzzle and progress
// store: branching and tone puzzles, graded submissions, synced tone
// attempts and entitlements.
package remote

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means no remote store is available. Callers treat it
	// as an expected state and fall back to local content.
	ErrNotConfigured = errors.New("remote store not configured")

	// ErrNotFound means the query matched nothing.
	ErrNotFound = errors.New("not found")
)

// Store is the remote puzzle and progress store.
type Store interface {
	// QuizPuzzleByDate returns the active branching puzzle scheduled for
	// date with questions and options preloaded, or ErrNotFound.
	QuizPuzzleByDate(ctx context.Context, date string) (*QuizPuzzle, error)

	// QuizAttempt returns the user's graded attempt on a puzzle, or
	// ErrNotFound.
	QuizAttempt(ctx context.Context, userID, puzzleID string) (*UserQuizAttempt, error)

	// CategoryID resolves a category name, or ErrNotFound.
	CategoryID(ctx context.Context, name string) (string, error)

	// CompletedQuizIDs lists every puzzle id the user has submitted.
	CompletedQuizIDs(ctx context.Context, userID string) ([]string, error)

	// PracticeCandidates returns up to limit active puzzles in the category,
	// newest first, skipping the excluded ids.
	PracticeCandidates(ctx context.Context, categoryID string, exclude []string, limit int) ([]QuizPuzzle, error)

	// SubmitQuizAttempt grades answers server-side and records the attempt.
	SubmitQuizAttempt(ctx context.Context, userID, puzzleID string, answers []Answer) (*GradeRow, error)

	// TonePuzzles lists active tone puzzles ordered by date.
	TonePuzzles(ctx context.Context) ([]TonePuzzle, error)

	// UpsertTonePuzzles inserts or updates puzzles keyed by date.
	UpsertTonePuzzles(ctx context.Context, rows []TonePuzzle) error

	// TonePuzzleIDs maps each known date to its server id.
	TonePuzzleIDs(ctx context.Context, dates []string) (map[string]string, error)

	// UpsertToneAttempts inserts or updates attempts keyed by
	// (user, puzzle, attempt index).
	UpsertToneAttempts(ctx context.Context, rows []ToneAttempt) error

	// UpsertEntitlement inserts or updates an entitlement keyed by
	// (user, product).
	UpsertEntitlement(ctx context.Context, row Entitlement) error
}

// Unconfigured is the Store used when no remote connection is set up.
// Every method returns ErrNotConfigured.
type Unconfigured struct{}

var _ Store = Unconfigured{}

func (Unconfigured) QuizPuzzleByDate(context.Context, string) (*QuizPuzzle, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) QuizAttempt(context.Context, string, string) (*UserQuizAttempt, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) CategoryID(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) CompletedQuizIDs(context.Context, string) ([]string, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) PracticeCandidates(context.Context, string, []string, int) ([]QuizPuzzle, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) SubmitQuizAttempt(context.Context, string, string, []Answer) (*GradeRow, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) TonePuzzles(context.Context) ([]TonePuzzle, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) UpsertTonePuzzles(context.Context, []TonePuzzle) error {
	return ErrNotConfigured
}

func (Unconfigured) TonePuzzleIDs(context.Context, []string) (map[string]string, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) UpsertToneAttempts(context.Context, []ToneAttempt) error {
	return ErrNotConfigured
}

func (Unconfigured) UpsertEntitlement(context.Context, Entitlement) error {
	return ErrNotConfigured
}

// Configured reports whether s can reach a remote store.
func Configured(s Store) bool {
	if s == nil {
		return false
	}
	_, off := s.(Unconfigured)
	return !off
}
