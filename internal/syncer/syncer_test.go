package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/entitlements"
	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/store"
	"github.com/abhisek/emoiq/internal/tone"
)

type seedCatalog struct{}

func (seedCatalog) FetchTonePuzzles(context.Context) ([]puzzle.TonePuzzle, string) {
	return puzzle.SeedTonePuzzles("2026-01-30"), ""
}

func attempt(v tone.Vector, target tone.Vector) progress.Attempt {
	s := tone.DefaultRules().Grade(v, target)
	return progress.Attempt{
		Guess:     v,
		Resonance: s.Resonance,
		Hints:     s.Hints,
		CreatedAt: time.Date(2026, 1, 30, 9, 0, 0, 0, time.UTC),
	}
}

func seededLedger(t *testing.T) *progress.Ledger {
	t.Helper()
	ctx := context.Background()
	seeds := puzzle.SeedTonePuzzles("2026-01-30")
	l := progress.NewLedger(store.NewMemoryKV(), nil, tone.DefaultMaxAttempts)
	l.Load(ctx)

	l.Put(ctx, "2026-01-30", progress.Record{
		Status: progress.InProgress,
		Attempts: []progress.Attempt{
			attempt(tone.Neutral(), seeds[0].Target),
			attempt(tone.Vector{Anger: 20, Affection: 50, Anxiety: 50, Joy: 30, Control: 40}, seeds[0].Target),
		},
	})
	l.Put(ctx, "2026-01-31", progress.Record{
		Status:   progress.Won,
		Attempts: []progress.Attempt{attempt(seeds[1].Target, seeds[1].Target)},
	})
	l.Put(ctx, "2025-01-01", progress.Record{
		Status:   progress.InProgress,
		Attempts: []progress.Attempt{attempt(tone.Neutral(), tone.Neutral())},
	})
	l.Put(ctx, "2026-02-01", progress.Record{Status: progress.NotStarted})
	return l
}

func TestSync_Preconditions(t *testing.T) {
	l := progress.NewLedger(store.NewMemoryKV(), nil, 6)

	_, err := New(remote.NewMemory(), seedCatalog{}, l, nil, nil).Sync(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = New(nil, seedCatalog{}, l, nil, nil).Sync(context.Background(), "u1")
	assert.ErrorIs(t, err, remote.ErrNotConfigured)
}

func TestSync_UploadsProgress(t *testing.T) {
	rs := remote.NewMemory()
	l := seededLedger(t)
	b := New(rs, seedCatalog{}, l, nil, nil)

	rep, err := b.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Puzzles)
	assert.Equal(t, 3, rep.Attempts)
	assert.Equal(t, []string{"2025-01-01"}, rep.Skipped)

	ids, err := rs.TonePuzzleIDs(context.Background(), []string{"2026-01-30", "2026-01-31"})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	rows := rs.ToneAttempts("u1")
	require.Len(t, rows, 3)
	byPuzzle := map[string][]int{}
	for _, r := range rows {
		byPuzzle[r.PuzzleID.String()] = append(byPuzzle[r.PuzzleID.String()], r.AttemptIndex)
		assert.Contains(t, string(r.Hints), `"anger"`)
	}
	assert.Equal(t, []int{1, 2}, byPuzzle[ids["2026-01-30"]])
	assert.Equal(t, []int{1}, byPuzzle[ids["2026-01-31"]])

	// A second run upserts onto the same keys.
	_, err = b.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, rs.ToneAttempts("u1"), 3)
	again, err := rs.TonePuzzleIDs(context.Background(), []string{"2026-01-30", "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, ids, again)
}

func TestSync_EntitlementsWithoutProgress(t *testing.T) {
	ctx := context.Background()
	rs := remote.NewMemory()
	ents := entitlements.NewManager(store.NewMemoryKV(), nil, nil, nil)
	_, err := ents.Grant(ctx, entitlements.RemoveAds)
	require.NoError(t, err)

	b := New(rs, seedCatalog{}, progress.NewLedger(store.NewMemoryKV(), nil, 6), ents, nil)
	rep, err := b.Sync(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Report{Entitlements: 1}, rep)
	assert.Zero(t, rs.CallCount("UpsertTonePuzzles"))
	require.Len(t, rs.Entitlements("u1"), 1)
	assert.Equal(t, entitlements.RemoveAds, rs.Entitlements("u1")[0].ProductID)
}

type failingAttempts struct {
	*remote.Memory
}

func (failingAttempts) UpsertToneAttempts(context.Context, []remote.ToneAttempt) error {
	return errors.New("permission denied")
}

func TestSync_PartialFailureLeavesLocalState(t *testing.T) {
	rs := failingAttempts{remote.NewMemory()}
	l := seededLedger(t)
	before := l.All()

	rep, err := New(rs, seedCatalog{}, l, nil, nil).Sync(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, 2, rep.Puzzles)
	assert.Zero(t, rep.Attempts)
	assert.Equal(t, before, l.All())
}

func TestSync_ConcurrentCallsConverge(t *testing.T) {
	rs := remote.NewMemory()
	b := New(rs, seedCatalog{}, seededLedger(t), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Sync(context.Background(), "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, rs.ToneAttempts("u1"), 3)
}

func TestAttach(t *testing.T) {
	ctx := context.Background()
	rs := remote.NewMemory()
	hub := auth.NewHub(ctx, nil, nil)
	b := New(rs, seedCatalog{}, seededLedger(t), nil, nil)

	detach := b.Attach(ctx, hub)
	assert.Equal(t, 1, hub.Subscribers())

	_, err := hub.SignIn(ctx, "u1", "")
	require.NoError(t, err)
	b.Wait()
	assert.Len(t, rs.ToneAttempts("u1"), 3)

	hub.SignOut(ctx)
	b.Wait()
	calls := rs.CallCount("UpsertToneAttempts")

	detach()
	detach()
	assert.Zero(t, hub.Subscribers())
	_, err = hub.SignIn(ctx, "u2", "")
	require.NoError(t, err)
	b.Wait()
	assert.Equal(t, calls, rs.CallCount("UpsertToneAttempts"))
	assert.Empty(t, rs.ToneAttempts("u2"))
}

func TestCheckSession(t *testing.T) {
	ctx := context.Background()
	rs := remote.NewMemory()
	hub := auth.NewHub(ctx, nil, nil)
	b := New(rs, seedCatalog{}, seededLedger(t), nil, nil)

	_, err := b.CheckSession(ctx, hub)
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = hub.SignIn(ctx, "u1", "")
	require.NoError(t, err)
	rep, err := b.CheckSession(ctx, hub)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Attempts)
}
