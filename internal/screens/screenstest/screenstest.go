// Package screenstest builds in-memory services and key events for screen
// tests.
package screenstest

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/entitlements"
	"github.com/abhisek/emoiq/internal/game"
	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/screens"
	"github.com/abhisek/emoiq/internal/selection"
	"github.com/abhisek/emoiq/internal/settings"
	"github.com/abhisek/emoiq/internal/store"
	"github.com/abhisek/emoiq/internal/tone"
)

// Today is the date every fixture clock reports. The seeded tone puzzles
// include it.
const Today = "2026-01-30"

// Fixture is a set of services backed by memory stores.
type Fixture struct {
	Services *screens.Services
	KV       *store.MemoryKV
	Logs     *logtest.Hook
}

// New wires services over rs; a nil rs behaves as an unconfigured remote.
func New(t *testing.T, rs remote.Store) Fixture {
	t.Helper()
	if rs == nil {
		rs = remote.Unconfigured{}
	}
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	d, err := puzzle.ParseDateKey(Today)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	clock := func() time.Time { return d.Add(15 * time.Hour) }

	kv := store.NewMemoryKV()
	ctx := context.Background()
	rules := tone.DefaultRules()
	hub := auth.NewHub(ctx, kv, log)
	ledger := progress.NewLedger(kv, log, rules.MaxAttempts)
	sel := selection.New(rs, log, selection.WithClock(clock))

	svc := &screens.Services{
		Tone:         game.NewToneGame(sel, ledger, rules, game.WithClock(clock), game.WithLogger(log)),
		Branching:    game.NewBranchingGame(sel, rs, hub, game.WithClock(clock), game.WithLogger(log)),
		Ledger:       ledger,
		Rules:        rules,
		Auth:         hub,
		Settings:     settings.NewManager(kv, log),
		Entitlements: entitlements.NewManager(kv, rs, hub, log),
		Log:          log,
		Now:          clock,
	}
	return Fixture{Services: svc, KV: kv, Logs: hook}
}

// Key builds a key press for a printable rune or one of the names up,
// down, left, right, enter, esc, tab and space.
func Key(name string) tea.KeyPressMsg {
	switch name {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	r := []rune(name)[0]
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Run executes cmd and returns its message, or nil for a nil cmd.
// Batches are flattened and the first non-nil message wins.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if m := Run(c); m != nil {
				return m
			}
		}
		return nil
	}
	return msg
}
