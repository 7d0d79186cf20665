package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/config"
	"github.com/abhisek/emoiq/internal/entitlements"
	"github.com/abhisek/emoiq/internal/game"
	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/screens"
	"github.com/abhisek/emoiq/internal/selection"
	"github.com/abhisek/emoiq/internal/settings"
	"github.com/abhisek/emoiq/internal/store"
	"github.com/abhisek/emoiq/internal/syncer"
)

// env is everything a command may need, opened from cfg.
type env struct {
	log      *logrus.Logger
	local    *store.Store
	remote   remote.Store
	pg       *remote.Postgres
	sel      *selection.Selector
	ledger   *progress.Ledger
	settings *settings.Manager
	ents     *entitlements.Manager
	hub      *auth.Hub
	bridge   *syncer.Bridge
}

// openEnv opens local storage and, when configured, the remote store, then
// hydrates settings, entitlements and progress concurrently. Logs go to
// logOut unless a log file is configured.
func openEnv(ctx context.Context, logOut io.Writer) (*env, error) {
	log, err := config.NewLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DB
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	local, err := store.Open(dbPath, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &env{log: log, local: local, remote: remote.Unconfigured{}}
	if dsn := cfg.Remote.ConnString(); dsn != "" {
		pg, err := remote.Open(dsn, log)
		if err != nil {
			local.Close()
			return nil, err
		}
		e.pg, e.remote = pg, pg
		if cfg.Remote.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				e.Close()
				return nil, fmt.Errorf("migrate remote: %w", err)
			}
		}
	}

	kv := local.KV()
	e.sel = selection.New(e.remote, log, selection.WithPageSize(cfg.Practice.PageSize))
	e.ledger = progress.NewLedger(kv, log, cfg.Rules.MaxAttempts)
	e.settings = settings.NewManager(kv, log)
	e.hub = auth.NewHub(ctx, kv, log)
	e.ents = entitlements.NewManager(kv, e.remote, e.hub, log)
	e.bridge = syncer.New(e.remote, e.sel, e.ledger, e.ents, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { e.settings.Hydrate(gctx); return nil })
	g.Go(func() error { e.ents.Hydrate(gctx); return nil })
	g.Go(func() error { e.ledger.Load(gctx); return nil })
	if err := g.Wait(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) Close() {
	if e.pg != nil {
		if err := e.pg.Close(); err != nil {
			e.log.WithError(err).Warn("close remote store")
		}
	}
	if err := e.local.Close(); err != nil {
		e.log.WithError(err).Warn("close database")
	}
}

func (e *env) toneGame() *game.ToneGame {
	return game.NewToneGame(e.sel, e.ledger, cfg.Rules, game.WithLogger(e.log))
}

func (e *env) services() *screens.Services {
	return &screens.Services{
		Tone:         e.toneGame(),
		Branching:    game.NewBranchingGame(e.sel, e.remote, e.hub, game.WithLogger(e.log)),
		Ledger:       e.ledger,
		Rules:        cfg.Rules,
		Auth:         e.hub,
		Settings:     e.settings,
		Entitlements: e.ents,
		Log:          e.log,
	}
}

// requireRemote fails commands that only make sense with a backend.
func (e *env) requireRemote() error {
	if e.pg == nil {
		return errors.New("remote store not configured (set EMOIQ_REMOTE_DSN or remote.host)")
	}
	return nil
}
