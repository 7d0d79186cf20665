// Package syncer replays local tone progress and entitlements to the
// remote store. Every write is an upsert on a natural key, so repeated or
// concurrent syncs leave the same remote state.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/entitlements"
	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/selection"
)

// ErrNoUser is returned when sync is requested without a signed-in user.
var ErrNoUser = errors.New("no signed-in user")

// Catalog supplies the tone puzzle definitions progress refers to.
type Catalog interface {
	FetchTonePuzzles(ctx context.Context) ([]puzzle.TonePuzzle, string)
}

// Report summarizes one sync.
type Report struct {
	Puzzles      int
	Attempts     int
	Entitlements int

	// Skipped lists progress dates with no known puzzle definition.
	Skipped []string
}

// Bridge pushes local state upstream.
type Bridge struct {
	remote  remote.Store
	catalog Catalog
	ledger  *progress.Ledger
	ents    *entitlements.Manager
	log     logrus.FieldLogger

	group singleflight.Group
	wg    sync.WaitGroup
}

// New creates a Bridge. ents may be nil.
func New(rs remote.Store, catalog Catalog, ledger *progress.Ledger, ents *entitlements.Manager, log logrus.FieldLogger) *Bridge {
	if rs == nil {
		rs = remote.Unconfigured{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bridge{
		remote:  rs,
		catalog: catalog,
		ledger:  ledger,
		ents:    ents,
		log:     log.WithField("component", "sync"),
	}
}

// Sync uploads progress and entitlements for userID. Concurrent calls for
// the same user share one run. Failures of individual steps are logged and
// joined into the returned error; local state is never changed.
func (b *Bridge) Sync(ctx context.Context, userID string) (Report, error) {
	if userID == "" {
		return Report{}, ErrNoUser
	}
	if !remote.Configured(b.remote) {
		return Report{}, remote.ErrNotConfigured
	}

	v, err, shared := b.group.Do(userID, func() (any, error) {
		return b.sync(ctx, userID)
	})
	if shared {
		b.log.WithField("user", userID).Debug("joined in-flight sync")
	}
	rep, _ := v.(Report)
	return rep, err
}

func (b *Bridge) sync(ctx context.Context, userID string) (Report, error) {
	log := b.log.WithField("user", userID)
	var rep Report
	var errs []error

	if !b.ledger.Loaded() {
		b.ledger.Load(ctx)
	}
	played := b.ledger.All()
	for date, rec := range played {
		if len(rec.Attempts) == 0 {
			delete(played, date)
		}
	}

	if len(played) > 0 {
		n, a, skipped, err := b.syncProgress(ctx, userID, played)
		rep.Puzzles, rep.Attempts, rep.Skipped = n, a, skipped
		if err != nil {
			log.WithError(err).Warn("progress sync incomplete")
			errs = append(errs, err)
		}
	}

	if b.ents != nil {
		for _, product := range b.ents.State().Products() {
			row := remote.Entitlement{UserID: userID, ProductID: product, Status: "active"}
			if err := b.remote.UpsertEntitlement(ctx, row); err != nil {
				log.WithError(err).WithField("product", product).Warn("entitlement sync failed")
				errs = append(errs, fmt.Errorf("entitlement %s: %w", product, err))
				continue
			}
			rep.Entitlements++
		}
	}

	log.WithFields(logrus.Fields{
		"puzzles":      rep.Puzzles,
		"attempts":     rep.Attempts,
		"entitlements": rep.Entitlements,
	}).Info("sync finished")
	return rep, errors.Join(errs...)
}

func (b *Bridge) syncProgress(ctx context.Context, userID string, played progress.Map) (int, int, []string, error) {
	byDate := map[string]puzzle.TonePuzzle{}
	if b.catalog != nil {
		list, _ := b.catalog.FetchTonePuzzles(ctx)
		for _, p := range list {
			byDate[p.Date] = p
		}
	}

	dates := make([]string, 0, len(played))
	for d := range played {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var rows []remote.TonePuzzle
	var known, skipped []string
	for _, d := range dates {
		p, ok := byDate[d]
		if !ok {
			skipped = append(skipped, d)
			continue
		}
		row, err := selection.TonePuzzleRow(p)
		if err != nil {
			skipped = append(skipped, d)
			continue
		}
		rows = append(rows, row)
		known = append(known, d)
	}
	if len(rows) == 0 {
		return 0, 0, skipped, nil
	}

	if err := b.remote.UpsertTonePuzzles(ctx, rows); err != nil {
		return 0, 0, skipped, fmt.Errorf("upsert puzzles: %w", err)
	}
	ids, err := b.remote.TonePuzzleIDs(ctx, known)
	if err != nil {
		return len(rows), 0, skipped, fmt.Errorf("resolve puzzle ids: %w", err)
	}

	var attempts []remote.ToneAttempt
	for _, d := range known {
		id, err := uuid.Parse(ids[d])
		if err != nil {
			skipped = append(skipped, d)
			continue
		}
		for i, a := range played[d].Attempts {
			row, err := attemptRow(userID, id, i+1, a)
			if err != nil {
				return len(rows), 0, skipped, err
			}
			attempts = append(attempts, row)
		}
	}
	if len(attempts) == 0 {
		return len(rows), 0, skipped, nil
	}
	if err := b.remote.UpsertToneAttempts(ctx, attempts); err != nil {
		return len(rows), 0, skipped, fmt.Errorf("upsert attempts: %w", err)
	}
	return len(rows), len(attempts), skipped, nil
}

// attemptRow converts an attempt into its remote row. index is 1-based.
func attemptRow(userID string, puzzleID uuid.UUID, index int, a progress.Attempt) (remote.ToneAttempt, error) {
	hints, err := json.Marshal(a.Hints)
	if err != nil {
		return remote.ToneAttempt{}, fmt.Errorf("encode hints: %w", err)
	}
	g := a.Guess.Clamped()
	return remote.ToneAttempt{
		UserID:         userID,
		PuzzleID:       puzzleID,
		AttemptIndex:   index,
		Resonance:      a.Resonance,
		GuessAnger:     g.Anger,
		GuessAffection: g.Affection,
		GuessAnxiety:   g.Anxiety,
		GuessJoy:       g.Joy,
		GuessControl:   g.Control,
		Hints:          datatypes.JSON(hints),
		CreatedAt:      a.CreatedAt,
	}, nil
}

// Attach syncs in the background whenever hub reports a sign-in. The
// returned func unsubscribes.
func (b *Bridge) Attach(ctx context.Context, hub *auth.Hub) (detach func()) {
	return hub.Subscribe(func(c auth.Change) {
		if c.Event != auth.SignedIn || c.Session == nil {
			return
		}
		userID := c.Session.UserID
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if _, err := b.Sync(ctx, userID); err != nil {
				b.log.WithError(err).WithField("user", userID).Warn("background sync failed")
			}
		}()
	})
}

// Wait blocks until background syncs started by Attach have finished.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

// CheckSession syncs for the current session, if any. It is the explicit
// startup path next to Attach.
func (b *Bridge) CheckSession(ctx context.Context, provider auth.Provider) (Report, error) {
	s, err := provider.Session(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("session: %w", err)
	}
	if s == nil {
		return Report{}, ErrNoUser
	}
	return b.Sync(ctx, s.UserID)
}
