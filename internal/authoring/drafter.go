// Package authoring drafts tone puzzles with an LLM and publishes them to
// the remote store.
package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/llm"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/selection"
	"github.com/abhisek/emoiq/internal/tone"
)

const maxRecent = 30

// ErrRejected wraps a draft that failed local checks.
var ErrRejected = errors.New("draft rejected")

type Config struct {
	MaxTokens   int
	Temperature float64
	// Attempts is how many drafts are requested before giving up.
	Attempts int
	// MinSpread is how far from neutral at least two tones must be.
	MinSpread int
}

func DefaultConfig() Config {
	return Config{MaxTokens: 512, Temperature: 0.9, Attempts: 3, MinSpread: 15}
}

// Input describes the puzzle to draft.
type Input struct {
	Date       string
	Category   string
	Difficulty int
	// Recent holds already published messages to avoid.
	Recent []string
}

type draftOutput struct {
	Message    string      `json:"message"`
	Category   string      `json:"category"`
	Difficulty int         `json:"difficulty"`
	Target     tone.Vector `json:"target"`
}

type Drafter struct {
	provider llm.Provider
	cfg      Config
	log      logrus.FieldLogger
}

func New(provider llm.Provider, cfg Config, log logrus.FieldLogger) *Drafter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &Drafter{provider: provider, cfg: cfg, log: log}
}

// Draft asks the model for a puzzle until one passes the checks or the
// attempts run out. Rejection reasons are fed back into the next prompt.
func (d *Drafter) Draft(ctx context.Context, in Input) (puzzle.TonePuzzle, error) {
	if !puzzle.ValidDateKey(in.Date) {
		return puzzle.TonePuzzle{}, fmt.Errorf("invalid date %q", in.Date)
	}
	ctx = llm.WithPurpose(ctx, "tone-draft")

	var (
		rejected []string
		lastErr  error
	)
	for i := 0; i < d.cfg.Attempts; i++ {
		req := llm.UserPrompt(systemPrompt, buildUserMessage(in, rejected), DraftSchema, d.cfg.MaxTokens)
		req.Temperature = d.cfg.Temperature

		resp, err := d.provider.Generate(ctx, req)
		if err != nil {
			return puzzle.TonePuzzle{}, fmt.Errorf("generate draft: %w", err)
		}

		var out draftOutput
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			return puzzle.TonePuzzle{}, fmt.Errorf("parse draft: %w", err)
		}

		p := puzzle.TonePuzzle{
			ID:         uuid.NewString(),
			Date:       in.Date,
			Message:    strings.TrimSpace(out.Message),
			Category:   strings.TrimSpace(out.Category),
			Difficulty: out.Difficulty,
			Active:     true,
			Target:     out.Target,
		}
		if in.Category != "" {
			p.Category = in.Category
		}
		if reason := d.check(p, in.Recent); reason != nil {
			lastErr = fmt.Errorf("%w: %w", ErrRejected, reason)
			d.log.WithFields(logrus.Fields{"date": in.Date, "attempt": i + 1}).
				WithError(reason).Info("draft rejected")
			rejected = append(rejected, fmt.Sprintf("%q: %v", p.Message, reason))
			continue
		}
		return p, nil
	}
	return puzzle.TonePuzzle{}, lastErr
}

// check returns why p is unusable, or nil.
func (d *Drafter) check(p puzzle.TonePuzzle, recent []string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	strong := 0
	for _, t := range tone.All() {
		v := p.Target.Get(t)
		if v-50 >= d.cfg.MinSpread || 50-v >= d.cfg.MinSpread {
			strong++
		}
	}
	if strong < 2 {
		return errors.New("target too close to neutral")
	}

	norm := normalize(p.Message)
	if slices.ContainsFunc(recent, func(s string) bool { return normalize(s) == norm }) {
		return errors.New("repeats a recent message")
	}
	words := strings.FieldsFunc(norm, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, t := range tone.All() {
		if slices.Contains(words, string(t)) {
			return fmt.Errorf("names the tone %q", t)
		}
	}
	return nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Recent returns the newest published messages, oldest first.
func Recent(ctx context.Context, rs remote.Store) ([]string, error) {
	rows, err := rs.TonePuzzles(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rows, func(a, b remote.TonePuzzle) int { return a.Date.Compare(b.Date) })
	if len(rows) > maxRecent {
		rows = rows[len(rows)-maxRecent:]
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Message)
	}
	return out, nil
}

// Publish upserts p by date. An existing puzzle on that date is replaced.
func Publish(ctx context.Context, rs remote.Store, p puzzle.TonePuzzle) error {
	row, err := selection.TonePuzzleRow(p)
	if err != nil {
		return err
	}
	if err := rs.UpsertTonePuzzles(ctx, []remote.TonePuzzle{row}); err != nil {
		return fmt.Errorf("publish %s: %w", p.Date, err)
	}
	return nil
}
