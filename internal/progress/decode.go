package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/emoiq/internal/tone"
)

// attemptSchema describes one stored attempt. Attempts failing it are
// dropped individually.
var attemptSchema = map[string]any{
	"type":     "object",
	"required": []any{"guess", "hints"},
	"properties": map[string]any{
		"guess": map[string]any{
			"type":     "object",
			"required": []any{"anger", "affection", "anxiety", "joy", "control"},
			"properties": map[string]any{
				"anger":     map[string]any{"type": "number"},
				"affection": map[string]any{"type": "number"},
				"anxiety":   map[string]any{"type": "number"},
				"joy":       map[string]any{"type": "number"},
				"control":   map[string]any{"type": "number"},
			},
		},
		"hints":     map[string]any{"type": "object"},
		"resonance": map[string]any{"type": "number"},
		"createdAt": map[string]any{"type": "string"},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func attemptValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		const url = "schema://progress-attempt.json"
		if compileErr = c.AddResource(url, attemptSchema); compileErr != nil {
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

type rawAttempt struct {
	Guess     map[string]float64 `json:"guess"`
	Resonance float64            `json:"resonance"`
	Hints     map[string]string  `json:"hints"`
	CreatedAt string             `json:"createdAt"`
}

// Decode parses the stored progress document. It never fails on content:
// records that are not objects, lack an attempts array, or hold legacy
// grid-shaped guesses are dropped; malformed attempts are filtered out;
// attempts beyond maxAttempts are cut; unknown statuses become NotStarted.
// Only an unusable schema yields an error.
func Decode(raw []byte, maxAttempts int) (Map, error) {
	schema, err := attemptValidator()
	if err != nil {
		return nil, fmt.Errorf("compile progress schema: %w", err)
	}

	out := Map{}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return out, nil
	}

	for date, value := range doc {
		obj, ok := value.(map[string]any)
		if !ok {
			continue
		}
		attempts, ok := obj["attempts"].([]any)
		if !ok {
			continue
		}
		if isLegacy(attempts) {
			continue
		}

		rec := Record{Attempts: []Attempt{}, Status: coerceStatus(obj["status"])}
		for _, a := range attempts {
			if schema.Validate(a) != nil {
				continue
			}
			att, ok := toAttempt(a)
			if !ok {
				continue
			}
			rec.Attempts = append(rec.Attempts, att)
			if len(rec.Attempts) == maxAttempts {
				break
			}
		}
		out[date] = rec
	}
	return out, nil
}

// isLegacy detects the older x/y grid guess shape.
func isLegacy(attempts []any) bool {
	if len(attempts) == 0 {
		return false
	}
	first, ok := attempts[0].(map[string]any)
	if !ok {
		return false
	}
	guess, ok := first["guess"].(map[string]any)
	if !ok {
		return false
	}
	x, ok := guess["x"]
	return ok && x != nil
}

func coerceStatus(v any) Status {
	s, _ := v.(string)
	switch Status(s) {
	case InProgress, Won, Lost:
		return Status(s)
	}
	return NotStarted
}

func toAttempt(v any) (Attempt, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return Attempt{}, false
	}
	var ra rawAttempt
	if err := json.Unmarshal(b, &ra); err != nil {
		return Attempt{}, false
	}

	var guess tone.Vector
	for _, t := range tone.All() {
		guess = guess.With(t, tone.Clamp100(int(math.Round(ra.Guess[string(t)]))))
	}

	hints := tone.HintSet{}
	for k, d := range ra.Hints {
		t, dir := tone.Tone(k), tone.Direction(d)
		if !t.Valid() {
			continue
		}
		switch dir {
		case tone.Higher, tone.Lower, tone.Close:
			hints[t] = dir
		}
	}

	created, _ := time.Parse(time.RFC3339Nano, ra.CreatedAt)

	return Attempt{
		Guess:     guess,
		Resonance: tone.Clamp100(int(math.Round(ra.Resonance))),
		Hints:     hints,
		CreatedAt: created,
	}, true
}
