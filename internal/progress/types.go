// Package progress holds the per-day tone attempt history, its defensive
// decoding from local storage, and the write-through ledger.
package progress

import (
	"time"

	"github.com/abhisek/emoiq/internal/tone"
)

// Status is the outcome of a puzzle-day.
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Won        Status = "won"
	Lost       Status = "lost"
)

// Terminal reports whether no further attempts may be recorded.
func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

// Attempt is one scored tone guess. It is never mutated after creation.
type Attempt struct {
	Guess     tone.Vector  `json:"guess"`
	Resonance int          `json:"resonance"`
	Hints     tone.HintSet `json:"hints"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Record is the progress for one date.
type Record struct {
	Attempts []Attempt `json:"attempts"`
	Status   Status    `json:"status"`
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	out := Record{Status: r.Status}
	if r.Attempts != nil {
		out.Attempts = make([]Attempt, len(r.Attempts))
		copy(out.Attempts, r.Attempts)
	}
	return out
}

// Guesses returns the guess vectors in attempt order.
func (r Record) Guesses() []tone.Vector {
	out := make([]tone.Vector, len(r.Attempts))
	for i, a := range r.Attempts {
		out[i] = a.Guess
	}
	return out
}

// StatusAfter computes the status once attempts have been recorded.
func StatusAfter(solved bool, attempts, maxAttempts int) Status {
	switch {
	case solved:
		return Won
	case attempts >= maxAttempts:
		return Lost
	case attempts > 0:
		return InProgress
	default:
		return NotStarted
	}
}

// Map is progress keyed by date key.
type Map map[string]Record

// Clone deep-copies m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}
