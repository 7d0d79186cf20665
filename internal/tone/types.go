// Package tone implements the scoring engine for the tone-slider puzzle.
// Every function here is pure: no I/O, no clock, no randomness.
package tone

// Tone is one of the five named axes a message is scored on.
type Tone string

const (
	Anger     Tone = "anger"
	Affection Tone = "affection"
	Anxiety   Tone = "anxiety"
	Joy       Tone = "joy"
	Control   Tone = "control"
)

// All returns every tone in display order. The order is fixed; share grids
// and persisted rows depend on it.
func All() []Tone {
	return []Tone{Anger, Affection, Anxiety, Joy, Control}
}

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	switch t {
	case Anger, Affection, Anxiety, Joy, Control:
		return true
	}
	return false
}

// Marker returns the stable per-tone prefix used on share grid lines.
func (t Tone) Marker() string {
	switch t {
	case Anger:
		return "😡"
	case Affection:
		return "❤️"
	case Anxiety:
		return "😬"
	case Joy:
		return "😄"
	case Control:
		return "🕹️"
	default:
		return "•"
	}
}

// Vector holds one magnitude per tone. Values are nominally 0-100 but are
// clamped on every read, so callers may store raw input.
type Vector struct {
	Anger     int `json:"anger" validate:"gte=0,lte=100"`
	Affection int `json:"affection" validate:"gte=0,lte=100"`
	Anxiety   int `json:"anxiety" validate:"gte=0,lte=100"`
	Joy       int `json:"joy" validate:"gte=0,lte=100"`
	Control   int `json:"control" validate:"gte=0,lte=100"`
}

// Neutral is the starting slider position for a fresh guess.
func Neutral() Vector {
	return Vector{Anger: 50, Affection: 50, Anxiety: 50, Joy: 50, Control: 50}
}

// Get returns the raw value for t.
func (v Vector) Get(t Tone) int {
	switch t {
	case Anger:
		return v.Anger
	case Affection:
		return v.Affection
	case Anxiety:
		return v.Anxiety
	case Joy:
		return v.Joy
	case Control:
		return v.Control
	}
	return 0
}

// With returns a copy of v with t set to value (unclamped).
func (v Vector) With(t Tone, value int) Vector {
	switch t {
	case Anger:
		v.Anger = value
	case Affection:
		v.Affection = value
	case Anxiety:
		v.Anxiety = value
	case Joy:
		v.Joy = value
	case Control:
		v.Control = value
	}
	return v
}

// Clamped returns a copy with every dimension clamped to [0,100].
func (v Vector) Clamped() Vector {
	out := v
	for _, t := range All() {
		out = out.With(t, Clamp100(v.Get(t)))
	}
	return out
}

// Direction is a coarse per-tone hint telling the player which way to move.
type Direction string

const (
	Higher Direction = "higher"
	Lower  Direction = "lower"
	Close  Direction = "close"
)

// HintSet maps each tone to its hint direction.
type HintSet map[Tone]Direction

// Tile is the three-tier tolerance band of a single-dimension difference.
type Tile string

const (
	Green  Tile = "green"
	Yellow Tile = "yellow"
	Gray   Tile = "gray"
)

// Glyph returns the share grid square for the tile.
func (t Tile) Glyph() string {
	switch t {
	case Green:
		return "🟩"
	case Yellow:
		return "🟨"
	default:
		return "⬛"
	}
}
