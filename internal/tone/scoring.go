package tone

import "math"

const (
	// DefaultSharpness controls how quickly a dimension score decays.
	DefaultSharpness = 4.0

	// DefaultCloseThreshold is the largest difference reported as "close"
	// and classified as a green tile.
	DefaultCloseThreshold = 7

	// DefaultNearThreshold is the largest difference classified as yellow.
	DefaultNearThreshold = 18

	// DefaultSolveTolerance is the per-dimension difference allowed for a win.
	DefaultSolveTolerance = 7

	// DefaultMaxAttempts caps the attempts recorded per puzzle-day.
	DefaultMaxAttempts = 6
)

// Rules bundles the tunable scoring constants.
type Rules struct {
	Sharpness      float64 `mapstructure:"sharpness" validate:"gt=0"`
	CloseThreshold int     `mapstructure:"close_threshold" validate:"gte=0,lte=100"`
	NearThreshold  int     `mapstructure:"near_threshold" validate:"gtefield=CloseThreshold,lte=100"`
	SolveTolerance int     `mapstructure:"solve_tolerance" validate:"gte=0,lte=100"`
	MaxAttempts    int     `mapstructure:"max_attempts" validate:"gte=1,lte=20"`
}

// DefaultRules returns the rules the daily game ships with.
func DefaultRules() Rules {
	return Rules{
		Sharpness:      DefaultSharpness,
		CloseThreshold: DefaultCloseThreshold,
		NearThreshold:  DefaultNearThreshold,
		SolveTolerance: DefaultSolveTolerance,
		MaxAttempts:    DefaultMaxAttempts,
	}
}

// Clamp limits value to [lo, hi].
func Clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Clamp100 clamps value to the slider range.
func Clamp100(value int) int {
	return Clamp(value, 0, 100)
}

func clampUnit(value float64) float64 {
	return math.Min(math.Max(value, 0), 1)
}

// Difference returns |guess - target| for one tone after clamping both.
func Difference(guess, target Vector, t Tone) int {
	d := Clamp100(guess.Get(t)) - Clamp100(target.Get(t))
	if d < 0 {
		return -d
	}
	return d
}

// DimensionScore maps a 0-100 difference to a 0-1 score with an
// exponential falloff: exp(-sharpness * (diff/100)^2).
func DimensionScore(diff int, sharpness float64) float64 {
	nd := clampUnit(float64(diff) / 100)
	return math.Exp(-sharpness * nd * nd)
}

// Resonance is the mean dimension score scaled to 0-100 and rounded.
func Resonance(guess, target Vector, sharpness float64) int {
	tones := All()
	var sum float64
	for _, t := range tones {
		sum += DimensionScore(Difference(guess, target, t), sharpness)
	}
	return int(math.Round(sum / float64(len(tones)) * 100))
}

// HintFor returns the direction the player should move tone t.
func HintFor(guess, target Vector, t Tone, closeThreshold int) Direction {
	g := Clamp100(guess.Get(t))
	tv := Clamp100(target.Get(t))
	diff := g - tv
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= closeThreshold:
		return Close
	case g < tv:
		return Higher
	default:
		return Lower
	}
}

// Hints computes HintFor for every tone.
func Hints(guess, target Vector, closeThreshold int) HintSet {
	out := make(HintSet, len(All()))
	for _, t := range All() {
		out[t] = HintFor(guess, target, t, closeThreshold)
	}
	return out
}

// TileFor classifies a difference into green, yellow or gray.
func TileFor(diff, closeThreshold, nearThreshold int) Tile {
	switch {
	case diff <= closeThreshold:
		return Green
	case diff <= nearThreshold:
		return Yellow
	default:
		return Gray
	}
}

// IsSolved reports whether every tone is within tolerance. This is the win
// condition; a high resonance alone does not win.
func IsSolved(guess, target Vector, tolerance int) bool {
	for _, t := range All() {
		if Difference(guess, target, t) > tolerance {
			return false
		}
	}
	return true
}

// Score is the outcome of grading one guess.
type Score struct {
	Resonance int
	Hints     HintSet
	Solved    bool
}

// Grade applies the rules to a guess.
func (r Rules) Grade(guess, target Vector) Score {
	return Score{
		Resonance: Resonance(guess, target, r.Sharpness),
		Hints:     Hints(guess, target, r.CloseThreshold),
		Solved:    IsSolved(guess, target, r.SolveTolerance),
	}
}

// Tile classifies diff using the rules' thresholds.
func (r Rules) Tile(diff int) Tile {
	return TileFor(diff, r.CloseThreshold, r.NearThreshold)
}
