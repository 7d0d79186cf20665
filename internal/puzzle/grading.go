package puzzle

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoLocalAnswer is returned when a round carries no local correctness
// data and must be graded remotely.
var ErrNoLocalAnswer = errors.New("round has no local answer")

// HasLocalAnswer reports whether the round can be graded without the
// remote store.
func (r Round) HasLocalAnswer() bool {
	if r.CorrectKey != "" {
		return true
	}
	for _, o := range r.Options {
		if o.Correct != nil {
			return true
		}
	}
	return false
}

// correctKeys resolves the set of correct option keys. Per-option flags
// win over the single correct key when both exist.
func (r Round) correctKeys() map[string]bool {
	keys := make(map[string]bool)
	flagged := false
	for _, o := range r.Options {
		if o.Correct == nil {
			continue
		}
		flagged = true
		if *o.Correct {
			keys[o.Key] = true
		}
	}
	if !flagged && r.CorrectKey != "" {
		keys[r.CorrectKey] = true
	}
	return keys
}

// Mode returns the round's grading mode, defaulting to exact.
func (r Round) Mode() GradingMode {
	if r.Grading == "" {
		return GradeExact
	}
	return r.Grading
}

// IsCorrect grades one round's selection using local correctness data.
func (r Round) IsCorrect(selected []string) (bool, error) {
	if !r.HasLocalAnswer() {
		return false, ErrNoLocalAnswer
	}
	correct := r.correctKeys()
	chosen := make(map[string]bool, len(selected))
	for _, k := range selected {
		chosen[k] = true
	}

	switch r.Mode() {
	case GradeAnyCorrect:
		hit := false
		for k := range chosen {
			if !correct[k] {
				return false, nil
			}
			hit = true
		}
		return hit, nil
	default:
		if len(chosen) != len(correct) {
			return false, nil
		}
		for k := range correct {
			if !chosen[k] {
				return false, nil
			}
		}
		return true, nil
	}
}

// CanGradeLocally reports whether every round has local correctness data.
func (p *BranchingPuzzle) CanGradeLocally() bool {
	if p == nil || len(p.Rounds) == 0 {
		return false
	}
	for _, r := range p.Rounds {
		if !r.HasLocalAnswer() {
			return false
		}
	}
	return true
}

// GradeLocal scores selections against local correctness data. The result
// has no attempt id; it is advisory and never recorded as a completion.
func GradeLocal(p *BranchingPuzzle, selections [][]string) (GradeResult, error) {
	if p == nil {
		return GradeResult{}, errors.New("no puzzle")
	}
	if len(selections) != len(p.Rounds) {
		return GradeResult{}, fmt.Errorf("got %d selections for %d rounds", len(selections), len(p.Rounds))
	}

	res := GradeResult{QuestionCount: len(p.Rounds)}
	for i, r := range p.Rounds {
		ok, err := r.IsCorrect(selections[i])
		if err != nil {
			return GradeResult{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		if ok {
			res.CorrectCount++
		}
	}
	res.IsCorrect = res.CorrectCount == res.QuestionCount
	res.Score = int(math.Round(100 * float64(res.CorrectCount) / float64(res.QuestionCount)))
	return res, nil
}
