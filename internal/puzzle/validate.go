package puzzle

import (
	"fmt"

	"github.com/abhisek/emoiq/internal/validate"
)

// Validate checks field constraints on a tone puzzle.
func (p TonePuzzle) Validate() error {
	return validate.Struct(p)
}

// Validate checks field constraints and round consistency: option keys are
// unique within a round and any correct key names one of the options.
func (p *BranchingPuzzle) Validate() error {
	if p == nil {
		return fmt.Errorf("nil puzzle")
	}
	if err := validate.Struct(p); err != nil {
		return err
	}
	for i, r := range p.Rounds {
		keys := make(map[string]bool, len(r.Options))
		for _, o := range r.Options {
			if keys[o.Key] {
				return fmt.Errorf("round %d: duplicate option key %q", i+1, o.Key)
			}
			keys[o.Key] = true
		}
		if r.CorrectKey != "" && !keys[r.CorrectKey] {
			return fmt.Errorf("round %d: correct key %q is not an option", i+1, r.CorrectKey)
		}
	}
	return nil
}
