// Package puzzle defines the puzzle shapes shared by both game variants,
// UTC date keys, local grading, and the bundled seed content.
package puzzle

import (
	"github.com/google/uuid"

	"github.com/abhisek/emoiq/internal/tone"
)

// Category labels a branching puzzle's theme.
type Category string

// Categories returns the practice categories in display order.
func Categories() []Category {
	return []Category{
		"Workplace Politics",
		"Dating & Romance",
		"Family Dynamics",
		"Conflict Resolution",
		"Social Etiquette",
		"Anger Management",
		"Sarcasm Detection",
	}
}

// DefaultCategory is used when a remote puzzle has no category row.
const DefaultCategory Category = "General"

// TonePuzzle is a tone-slider puzzle scheduled for one UTC date.
type TonePuzzle struct {
	ID         string      `json:"id" validate:"required"`
	Date       string      `json:"date" validate:"required,datekey"`
	Message    string      `json:"message" validate:"required,max=280"`
	Category   string      `json:"category" validate:"required"`
	Difficulty int         `json:"difficulty" validate:"gte=1,lte=3"`
	Active     bool        `json:"is_active"`
	Target     tone.Vector `json:"target"`
}

// QuestionType is the presentation kind of a branching round.
type QuestionType string

const (
	QuestionYesNo        QuestionType = "yes_no"
	QuestionTrueFalse    QuestionType = "true_false"
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionMultiChoice  QuestionType = "multi_choice"
)

// GradingMode decides how a round's selection is judged.
type GradingMode string

const (
	// GradeExact requires the selected set to equal the correct set.
	GradeExact GradingMode = "exact"

	// GradeAnyCorrect accepts any selection containing at least one correct
	// option and no incorrect option.
	GradeAnyCorrect GradingMode = "any_correct_without_false"
)

// Source records where a puzzle came from. Only remote puzzles can be
// submitted for authoritative grading.
type Source string

const (
	SourceRemote Source = "remote"
	SourceSeed   Source = "seed"
)

// Option is one answer choice within a round.
type Option struct {
	Key   string `json:"key" validate:"required"`
	Label string `json:"label" validate:"required"`

	// Correct is set only by schemas that flag correctness per option.
	Correct *bool `json:"correct,omitempty"`
}

// Round is one question of a branching puzzle.
type Round struct {
	ID            string       `json:"id" validate:"required"`
	Question      string       `json:"question" validate:"required"`
	Type          QuestionType `json:"question_type" validate:"omitempty,oneof=yes_no true_false single_choice multi_choice"`
	AllowMultiple bool         `json:"allow_multiple"`
	Grading       GradingMode  `json:"grading_mode" validate:"omitempty,oneof=exact any_correct_without_false"`
	Options       []Option     `json:"options" validate:"min=2,dive"`

	// CorrectKey is the single correct option key of the older schema.
	CorrectKey string `json:"correct_key,omitempty"`
}

// Reveal is shown once every round has been committed.
type Reveal struct {
	Truth       string `json:"truth"`
	Explanation string `json:"explanation"`
	Pattern     string `json:"pattern,omitempty"`
}

// BranchingPuzzle is a multi-round multiple-choice puzzle.
type BranchingPuzzle struct {
	ID        string   `json:"id" validate:"required"`
	Category  Category `json:"category"`
	Context   string   `json:"context" validate:"required"`
	Message   string   `json:"message" validate:"required"`
	Rounds    []Round  `json:"rounds" validate:"min=1,dive"`
	Reveal    Reveal   `json:"reveal"`
	IsDaily   bool     `json:"is_daily"`
	DailyDate string   `json:"daily_date,omitempty" validate:"omitempty,datekey"`
	Active    bool     `json:"is_active"`
	Source    Source   `json:"source"`
}

// RoundCount returns the number of rounds, or 0 for a nil puzzle.
func (p *BranchingPuzzle) RoundCount() int {
	if p == nil {
		return 0
	}
	return len(p.Rounds)
}

// IsRemote reports whether the puzzle can be graded by the remote store.
func (p *BranchingPuzzle) IsRemote() bool {
	return p != nil && p.Source == SourceRemote && IsRemoteID(p.ID)
}

// IsRemoteID reports whether id has the shape of a remote record id: a
// canonical RFC 4122 UUID of version 1 through 5.
func IsRemoteID(id string) bool {
	if len(id) != 36 {
		return false
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	v := u.Version()
	return v >= 1 && v <= 5 && u.Variant() == uuid.RFC4122
}

// GradeResult is the score breakdown of a submitted branching attempt.
type GradeResult struct {
	AttemptID     string `json:"attempt_id"`
	Score         int    `json:"score"`
	CorrectCount  int    `json:"correct_count"`
	QuestionCount int    `json:"question_count"`
	IsCorrect     bool   `json:"is_correct"`
}
