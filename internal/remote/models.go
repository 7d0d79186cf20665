package remote

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Category names a practice category.
type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string { return "categories" }

// QuizPuzzle is a branching puzzle row with its nested questions.
type QuizPuzzle struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PuzzleDate        *time.Time     `gorm:"type:date;index" json:"puzzle_date"`
	Title             *string        `gorm:"type:text" json:"title"`
	Context           string         `gorm:"type:text;not null" json:"context"`
	Message           string         `gorm:"type:text;not null" json:"message"`
	RevealTruth       *string        `gorm:"type:text" json:"reveal_truth"`
	RevealExplanation *string        `gorm:"type:text" json:"reveal_explanation"`
	RevealPattern     *string        `gorm:"type:text" json:"reveal_pattern"`
	IsActive          bool           `gorm:"not null;default:true;index" json:"is_active"`
	CategoryID        *uuid.UUID     `gorm:"type:uuid;index" json:"category_id"`
	Category          *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Questions         []QuizQuestion `gorm:"foreignKey:PuzzleID;constraint:OnDelete:CASCADE" json:"questions"`
	CreatedAt         time.Time      `json:"created_at"`
}

func (QuizPuzzle) TableName() string { return "quiz_puzzles" }

// QuizQuestion is one round of a branching puzzle.
type QuizQuestion struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PuzzleID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"puzzle_id"`
	Position      int                `gorm:"not null" json:"position"`
	Question      string             `gorm:"type:text;not null" json:"question"`
	QuestionType  string             `gorm:"size:20;not null;default:single_choice" json:"question_type"`
	AllowMultiple bool               `gorm:"not null;default:false" json:"allow_multiple"`
	GradingMode   string             `gorm:"size:40;not null;default:exact" json:"grading_mode"`
	Options       []QuizAnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"quiz_answer_options"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

// QuizAnswerOption is one choice of a question. Correctness stays on the
// server and is not selected by the client.
type QuizAnswerOption struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Position   int       `gorm:"not null" json:"position"`
	Label      string    `gorm:"type:text;not null" json:"label"`
}

func (QuizAnswerOption) TableName() string { return "quiz_answer_options" }

// UserQuizAttempt is a graded branching submission.
type UserQuizAttempt struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        string         `gorm:"size:100;not null;uniqueIndex:idx_user_quiz_attempt" json:"user_id"`
	PuzzleID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_quiz_attempt" json:"puzzle_id"`
	Score         int            `gorm:"not null" json:"score"`
	CorrectCount  int            `gorm:"not null" json:"correct_count"`
	QuestionCount int            `gorm:"not null" json:"question_count"`
	IsCorrect     bool           `gorm:"not null" json:"is_correct"`
	Answers       datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (UserQuizAttempt) TableName() string { return "user_quiz_attempts" }

// TonePuzzle is a tone-slider puzzle row, unique by date.
type TonePuzzle struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date            time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	Category        string    `gorm:"size:100;not null" json:"category"`
	Difficulty      int       `gorm:"not null;default:1" json:"difficulty"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	TargetAnger     int       `gorm:"not null;default:50" json:"target_anger"`
	TargetAffection int       `gorm:"not null;default:50" json:"target_affection"`
	TargetAnxiety   int       `gorm:"not null;default:50" json:"target_anxiety"`
	TargetJoy       int       `gorm:"not null;default:50" json:"target_joy"`
	TargetControl   int       `gorm:"not null;default:50" json:"target_control"`
}

func (TonePuzzle) TableName() string { return "puzzles" }

// ToneAttempt is one synced tone guess, unique by (user, puzzle, index).
type ToneAttempt struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         string         `gorm:"size:100;not null;uniqueIndex:idx_tone_attempt" json:"user_id"`
	PuzzleID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_tone_attempt" json:"puzzle_id"`
	AttemptIndex   int            `gorm:"not null;uniqueIndex:idx_tone_attempt" json:"attempt_index"`
	Resonance      int            `gorm:"not null" json:"resonance"`
	GuessAnger     int            `gorm:"not null" json:"guess_anger"`
	GuessAffection int            `gorm:"not null" json:"guess_affection"`
	GuessAnxiety   int            `gorm:"not null" json:"guess_anxiety"`
	GuessJoy       int            `gorm:"not null" json:"guess_joy"`
	GuessControl   int            `gorm:"not null" json:"guess_control"`
	Hints          datatypes.JSON `gorm:"type:jsonb" json:"hints"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (ToneAttempt) TableName() string { return "tone_attempts" }

// Entitlement records a purchased product, unique by (user, product).
type Entitlement struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    string    `gorm:"size:100;not null;uniqueIndex:idx_entitlement" json:"user_id"`
	ProductID string    `gorm:"size:100;not null;uniqueIndex:idx_entitlement" json:"product_id"`
	Status    string    `gorm:"size:20;not null;default:active" json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entitlement) TableName() string { return "entitlements" }

// Models lists every table, in dependency order, for auto-migration.
func Models() []any {
	return []any{
		&Category{},
		&QuizPuzzle{},
		&QuizQuestion{},
		&QuizAnswerOption{},
		&UserQuizAttempt{},
		&TonePuzzle{},
		&ToneAttempt{},
		&Entitlement{},
	}
}

// Answer is one round's submitted option ids.
type Answer struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"option_ids"`
}

// GradeRow is the result of the grading procedure.
type GradeRow struct {
	AttemptID     string `gorm:"column:attempt_id"`
	Score         int    `gorm:"column:score"`
	CorrectCount  int    `gorm:"column:correct_count"`
	QuestionCount int    `gorm:"column:question_count"`
	IsCorrect     bool   `gorm:"column:is_correct"`
}
