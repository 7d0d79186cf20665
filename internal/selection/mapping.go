package selection

import (
	"sort"

	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/tone"
)

// MapQuizPuzzle converts a remote branching row into a puzzle. Rounds and
// options are ordered by their position field, never by storage order.
func MapQuizPuzzle(row *remote.QuizPuzzle) *puzzle.BranchingPuzzle {
	questions := make([]remote.QuizQuestion, len(row.Questions))
	copy(questions, row.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Position < questions[j].Position
	})

	rounds := make([]puzzle.Round, 0, len(questions))
	for _, q := range questions {
		opts := make([]remote.QuizAnswerOption, len(q.Options))
		copy(opts, q.Options)
		sort.SliceStable(opts, func(i, j int) bool {
			return opts[i].Position < opts[j].Position
		})

		options := make([]puzzle.Option, 0, len(opts))
		for _, o := range opts {
			options = append(options, puzzle.Option{Key: o.ID.String(), Label: o.Label})
		}
		rounds = append(rounds, puzzle.Round{
			ID:            q.ID.String(),
			Question:      q.Question,
			Type:          puzzle.QuestionType(q.QuestionType),
			AllowMultiple: q.AllowMultiple,
			Grading:       puzzle.GradingMode(q.GradingMode),
			Options:       options,
		})
	}

	category := puzzle.DefaultCategory
	if row.Category != nil && row.Category.Name != "" {
		category = puzzle.Category(row.Category.Name)
	}

	p := &puzzle.BranchingPuzzle{
		ID:       row.ID.String(),
		Category: category,
		Context:  row.Context,
		Message:  row.Message,
		Rounds:   rounds,
		Reveal: puzzle.Reveal{
			Truth:       deref(row.RevealTruth),
			Explanation: deref(row.RevealExplanation),
			Pattern:     deref(row.RevealPattern),
		},
		IsDaily: true,
		Active:  row.IsActive,
		Source:  puzzle.SourceRemote,
	}
	if row.PuzzleDate != nil {
		p.DailyDate = puzzle.DateKey(*row.PuzzleDate)
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MapTonePuzzle converts a remote tone row.
func MapTonePuzzle(row remote.TonePuzzle) puzzle.TonePuzzle {
	difficulty := row.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}
	return puzzle.TonePuzzle{
		ID:         row.ID.String(),
		Date:       puzzle.DateKey(row.Date),
		Message:    row.Message,
		Category:   row.Category,
		Difficulty: difficulty,
		Active:     row.IsActive,
		Target: tone.Vector{
			Anger:     row.TargetAnger,
			Affection: row.TargetAffection,
			Anxiety:   row.TargetAnxiety,
			Joy:       row.TargetJoy,
			Control:   row.TargetControl,
		}.Clamped(),
	}
}

// TonePuzzleRow converts a tone puzzle into the row shape upserted by date.
// The server assigns the id.
func TonePuzzleRow(p puzzle.TonePuzzle) (remote.TonePuzzle, error) {
	d, err := puzzle.ParseDateKey(p.Date)
	if err != nil {
		return remote.TonePuzzle{}, err
	}
	t := p.Target.Clamped()
	return remote.TonePuzzle{
		Date:            d,
		Message:         p.Message,
		Category:        p.Category,
		Difficulty:      p.Difficulty,
		IsActive:        p.Active,
		TargetAnger:     t.Anger,
		TargetAffection: t.Affection,
		TargetAnxiety:   t.Anxiety,
		TargetJoy:       t.Joy,
		TargetControl:   t.Control,
	}, nil
}
