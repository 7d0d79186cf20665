package puzzle

import (
	"github.com/abhisek/emoiq/internal/tone"
)

type toneSeed struct {
	message    string
	category   string
	difficulty int
	target     tone.Vector
}

var toneSeeds = []toneSeed{
	{
		message:    "Hey - saw your note. I'm fine. Just... busy. Don't worry about it.",
		category:   "Friendship",
		difficulty: 1,
		target:     tone.Vector{Anger: 22, Affection: 54, Anxiety: 48, Joy: 28, Control: 36},
	},
	{
		message:    "Can you send that update by EOD? If not, I'll just do it myself.",
		category:   "Work",
		difficulty: 2,
		target:     tone.Vector{Anger: 34, Affection: 18, Anxiety: 42, Joy: 10, Control: 72},
	},
	{
		message:    "No pressure - I just wanted to check you got home safe.",
		category:   "Care",
		difficulty: 1,
		target:     tone.Vector{Anger: 6, Affection: 78, Anxiety: 30, Joy: 40, Control: 22},
	},
	{
		message:    "I'm excited about this, but I'm also nervous it won't land the way I hope.",
		category:   "Vulnerability",
		difficulty: 2,
		target:     tone.Vector{Anger: 10, Affection: 62, Anxiety: 70, Joy: 58, Control: 28},
	},
	{
		message:    "That's a good idea. Let's do it your way (for now).",
		category:   "Negotiation",
		difficulty: 2,
		target:     tone.Vector{Anger: 16, Affection: 38, Anxiety: 24, Joy: 26, Control: 60},
	},
	{
		message:    "I'm proud of you. You've been showing up even when it's hard.",
		category:   "Support",
		difficulty: 1,
		target:     tone.Vector{Anger: 2, Affection: 86, Anxiety: 18, Joy: 74, Control: 12},
	},
	{
		message:    "We need to talk about what happened. Not to blame - to understand.",
		category:   "Repair",
		difficulty: 3,
		target:     tone.Vector{Anger: 26, Affection: 44, Anxiety: 52, Joy: 16, Control: 58},
	},
}

// SeedTonePuzzles returns the bundled tone puzzles scheduled on consecutive
// days starting at startKey. An invalid key yields nil.
func SeedTonePuzzles(startKey string) []TonePuzzle {
	out := make([]TonePuzzle, 0, len(toneSeeds))
	for i, s := range toneSeeds {
		date, err := AddDays(startKey, i)
		if err != nil {
			return nil
		}
		out = append(out, TonePuzzle{
			ID:         "seed-" + date,
			Date:       date,
			Message:    s.message,
			Category:   s.category,
			Difficulty: s.difficulty,
			Active:     true,
			Target:     s.target,
		})
	}
	return out
}

// FallbackBranching returns the fixed local puzzle served when the remote
// store is unconfigured or has nothing for dateKey. Its id is not a remote
// record id, so it can never be submitted for remote grading.
func FallbackBranching(dateKey string) *BranchingPuzzle {
	return &BranchingPuzzle{
		ID:       "seed-dating-standup",
		Category: "Dating & Romance",
		Context:  "You were supposed to meet for dinner. You waited 45 minutes, then they text.",
		Message:  "I'm fine, really. No big deal.",
		Rounds: []Round{
			{
				ID:       "r1",
				Question: "Are they saying what they feel?",
				Type:     QuestionSingleChoice,
				Grading:  GradeExact,
				Options: []Option{
					{Key: "genuine_ok", Label: "Yes, they are fine"},
					{Key: "hurt_underneath", Label: "No, there is hurt underneath"},
					{Key: "teasing", Label: "They are teasing"},
				},
				CorrectKey: "hurt_underneath",
			},
			{
				ID:       "r2",
				Question: "Where is the hurt aimed?",
				Type:     QuestionSingleChoice,
				Grading:  GradeExact,
				Options: []Option{
					{Key: "at_you", Label: "At you for letting them down"},
					{Key: "at_self", Label: "At themselves for caring"},
					{Key: "at_circumstances", Label: "At the situation"},
				},
				CorrectKey: "at_you",
			},
			{
				ID:       "r3",
				Question: "What do they want now?",
				Type:     QuestionSingleChoice,
				Grading:  GradeExact,
				Options: []Option{
					{Key: "space_and_silence", Label: "Space and no follow-up"},
					{Key: "sincere_apology", Label: "A sincere apology and effort"},
					{Key: "end_things", Label: "To end things quietly"},
				},
				CorrectKey: "sincere_apology",
			},
		},
		Reveal: Reveal{
			Truth:       "They are hurt and want you to notice and repair it.",
			Explanation: "I am fine is a cover for disappointment and a wish for a real apology.",
			Pattern:     "After a letdown, minimization often masks a desire for repair.",
		},
		IsDaily:   true,
		DailyDate: dateKey,
		Active:    true,
		Source:    SourceSeed,
	}
}
