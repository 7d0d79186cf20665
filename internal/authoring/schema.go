package authoring

import "github.com/abhisek/emoiq/internal/llm"

func toneAxis(desc string) map[string]any {
	return map[string]any{"type": "integer", "minimum": 0, "maximum": 100, "description": desc}
}

// DraftSchema is the response shape for one tone puzzle.
var DraftSchema = &llm.Schema{
	Name:        "tone-puzzle",
	Description: "A short ambiguous message and the emotional tone behind it",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "The message as the sender wrote it, at most 280 characters, no names",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Short theme label such as Workplace or Family",
			},
			"difficulty": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 3,
			},
			"target": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"anger":     toneAxis("How hostile or irritated the sender is"),
					"affection": toneAxis("How warm or fond the sender is"),
					"anxiety":   toneAxis("How worried or insecure the sender is"),
					"joy":       toneAxis("How happy or excited the sender is"),
					"control":   toneAxis("How much the sender is trying to steer the reader"),
				},
				"required":             []any{"anger", "affection", "anxiety", "joy", "control"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"message", "category", "difficulty", "target"},
		"additionalProperties": false,
	},
}
